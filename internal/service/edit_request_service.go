package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/events"
	"github.com/spec-kit/roster-service/internal/persistence"
	"github.com/spec-kit/roster-service/internal/repository"
	"github.com/spec-kit/roster-service/pkg/util/errorutil"
)

// EditRequestService runs the propose/approve workflow for staff edits.
type EditRequestService struct {
	requests   repository.EditRequestRepository
	staff      repository.StaffRepository
	uow        persistence.UnitOfWork
	dispatcher events.Dispatcher
}

// EditRequestDependencies bundles collaborators for the edit-request service.
type EditRequestDependencies struct {
	RequestRepo repository.EditRequestRepository
	StaffRepo   repository.StaffRepository
	UnitOfWork  persistence.UnitOfWork
	Dispatcher  events.Dispatcher
}

// NewEditRequestService constructs the service.
func NewEditRequestService(deps EditRequestDependencies) *EditRequestService {
	return &EditRequestService{
		requests:   deps.RequestRepo,
		staff:      deps.StaffRepo,
		uow:        deps.UnitOfWork,
		dispatcher: deps.Dispatcher,
	}
}

// Submit queues a change-set for a staff record. When a pending request for
// the record already exists, the new change-set merges into it: overlapping
// fields take the new value, the rest union. The pending row is locked for
// the merge, so concurrent submissions serialize rather than duplicate.
// Elevated callers bypass the per-record permission flags; the field
// allowlist binds everyone.
func (s *EditRequestService) Submit(ctx context.Context, staffID int64, changes domain.ChangeSet, elevated bool, actor events.Actor) (*domain.EditRequest, error) {
	if len(changes) == 0 {
		return nil, errorutil.NewValidationError("empty change set", nil)
	}

	var result *domain.EditRequest
	err := s.uow.RunInTx(ctx, func(ctx context.Context) error {
		rec, err := s.staff.GetByID(ctx, staffID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return errorutil.NewNotFound("staff record", map[string]any{"id": staffID})
			}
			return errorutil.MapError(err)
		}
		if err := changes.Validate(rec, elevated); err != nil {
			return errorutil.NewForbiddenField(err.Error())
		}

		pending, err := s.requests.GetPendingForUpdate(ctx, staffID)
		switch {
		case err == nil:
			pending.Changes.Merge(changes)
			pending.SubmittedBy = actor.Username
			if err := s.requests.UpdateChanges(ctx, pending); err != nil {
				return errorutil.MapError(err)
			}
			result = pending
		case errors.Is(err, pgx.ErrNoRows):
			req := &domain.EditRequest{
				StaffID:     staffID,
				Changes:     changes.Clone(),
				Status:      domain.EditRequestPending,
				SubmittedBy: actor.Username,
			}
			if err := s.requests.Create(ctx, req); err != nil {
				return errorutil.MapError(err)
			}
			result = req
		default:
			return errorutil.MapError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:   events.EventEditRequestSubmitted,
		Target: result.SubmittedBy,
		Actor:  actor,
		Payload: events.EditRequestPayload{
			RequestID: result.ID,
			StaffID:   result.StaffID,
			Status:    result.Status,
			Fields:    changedFields(result.Changes),
		},
	})
	return result, nil
}

// Approve applies a pending request to its staff record and marks it
// approved. The write to the record and the status flip land in one
// transaction; a request that is no longer pending is a conflict.
func (s *EditRequestService) Approve(ctx context.Context, requestID int64, actor events.Actor) (*domain.EditRequest, error) {
	return s.resolve(ctx, requestID, domain.EditRequestApproved, actor)
}

// Reject marks a pending request rejected without touching the record.
func (s *EditRequestService) Reject(ctx context.Context, requestID int64, actor events.Actor) (*domain.EditRequest, error) {
	return s.resolve(ctx, requestID, domain.EditRequestRejected, actor)
}

func (s *EditRequestService) resolve(ctx context.Context, requestID int64, status domain.EditRequestStatus, actor events.Actor) (*domain.EditRequest, error) {
	var result *domain.EditRequest
	err := s.uow.RunInTx(ctx, func(ctx context.Context) error {
		req, err := s.requests.GetByID(ctx, requestID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return errorutil.NewNotFound("edit request", map[string]any{"id": requestID})
			}
			return errorutil.MapError(err)
		}
		if req.Status != domain.EditRequestPending {
			return errorutil.NewConflict("edit request already resolved", map[string]any{"status": req.Status})
		}

		if status == domain.EditRequestApproved {
			rec, err := s.staff.GetByID(ctx, req.StaffID)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return errorutil.NewNotFound("staff record", map[string]any{"id": req.StaffID})
				}
				return errorutil.MapError(err)
			}
			if err := req.Changes.Apply(rec, true); err != nil {
				return errorutil.NewForbiddenField(err.Error())
			}
			if err := s.staff.Update(ctx, rec); err != nil {
				return errorutil.MapError(err)
			}
		}

		now := time.Now()
		req.Status = status
		req.ResolvedBy = &actor.Username
		req.ResolvedAt = &now
		if err := s.requests.Resolve(ctx, req); err != nil {
			// lost the race to another resolver
			if errors.Is(err, pgx.ErrNoRows) {
				return errorutil.NewConflict("edit request already resolved", nil)
			}
			return errorutil.MapError(err)
		}
		result = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:   events.EventEditRequestResolved,
		Target: actor.Username,
		Actor:  actor,
		Payload: events.EditRequestPayload{
			RequestID: result.ID,
			StaffID:   result.StaffID,
			Status:    result.Status,
			Fields:    changedFields(result.Changes),
		},
	})
	return result, nil
}

// GetRequest fetches a request by id.
func (s *EditRequestService) GetRequest(ctx context.Context, id int64) (*domain.EditRequest, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("edit request", map[string]any{"id": id})
		}
		return nil, errorutil.MapError(err)
	}
	return req, nil
}

// ListRequests returns requests in one status, newest first.
func (s *EditRequestService) ListRequests(ctx context.Context, status domain.EditRequestStatus, limit, offset int) ([]domain.EditRequest, error) {
	switch status {
	case domain.EditRequestPending, domain.EditRequestApproved, domain.EditRequestRejected:
	default:
		return nil, errorutil.NewValidationError("unknown status", map[string]any{"status": status})
	}
	list, err := s.requests.ListByStatus(ctx, status, limit, offset)
	if err != nil {
		return nil, errorutil.MapError(err)
	}
	return list, nil
}
