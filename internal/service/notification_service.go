package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/persistence"
	"github.com/spec-kit/roster-service/internal/repository"
	"github.com/spec-kit/roster-service/pkg/util/errorutil"
)

// NotificationService fans messages out to resolved recipient sets and serves
// per-recipient feeds.
type NotificationService struct {
	notifications repository.NotificationRepository
	admins        repository.AdminAccountRepository
	staff         repository.StaffRepository
	uow           persistence.UnitOfWork
}

// NotificationDependencies bundles collaborators for the notification service.
type NotificationDependencies struct {
	NotificationRepo repository.NotificationRepository
	AdminRepo        repository.AdminAccountRepository
	StaffRepo        repository.StaffRepository
	UnitOfWork       persistence.UnitOfWork
}

// NewNotificationService constructs the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	return &NotificationService{
		notifications: deps.NotificationRepo,
		admins:        deps.AdminRepo,
		staff:         deps.StaffRepo,
		uow:           deps.UnitOfWork,
	}
}

// OfficeTarget addresses the office administrators of one office within one
// formation. Office membership is free text on staff records, so resolution
// matches the name case-insensitively.
type OfficeTarget struct {
	Name        string
	FormationID int64
}

// BroadcastInput carries one message and exactly one recipient tier. Callers
// addressing several tiers make one invocation per tier and pass a shared
// batch id.
type BroadcastInput struct {
	Message       string
	BatchID       string
	SpecialAdmins bool
	MainAdmins    bool
	FormationID   *int64
	Office        *OfficeTarget
}

// BroadcastResult reports what one broadcast produced.
type BroadcastResult struct {
	BatchID    string
	Recipients int
}

// Broadcast creates one notification per resolved recipient, all sharing a
// batch id. The whole fan-out lands in one unit of work.
func (s *NotificationService) Broadcast(ctx context.Context, input BroadcastInput) (*BroadcastResult, error) {
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, errorutil.NewValidationError("message is required", nil)
	}
	tiers := 0
	for _, selected := range []bool{
		input.SpecialAdmins,
		input.MainAdmins,
		input.FormationID != nil,
		input.Office != nil,
	} {
		if selected {
			tiers++
		}
	}
	if tiers != 1 {
		return nil, errorutil.NewValidationError("exactly one recipient tier is required", nil)
	}

	adminIDs := map[int64]struct{}{}
	staffIDs := map[int64]struct{}{}

	if input.SpecialAdmins {
		accounts, err := s.admins.ListByRole(ctx, domain.AdminRoleSpecial)
		if err != nil {
			return nil, errorutil.MapError(err)
		}
		for _, account := range accounts {
			adminIDs[account.ID] = struct{}{}
		}
	}
	if input.FormationID != nil {
		accounts, err := s.admins.ListFormationAdmins(ctx, *input.FormationID)
		if err != nil {
			return nil, errorutil.MapError(err)
		}
		for _, account := range accounts {
			adminIDs[account.ID] = struct{}{}
		}
	}
	if input.MainAdmins {
		records, err := s.staff.ListByRole(ctx, domain.StaffRoleMainAdmin)
		if err != nil {
			return nil, errorutil.MapError(err)
		}
		for _, rec := range records {
			staffIDs[rec.ID] = struct{}{}
		}
	}
	if input.Office != nil {
		records, err := s.staff.ListOfficeAdmins(ctx, input.Office.Name, input.Office.FormationID)
		if err != nil {
			return nil, errorutil.MapError(err)
		}
		for _, rec := range records {
			staffIDs[rec.ID] = struct{}{}
		}
	}

	batchID := input.BatchID
	if batchID == "" {
		batchID = uuid.NewString()
	}

	err := s.uow.RunInTx(ctx, func(ctx context.Context) error {
		for adminID := range adminIDs {
			id := adminID
			notif := &domain.Notification{Message: message, AdminID: &id, BatchID: batchID}
			if err := s.notifications.Create(ctx, notif); err != nil {
				return errorutil.MapError(err)
			}
		}
		for staffID := range staffIDs {
			id := staffID
			notif := &domain.Notification{Message: message, StaffID: &id, BatchID: batchID}
			if err := s.notifications.Create(ctx, notif); err != nil {
				return errorutil.MapError(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &BroadcastResult{
		BatchID:    batchID,
		Recipients: len(adminIDs) + len(staffIDs),
	}, nil
}

// ListForAdmin returns an admin account's feed, unread first.
func (s *NotificationService) ListForAdmin(ctx context.Context, adminID int64, limit, offset int) ([]domain.Notification, error) {
	list, err := s.notifications.ListForAdmin(ctx, adminID, limit, offset)
	if err != nil {
		return nil, errorutil.MapError(err)
	}
	return list, nil
}

// ListForStaff returns a staff login's feed, unread first.
func (s *NotificationService) ListForStaff(ctx context.Context, staffID int64, limit, offset int) ([]domain.Notification, error) {
	list, err := s.notifications.ListForStaff(ctx, staffID, limit, offset)
	if err != nil {
		return nil, errorutil.MapError(err)
	}
	return list, nil
}

// MarkRead flags one notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, id int64) error {
	if err := s.notifications.MarkRead(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errorutil.NewNotFound("notification", map[string]any{"id": id})
		}
		return errorutil.MapError(err)
	}
	return nil
}
