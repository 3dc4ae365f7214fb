package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/events"
	"github.com/spec-kit/roster-service/internal/persistence"
	"github.com/spec-kit/roster-service/internal/repository"
	"github.com/spec-kit/roster-service/pkg/util/errorutil"
)

// RetirementService finds records whose retirement has fallen due, exits
// them and notifies the administrative tiers.
type RetirementService struct {
	staff      repository.StaffRepository
	notifier   *NotificationService
	uow        persistence.UnitOfWork
	dispatcher events.Dispatcher
}

// RetirementDependencies bundles collaborators for the retirement service.
type RetirementDependencies struct {
	StaffRepo  repository.StaffRepository
	Notifier   *NotificationService
	UnitOfWork persistence.UnitOfWork
	Dispatcher events.Dispatcher
}

// NewRetirementService constructs the service.
func NewRetirementService(deps RetirementDependencies) *RetirementService {
	return &RetirementService{
		staff:      deps.StaffRepo,
		notifier:   deps.Notifier,
		uow:        deps.UnitOfWork,
		dispatcher: deps.Dispatcher,
	}
}

// ScanResult reports one scan invocation.
type ScanResult struct {
	Processed int
	BatchID   string
}

// ProcessDueRetirements retires every record whose stored exit date has
// arrived without its exit mode being finalized. The derived retirement date
// only drives filtering and ordering; it never triggers an exit on its own.
// Exempt-rank records are skipped. All record updates and the notification
// fan-out commit or roll back together, so a failed scan can rerun without
// partial state. Records retired here stop matching on the next pass, which
// is what makes rerunning safe.
func (s *RetirementService) ProcessDueRetirements(ctx context.Context, asOf time.Time) (*ScanResult, error) {
	batchID := uuid.NewString()
	var retired []domain.StaffRecord

	err := s.uow.RunInTx(ctx, func(ctx context.Context) error {
		retired = retired[:0]

		scheduled, err := s.staff.ListDueForRetirement(ctx, asOf)
		if err != nil {
			return errorutil.MapError(err)
		}
		for i := range scheduled {
			rec := &scheduled[i]
			if rec.Rank.Exempt() {
				continue
			}
			mode := domain.ExitModeRetired
			rec.ExitMode = &mode
			rec.AllowLogin = false
			if err := s.staff.Update(ctx, rec); err != nil {
				return errorutil.MapError(err)
			}
			retired = append(retired, *rec)
		}

		for i := range retired {
			if err := s.announce(ctx, &retired[i], batchID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	actor := SystemActor("retirement-scan")
	for i := range retired {
		rec := &retired[i]
		publishEvent(ctx, s.dispatcher, events.Event{
			Type:   events.EventStaffRetired,
			Target: rec.NISNo,
			Actor:  actor,
			Payload: events.RetirementPayload{
				StaffID:  rec.ID,
				NISNo:    rec.NISNo,
				ExitDate: rec.ExitDate.Format("2006-01-02"),
			},
		})
	}

	result := &ScanResult{Processed: len(retired)}
	if len(retired) > 0 {
		result.BatchID = batchID
	}
	return result, nil
}

// announce notifies the four administrative tiers about one retirement:
// special admins, the retiree's formation admins, main admins, and the office
// admins of the retiree's office. One broadcast per tier, all sharing the
// scan's batch id.
func (s *RetirementService) announce(ctx context.Context, rec *domain.StaffRecord, batchID string) error {
	message := fmt.Sprintf("%s %s (%s) retired with effect from %s",
		rec.Rank, rec.FullName(), rec.NISNo, rec.ExitDate.Format("2006-01-02"))
	targets := []BroadcastInput{
		{Message: message, BatchID: batchID, SpecialAdmins: true},
		{Message: message, BatchID: batchID, MainAdmins: true},
	}
	if rec.FormationID != nil {
		targets = append(targets, BroadcastInput{Message: message, BatchID: batchID, FormationID: rec.FormationID})
	}
	if rec.Office != nil && rec.FormationID != nil {
		targets = append(targets, BroadcastInput{
			Message: message,
			BatchID: batchID,
			Office:  &OfficeTarget{Name: *rec.Office, FormationID: *rec.FormationID},
		})
	}
	for i := range targets {
		if _, err := s.notifier.Broadcast(ctx, targets[i]); err != nil {
			return err
		}
	}
	return nil
}
