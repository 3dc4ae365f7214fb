package service

import (
	"context"
	"encoding/json"

	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/events"
	"github.com/spec-kit/roster-service/internal/repository"
	"github.com/spec-kit/roster-service/pkg/util/errorutil"
)

// AuditService mirrors domain events into the audit trail.
type AuditService struct {
	logs repository.AuditLogRepository
}

// NewAuditService constructs the service.
func NewAuditService(logs repository.AuditLogRepository) *AuditService {
	return &AuditService{logs: logs}
}

// auditedEvents is the set of event types recorded in the trail.
var auditedEvents = []events.EventType{
	events.EventStaffCreated,
	events.EventStaffUpdated,
	events.EventStaffDeleted,
	events.EventStaffRoleChanged,
	events.EventStaffRetired,
	events.EventEditRequestSubmitted,
	events.EventEditRequestResolved,
	events.EventFormationCreated,
	events.EventOfficeCreated,
}

// Register subscribes the audit writer to every audited event type.
func (s *AuditService) Register(dispatcher events.Dispatcher) {
	for _, eventType := range auditedEvents {
		dispatcher.Subscribe(eventType, s.record)
	}
}

func (s *AuditService) record(ctx context.Context, event events.Event) error {
	entry := &domain.AuditLog{
		Action: string(event.Type),
		Target: event.Target,
		Actor:  event.Actor.Username,
	}
	if event.Payload != nil {
		if payload, err := json.Marshal(event.Payload); err == nil {
			details := string(payload)
			entry.Details = &details
		}
	}
	return s.logs.Create(ctx, entry)
}

// ListEntries returns audit entries, newest first.
func (s *AuditService) ListEntries(ctx context.Context, limit, offset int) ([]domain.AuditLog, error) {
	list, err := s.logs.List(ctx, limit, offset)
	if err != nil {
		return nil, errorutil.MapError(err)
	}
	return list, nil
}
