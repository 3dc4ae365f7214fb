package events

import (
	"time"

	"github.com/spec-kit/roster-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventStaffCreated         EventType = "staff_created"
	EventStaffUpdated         EventType = "staff_updated"
	EventStaffDeleted         EventType = "staff_deleted"
	EventStaffRoleChanged     EventType = "staff_role_changed"
	EventStaffRetired         EventType = "staff_retired"
	EventEditRequestSubmitted EventType = "edit_request_submitted"
	EventEditRequestResolved  EventType = "edit_request_resolved"
	EventFormationCreated     EventType = "formation_created"
	EventOfficeCreated        EventType = "office_created"
)

// Actor identifies who caused an event.
type Actor struct {
	Type     domain.SubjectType `json:"type"`
	Username string             `json:"username"`
	AdminID  *int64             `json:"admin_id,omitempty"`
	StaffID  *int64             `json:"staff_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Target    string      `json:"target"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// StaffChangedPayload payload for create/update/delete.
type StaffChangedPayload struct {
	StaffID int64    `json:"staff_id"`
	NISNo   string   `json:"nis_no"`
	Fields  []string `json:"fields,omitempty"`
}

// StaffRoleChangedPayload payload.
type StaffRoleChangedPayload struct {
	StaffID int64            `json:"staff_id"`
	OldRole domain.StaffRole `json:"old_role"`
	NewRole domain.StaffRole `json:"new_role"`
}

// EditRequestPayload payload for submit/resolve.
type EditRequestPayload struct {
	RequestID int64                    `json:"request_id"`
	StaffID   int64                    `json:"staff_id"`
	Status    domain.EditRequestStatus `json:"status"`
	Fields    []string                 `json:"fields,omitempty"`
}

// RetirementPayload payload for the scanner.
type RetirementPayload struct {
	StaffID  int64  `json:"staff_id"`
	NISNo    string `json:"nis_no"`
	ExitDate string `json:"exit_date"`
}
