package dto

import (
	"time"

	"github.com/spec-kit/roster-service/internal/domain"
)

// SubmitEditRequest payload. Changes use the field allowlist names.
type SubmitEditRequest struct {
	Changes ChangeSetRequest `json:"changes"`
}

// EditRequestResponse view.
type EditRequestResponse struct {
	ID          int64                    `json:"id"`
	StaffID     int64                    `json:"staff_id"`
	Changes     domain.ChangeSet         `json:"changes"`
	Status      domain.EditRequestStatus `json:"status"`
	SubmittedBy string                   `json:"submitted_by"`
	SubmittedAt time.Time                `json:"submitted_at"`
	ResolvedBy  *string                  `json:"resolved_by"`
	ResolvedAt  *time.Time               `json:"resolved_at"`
}

// NotificationResponse view.
type NotificationResponse struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	BatchID   string    `json:"batch_id"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// BroadcastRequest payload: exactly one tier per request; formation_id
// doubles as the office scope when office_name is set.
type BroadcastRequest struct {
	Message       string  `json:"message"`
	SpecialAdmins bool    `json:"special_admins"`
	MainAdmins    bool    `json:"main_admins"`
	FormationID   *int64  `json:"formation_id"`
	OfficeName    *string `json:"office_name"`
}

// BroadcastResponse reports the fan-out.
type BroadcastResponse struct {
	BatchID    string `json:"batch_id"`
	Recipients int    `json:"recipients"`
}
