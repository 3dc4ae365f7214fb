package dto

import (
	"time"

	"github.com/spec-kit/roster-service/internal/domain"
)

// CreateStaffRequest payload.
type CreateStaffRequest struct {
	NISNo         string  `json:"nis_no"`
	Surname       string  `json:"surname"`
	OtherNames    string  `json:"other_names"`
	Rank          string  `json:"rank"`
	Gender        *string `json:"gender"`
	DOFA          *string `json:"dofa"`
	DOPA          *string `json:"dopa"`
	DOPP          *string `json:"dopp"`
	DOB           *string `json:"dob"`
	StateID       *int64  `json:"state_id"`
	LGAID         *int64  `json:"lga_id"`
	HomeTown      *string `json:"home_town"`
	Qualification *string `json:"qualification"`
	PhoneNo       *string `json:"phone_no"`
	NextOfKin     *string `json:"next_of_kin"`
	NOKPhone      *string `json:"nok_phone"`
	Office        *string `json:"office"`
	Remark        *string `json:"remark"`
	FormationID   *int64  `json:"formation_id"`
	Role          string  `json:"role"`
	Password      string  `json:"password"`
	AllowLogin    bool    `json:"allow_login"`
}

// FieldValueRequest carries one proposed field value: exactly one arm set.
// Dates use the YYYY-MM-DD form.
type FieldValueRequest struct {
	Text *string `json:"text,omitempty"`
	Date *string `json:"date,omitempty"`
	Ref  *int64  `json:"ref,omitempty"`
}

// ChangeSetRequest maps field names to proposed values.
type ChangeSetRequest map[string]FieldValueRequest

// ChangeRoleRequest payload.
type ChangeRoleRequest struct {
	Role string `json:"role"`
}

// AssignPostingRequest payload.
type AssignPostingRequest struct {
	FormationID *int64  `json:"formation_id"`
	Office      *string `json:"office"`
}

// EditFlagsRequest payload.
type EditFlagsRequest struct {
	AllowEditRank bool `json:"allow_edit_rank"`
	AllowEditDOPP bool `json:"allow_edit_dopp"`
}

// RecordExitRequest payload.
type RecordExitRequest struct {
	ExitDate string `json:"exit_date"`
	ExitMode string `json:"exit_mode"`
}

// OutRequestRequest payload for raising an out request.
type OutRequestRequest struct {
	Reason string `json:"reason"`
}

// ResolveOutRequestRequest payload.
type ResolveOutRequestRequest struct {
	Approve  bool   `json:"approve"`
	ExitMode string `json:"exit_mode"`
}

// StaffSummary is the roster listing row.
type StaffSummary struct {
	ID             int64       `json:"id"`
	NISNo          string      `json:"nis_no"`
	Surname        string      `json:"surname"`
	OtherNames     string      `json:"other_names"`
	Rank           domain.Rank `json:"rank"`
	Gender         *string     `json:"gender"`
	Office         *string     `json:"office"`
	FormationID    *int64      `json:"formation_id"`
	DOPA           *time.Time  `json:"dopa"`
	DOPP           *time.Time  `json:"dopp"`
	ExitDate       *time.Time  `json:"exit_date"`
	ExitMode       *string     `json:"exit_mode"`
	RetirementDate *time.Time  `json:"retirement_date"`
	Complete       bool        `json:"complete"`
	Role           string      `json:"role"`
}

// StaffDetail is the full record view.
type StaffDetail struct {
	StaffSummary
	DOFA             *time.Time `json:"dofa"`
	DOB              *time.Time `json:"dob"`
	StateID          *int64     `json:"state_id"`
	LGAID            *int64     `json:"lga_id"`
	HomeTown         *string    `json:"home_town"`
	Qualification    *string    `json:"qualification"`
	PhoneNo          *string    `json:"phone_no"`
	NextOfKin        *string    `json:"next_of_kin"`
	NOKPhone         *string    `json:"nok_phone"`
	Remark           *string    `json:"remark"`
	OutRequestStatus *string    `json:"out_request_status"`
	OutRequestDate   *time.Time `json:"out_request_date"`
	OutRequestReason *string    `json:"out_request_reason"`
	AllowEditRank    bool       `json:"allow_edit_rank"`
	AllowEditDOPP    bool       `json:"allow_edit_dopp"`
	AllowLogin       bool       `json:"allow_login"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// RosterListResponse is one page of roster rows with the exact match total.
type RosterListResponse struct {
	Items []StaffSummary `json:"items"`
	Total int            `json:"total"`
}
