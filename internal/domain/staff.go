package domain

import "time"

// StaffRole enumerates roles held by roster members.
type StaffRole string

const (
	StaffRoleStaff       StaffRole = "staff"
	StaffRoleOfficeAdmin StaffRole = "office_admin"
	StaffRoleMainAdmin   StaffRole = "main_admin"
)

// ValidStaffRole reports whether the role is assignable to a staff record.
func ValidStaffRole(role StaffRole) bool {
	switch role {
	case StaffRoleStaff, StaffRoleOfficeAdmin, StaffRoleMainAdmin:
		return true
	}
	return false
}

// ExitMode enumerates how a staff member left the roster.
type ExitMode string

const (
	ExitModeRetired   ExitMode = "Retired"
	ExitModePostedOut ExitMode = "Posted Out"
	ExitModeDeceased  ExitMode = "Deceased"
	ExitModeDismissed ExitMode = "Dismissed"
)

// StaffRecord is one roster member. The NIS number is the identity key and is
// globally unique across active and exited records.
type StaffRecord struct {
	ID            int64
	NISNo         string
	Surname       string
	OtherNames    string
	Rank          Rank
	Gender        *string
	DOFA          *time.Time // date of first appointment
	DOPA          *time.Time // date of present appointment
	DOPP          *time.Time // date of present posting
	DOB           *time.Time
	StateID       *int64
	LGAID         *int64
	HomeTown      *string
	Qualification *string
	PhoneNo       *string
	NextOfKin     *string
	NOKPhone      *string
	Office        *string // free-text office label, matched by name within the formation
	Remark        *string
	FormationID   *int64
	ExitDate      *time.Time
	ExitMode      *ExitMode
	// Pending exit request raised by the staff member; resolved outside the
	// edit-request workflow and never editable through it.
	OutRequestStatus *string
	OutRequestDate   *time.Time
	OutRequestReason *string
	AllowEditRank    bool
	AllowEditDOPP    bool
	AllowLogin       bool
	LoginAttempts    int
	PasswordHash     string
	Role             StaffRole
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Active reports whether the record has not exited the roster.
func (s *StaffRecord) Active() bool {
	return s.ExitDate == nil
}

// FullName renders "Surname OtherNames" for notifications and exports.
func (s *StaffRecord) FullName() string {
	return s.Surname + " " + s.OtherNames
}
