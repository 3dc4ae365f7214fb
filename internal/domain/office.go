package domain

import "time"

// OfficeType classifies a posting location.
type OfficeType string

const (
	OfficeTypeSection OfficeType = "Section"
	OfficeTypeUnit    OfficeType = "Unit"
	// OfficeTypeDirectorateOffice may only exist under a Directorate formation.
	OfficeTypeDirectorateOffice OfficeType = "Directorate Office"
)

// Office is a posting location, optionally scoped to a formation and
// optionally hierarchical. Name is unique case-insensitively within its
// formation scope; staff records reference it by free-text name.
type Office struct {
	ID          int64
	Name        string
	FormationID *int64
	Type        *OfficeType
	ParentID    *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
