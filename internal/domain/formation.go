package domain

import "time"

// FormationType classifies a node in the formation tree.
type FormationType string

const (
	FormationTypeServiceHQ    FormationType = "Service Headquarters"
	FormationTypeZonalCommand FormationType = "Zonal Command"
	FormationTypeDirectorate  FormationType = "Directorate"
	FormationTypeStateCommand FormationType = "State Command"
	FormationTypeZonalHQ      FormationType = "Zonal Headquarters"
)

// Aggregating reports whether a scope of this type expands to its whole
// subtree for dashboard aggregation. All other types scope to the node alone.
func (t FormationType) Aggregating() bool {
	switch t {
	case FormationTypeServiceHQ, FormationTypeZonalCommand, FormationTypeDirectorate:
		return true
	}
	return false
}

// Formation is a node in the organization's strict tree. ParentID is nil only
// for top-level nodes; at most one Service Headquarters node exists and acts
// as the implicit root for auto-parenting.
type Formation struct {
	ID        int64
	Name      string
	Code      *string
	Type      FormationType
	ParentID  *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
