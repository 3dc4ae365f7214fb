package domain

import "time"

// AdminRole enumerates administrative account roles.
type AdminRole string

const (
	AdminRoleSpecial   AdminRole = "special_admin"
	AdminRoleFormation AdminRole = "formation_admin"
)

// ValidAdminRole reports whether the role is assignable to an admin account.
func ValidAdminRole(role AdminRole) bool {
	return role == AdminRoleSpecial || role == AdminRoleFormation
}

// AdminAccount is an administrative login, distinct from the staff roster.
// Formation admins carry the formation they administer as their scope.
type AdminAccount struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         AdminRole
	FormationID  *int64
	CreatedAt    time.Time
}
