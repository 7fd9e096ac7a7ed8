package models

// Role is the closed set of user roles. The hierarchy is a strict total
// order: lower rank = more privilege.
type Role string

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleAdmin        Role = "admin"
	RoleAdvancedUser Role = "advanced_user"
	RoleRegularUser  Role = "regular_user"
)

// Rank returns the numeric privilege rank of a role. Unknown roles rank
// below every real role so they can never manage anything.
func (r Role) Rank() int {
	switch r {
	case RoleSuperAdmin:
		return 0
	case RoleAdmin:
		return 1
	case RoleAdvancedUser:
		return 2
	case RoleRegularUser:
		return 3
	default:
		return 99
	}
}

func (r Role) Valid() bool { return r.Rank() != 99 }

// CanManage reports whether actor may administer target. Management is only
// permitted strictly downward; equal or higher rank is always refused.
func CanManage(actor, target Role) bool {
	return actor.Rank() < target.Rank()
}

// CanManageItems reports whether the role may create/update/delete items.
func (r Role) CanManageItems() bool {
	return r == RoleSuperAdmin || r == RoleAdmin || r == RoleAdvancedUser
}

// IsAdmin reports whether the role is in the admin tier (user/department
// management, registration review).
func (r Role) IsAdmin() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}
