package user

import "time"

type Role string

const (
	RoleSuperAdmin  Role = "SUPER_ADMIN"  // Platform operator, not bound to a client
	RoleClientAdmin Role = "CLIENT_ADMIN" // Manages one client
	RoleManager     Role = "MANAGER"      // Views reports and approves leave
	RoleEmployee    Role = "EMPLOYEE"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleClientAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

type User struct {
	ID           string
	ClientID     *string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Join
	EmployeeID *string
}

// IsSuperAdmin checks if user operates the whole platform
func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// IsAdmin checks if user can administer a client
func (u *User) IsAdmin() bool {
	return u.Role == RoleSuperAdmin || u.Role == RoleClientAdmin
}
