package domain

import "time"

// Role is the coarse authorization level of a user. Finer-grained policy is
// out of scope for this core.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsAdmin reports whether the role carries admin privileges. Superadmins are
// admins too.
func (r Role) IsAdmin() bool { return r == RoleAdmin || r == RoleSuperAdmin }

// IsSuperAdmin reports whether the role is exactly superadmin.
func (r Role) IsSuperAdmin() bool { return r == RoleSuperAdmin }

type User struct {
	ID           string
	Email        string // unique, stored lowercased
	Name         string
	Bio          string
	PasswordHash string // argon2 encoded, never serialized to clients
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
