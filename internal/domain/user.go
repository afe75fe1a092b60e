package domain

import "time"

// Role names a capability granted to a user.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleFranchisee Role = "franchisee"
	RoleDiner      Role = "diner"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleFranchisee, RoleDiner:
		return true
	}
	return false
}

// RoleAssignment binds a role to a user. Franchisee assignments carry the
// franchise id in ObjectID.
type RoleAssignment struct {
	Role     Role   `json:"role"`
	ObjectID *int64 `json:"objectId,omitempty"`
}

// User is the persisted account record.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Roles        []RoleAssignment
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole reports whether any assignment grants role.
func (u *User) HasRole(role Role) bool {
	if u == nil {
		return false
	}
	for _, assignment := range u.Roles {
		if assignment.Role == role {
			return true
		}
	}
	return false
}
