package models

import (
	"time"

	"github.com/google/uuid"
)

// Membership role constants, mirroring the membership_role enum.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Membership grants a user a role within an organization.
type Membership struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	OrgID     uuid.UUID `json:"org_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`

	// Populated by joins
	Organization *Organization `json:"organization,omitempty"`
}

// IsAdmin returns true if the membership has the admin role.
func (m *Membership) IsAdmin() bool {
	return m.Role == RoleAdmin
}

// ValidRole reports whether role is one of the membership_role values.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleMember
}
