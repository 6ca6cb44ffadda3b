package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization is the tenant that owns memberships and portals.
type Organization struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`

	// Populated by joins
	Memberships []Membership `json:"memberships,omitempty"`
	Portals     []Portal     `json:"portals,omitempty"`
}
