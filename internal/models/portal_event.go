package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event type constants, mirroring the event_type enum.
const (
	EventScan  = "scan"
	EventClick = "click"
	EventVisit = "visit"
)

// PortalEvent is an append-only engagement record for a portal.
type PortalEvent struct {
	ID        uuid.UUID       `json:"id"`
	PortalID  uuid.UUID       `json:"portal_id"`
	UserID    *uuid.UUID      `json:"user_id,omitempty"` // nil for anonymous visitors
	EventType string          `json:"event_type"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// EventInput holds the fields for recording an event.
type EventInput struct {
	UserID    *uuid.UUID      `json:"user_id,omitempty"`
	EventType string          `json:"event_type"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}

// EventCount is a per-portal, per-type event total.
type EventCount struct {
	Slug      string
	EventType string
	Count     int64
}

// ValidEventType reports whether t is one of the event_type values.
func ValidEventType(t string) bool {
	switch t {
	case EventScan, EventClick, EventVisit:
		return true
	}
	return false
}
