package models

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Portal is a branded, slug-addressed landing destination owned by an organization.
type Portal struct {
	ID             uuid.UUID       `json:"id"`
	OrgID          uuid.UUID       `json:"org_id"`
	Name           string          `json:"name"`
	Slug           string          `json:"slug"`
	DestinationURL string          `json:"destination_url"`
	Theme          json.RawMessage `json:"theme,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`

	// Populated by joins, most recent first
	Events []PortalEvent `json:"events,omitempty"`
}

// PortalInput holds the fields for creating a portal.
type PortalInput struct {
	Name           string          `json:"name"`
	Slug           string          `json:"slug"`
	DestinationURL string          `json:"destination_url"`
	Theme          json.RawMessage `json:"theme,omitempty"`
}

// OptionalJSON is a JSON patch field that tells an absent key from an
// explicit null. Set is true whenever the key was present; Value is nil for null.
type OptionalJSON struct {
	Set   bool
	Value json.RawMessage
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptionalJSON) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	o.Value = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (o OptionalJSON) MarshalJSON() ([]byte, error) {
	if len(o.Value) == 0 {
		return []byte("null"), nil
	}
	return o.Value, nil
}

// ClearTheme is the patch value that removes a portal's theme.
var ClearTheme = OptionalJSON{Set: true}

// SetTheme returns the patch value that replaces a portal's theme.
func SetTheme(theme json.RawMessage) OptionalJSON {
	return OptionalJSON{Set: true, Value: theme}
}

// PortalPatch is a partial update; nil fields are left untouched. A theme
// sent as null clears it.
type PortalPatch struct {
	Name           *string      `json:"name,omitempty"`
	Slug           *string      `json:"slug,omitempty"`
	DestinationURL *string      `json:"destination_url,omitempty"`
	Theme          OptionalJSON `json:"theme,omitzero"`
}

// IsEmpty returns true when the patch changes nothing.
func (p PortalPatch) IsEmpty() bool {
	return p.Name == nil && p.Slug == nil && p.DestinationURL == nil && !p.Theme.Set
}
