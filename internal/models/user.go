package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an authenticated identity as reported by the identity provider.
// Query-layer operations take the calling User explicitly.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Identity is a locally stored credential record.
type Identity struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string // empty for identities created through SSO
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// User returns the public view of the identity.
func (i *Identity) User() *User {
	return &User{ID: i.ID, Email: i.Email, CreatedAt: i.CreatedAt}
}

// AuthSession is an issued sign-in session.
type AuthSession struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        *User     `json:"user"`
}

// StoredSession is the persisted form of a local session; only the token hash is kept.
type StoredSession struct {
	ID         uuid.UUID
	IdentityID uuid.UUID
	TokenHash  string
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// Expired reports whether the session is past its expiry at now.
func (s *StoredSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
