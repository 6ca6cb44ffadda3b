// Package policy decides whether a caller may act on an organization.
package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"cloudgather/internal/db"
	"cloudgather/internal/models"
)

var (
	// ErrUnauthenticated is returned when there is no caller.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden is returned when the caller lacks a membership or role.
	ErrForbidden = errors.New("forbidden")
)

// MembershipStore looks up a user's membership in an organization.
type MembershipStore interface {
	GetMembership(ctx context.Context, userID, orgID uuid.UUID) (*models.Membership, error)
}

// Gate checks organization-scoped permissions before the store is touched.
type Gate struct {
	store MembershipStore
}

// NewGate creates a gate over the given store.
func NewGate(store MembershipStore) *Gate {
	return &Gate{store: store}
}

// RequireMember returns the caller's membership in orgID, or ErrForbidden.
func (g *Gate) RequireMember(ctx context.Context, caller *models.User, orgID uuid.UUID) (*models.Membership, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}

	m, err := g.store.GetMembership(ctx, caller.ID, orgID)
	if err != nil {
		if errors.Is(err, db.ErrMembershipNotFound) {
			return nil, ErrForbidden
		}
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	return m, nil
}

// RequireAdmin is RequireMember restricted to the admin role.
func (g *Gate) RequireAdmin(ctx context.Context, caller *models.User, orgID uuid.UUID) (*models.Membership, error) {
	m, err := g.RequireMember(ctx, caller, orgID)
	if err != nil {
		return nil, err
	}
	if !m.IsAdmin() {
		return nil, ErrForbidden
	}
	return m, nil
}
