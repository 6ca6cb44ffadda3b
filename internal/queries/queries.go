// Package queries mediates every read and write of tenant data. Each
// operation takes the calling user explicitly and checks it against the
// policy gate before reaching the store.
package queries

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"cloudgather/internal/db"
	"cloudgather/internal/models"
	"cloudgather/internal/policy"
	"cloudgather/internal/validation"
)

// ErrLastAdmin is returned when a change would leave an organization without an admin.
var ErrLastAdmin = errors.New("organization must keep at least one admin")

// Service is the query layer.
type Service struct {
	store Store
	gate  *policy.Gate
}

// New creates a query service over store.
func New(store Store) *Service {
	return &Service{store: store, gate: policy.NewGate(store)}
}

// GetUserOrganization returns the caller's first organization with its
// memberships and portals, or nil when there is no caller or no membership.
// Callers in several organizations only see the earliest one.
func (s *Service) GetUserOrganization(ctx context.Context, caller *models.User) (*models.Organization, error) {
	if caller == nil {
		return nil, nil
	}
	org, err := s.store.GetFirstOrganizationForUser(ctx, caller.ID)
	if errors.Is(err, db.ErrOrgNotFound) {
		return nil, nil
	}
	return org, err
}

// GetUserMemberships returns every membership of the caller with its organization.
func (s *Service) GetUserMemberships(ctx context.Context, caller *models.User) ([]models.Membership, error) {
	if caller == nil {
		return nil, nil
	}
	return s.store.GetUserMemberships(ctx, caller.ID)
}

// GetOrganizationPortals returns the portals of orgID, each with its most
// recent events. The caller must be a member.
func (s *Service) GetOrganizationPortals(ctx context.Context, caller *models.User, orgID uuid.UUID) ([]models.Portal, error) {
	if caller == nil {
		return nil, nil
	}
	if _, err := s.gate.RequireMember(ctx, caller, orgID); err != nil {
		return nil, err
	}

	portals, err := s.store.GetOrganizationPortals(ctx, orgID)
	if err != nil {
		return nil, err
	}

	// The store filters by org; drop anything that slipped through anyway.
	scoped := portals[:0]
	for _, p := range portals {
		if p.OrgID == orgID {
			scoped = append(scoped, p)
		}
	}
	return scoped, nil
}

// GetPortal returns a portal the caller can see.
func (s *Service) GetPortal(ctx context.Context, caller *models.User, portalID uuid.UUID) (*models.Portal, error) {
	portal, err := s.store.GetPortalByID(ctx, portalID)
	if err != nil {
		return nil, err
	}
	if _, err := s.gate.RequireMember(ctx, caller, portal.OrgID); err != nil {
		return nil, err
	}
	return portal, nil
}

// GetPortalBySlug resolves a public slug. No caller is needed.
func (s *Service) GetPortalBySlug(ctx context.Context, slug string) (*models.Portal, error) {
	slug = validation.NormalizeSlug(slug)
	if !validation.ValidateSlug(slug) {
		return nil, db.ErrPortalNotFound
	}
	return s.store.GetPortalBySlug(ctx, slug)
}

// GetPortalEvents returns the newest events of a portal, newest first.
func (s *Service) GetPortalEvents(ctx context.Context, caller *models.User, portalID uuid.UUID) ([]models.PortalEvent, error) {
	if caller == nil {
		return nil, nil
	}
	if _, err := s.GetPortal(ctx, caller, portalID); err != nil {
		return nil, err
	}
	return s.store.GetPortalEvents(ctx, portalID)
}

// GetLatestPortalEvent returns the newest event of a portal, or nil.
func (s *Service) GetLatestPortalEvent(ctx context.Context, caller *models.User, portalID uuid.UUID) (*models.PortalEvent, error) {
	if _, err := s.GetPortal(ctx, caller, portalID); err != nil {
		return nil, err
	}
	return s.store.GetLatestPortalEvent(ctx, portalID)
}

// CreatePortal creates a portal in orgID. A slug already taken by any
// organization yields db.ErrDuplicateSlug.
func (s *Service) CreatePortal(ctx context.Context, caller *models.User, orgID uuid.UUID, in models.PortalInput) (*models.Portal, error) {
	if _, err := s.gate.RequireMember(ctx, caller, orgID); err != nil {
		return nil, err
	}
	if err := validation.PortalInput(&in); err != nil {
		return nil, err
	}
	return s.store.CreatePortal(ctx, orgID, in)
}

// UpdatePortal applies a partial update to a portal.
func (s *Service) UpdatePortal(ctx context.Context, caller *models.User, portalID uuid.UUID, patch models.PortalPatch) (*models.Portal, error) {
	if _, err := s.GetPortal(ctx, caller, portalID); err != nil {
		return nil, err
	}
	if err := validation.PortalPatch(&patch); err != nil {
		return nil, err
	}
	return s.store.UpdatePortal(ctx, portalID, patch)
}

// DeletePortal deletes a portal and its events. Admins only.
func (s *Service) DeletePortal(ctx context.Context, caller *models.User, portalID uuid.UUID) error {
	portal, err := s.store.GetPortalByID(ctx, portalID)
	if err != nil {
		return err
	}
	if _, err := s.gate.RequireAdmin(ctx, caller, portal.OrgID); err != nil {
		return err
	}
	return s.store.DeletePortal(ctx, portalID)
}

// CreatePortalEvent records an event. Anonymous visitors are allowed; a
// non-nil caller is recorded as the event's user.
func (s *Service) CreatePortalEvent(ctx context.Context, caller *models.User, portalID uuid.UUID, in models.EventInput) (*models.PortalEvent, error) {
	if !models.ValidEventType(in.EventType) {
		return nil, db.ErrInvalidEventType
	}
	in.UserID = nil
	if caller != nil {
		id := caller.ID
		in.UserID = &id
	}
	return s.store.CreatePortalEvent(ctx, portalID, in)
}

// GetOrganizationMembers lists an organization's memberships. Members only.
func (s *Service) GetOrganizationMembers(ctx context.Context, caller *models.User, orgID uuid.UUID) ([]models.Membership, error) {
	if _, err := s.gate.RequireMember(ctx, caller, orgID); err != nil {
		return nil, err
	}
	return s.store.GetOrganizationMembers(ctx, orgID)
}

// AddOrganizationMember adds userID to orgID. An empty role means member.
// Admins only.
func (s *Service) AddOrganizationMember(ctx context.Context, caller *models.User, orgID, userID uuid.UUID, role string) (*models.Membership, error) {
	if role == "" {
		role = models.RoleMember
	}
	if !models.ValidRole(role) {
		return nil, db.ErrInvalidRole
	}
	if _, err := s.gate.RequireAdmin(ctx, caller, orgID); err != nil {
		return nil, err
	}
	return s.store.AddOrganizationMember(ctx, orgID, userID, role)
}

// RemoveOrganizationMember removes userID from orgID. Admins only; the last
// admin cannot be removed.
func (s *Service) RemoveOrganizationMember(ctx context.Context, caller *models.User, orgID, userID uuid.UUID) error {
	if _, err := s.gate.RequireAdmin(ctx, caller, orgID); err != nil {
		return err
	}
	if err := s.guardLastAdmin(ctx, orgID, userID); err != nil {
		return err
	}
	return s.store.RemoveOrganizationMember(ctx, orgID, userID)
}

// UpdateMemberRole changes userID's role in orgID. Admins only; the last
// admin cannot be demoted.
func (s *Service) UpdateMemberRole(ctx context.Context, caller *models.User, orgID, userID uuid.UUID, role string) (*models.Membership, error) {
	if !models.ValidRole(role) {
		return nil, db.ErrInvalidRole
	}
	if _, err := s.gate.RequireAdmin(ctx, caller, orgID); err != nil {
		return nil, err
	}
	if role != models.RoleAdmin {
		if err := s.guardLastAdmin(ctx, orgID, userID); err != nil {
			return nil, err
		}
	}
	return s.store.UpdateMemberRole(ctx, orgID, userID, role)
}

// DeleteOrganization deletes an organization and everything it owns. Admins only.
func (s *Service) DeleteOrganization(ctx context.Context, caller *models.User, orgID uuid.UUID) error {
	if _, err := s.gate.RequireAdmin(ctx, caller, orgID); err != nil {
		return err
	}
	return s.store.DeleteOrganization(ctx, orgID)
}

func (s *Service) guardLastAdmin(ctx context.Context, orgID, userID uuid.UUID) error {
	target, err := s.store.GetMembership(ctx, userID, orgID)
	if err != nil {
		return err
	}
	if !target.IsAdmin() {
		return nil
	}
	n, err := s.store.CountAdmins(ctx, orgID)
	if err != nil {
		return err
	}
	if n <= 1 {
		return ErrLastAdmin
	}
	return nil
}
