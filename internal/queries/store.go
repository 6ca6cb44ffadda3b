package queries

import (
	"context"

	"github.com/google/uuid"

	"cloudgather/internal/models"
)

//go:generate mockgen -source=store.go -destination=../mocks/store_mocks.go -package=mocks

// Store is the data access the query layer needs. *db.DB implements it.
type Store interface {
	GetMembership(ctx context.Context, userID, orgID uuid.UUID) (*models.Membership, error)
	GetUserMemberships(ctx context.Context, userID uuid.UUID) ([]models.Membership, error)
	GetFirstOrganizationForUser(ctx context.Context, userID uuid.UUID) (*models.Organization, error)
	DeleteOrganization(ctx context.Context, id uuid.UUID) error

	GetOrganizationMembers(ctx context.Context, orgID uuid.UUID) ([]models.Membership, error)
	AddOrganizationMember(ctx context.Context, orgID, userID uuid.UUID, role string) (*models.Membership, error)
	RemoveOrganizationMember(ctx context.Context, orgID, userID uuid.UUID) error
	UpdateMemberRole(ctx context.Context, orgID, userID uuid.UUID, role string) (*models.Membership, error)
	CountAdmins(ctx context.Context, orgID uuid.UUID) (int, error)

	CreatePortal(ctx context.Context, orgID uuid.UUID, in models.PortalInput) (*models.Portal, error)
	GetPortalByID(ctx context.Context, id uuid.UUID) (*models.Portal, error)
	GetPortalBySlug(ctx context.Context, slug string) (*models.Portal, error)
	GetOrganizationPortals(ctx context.Context, orgID uuid.UUID) ([]models.Portal, error)
	UpdatePortal(ctx context.Context, id uuid.UUID, patch models.PortalPatch) (*models.Portal, error)
	DeletePortal(ctx context.Context, id uuid.UUID) error

	CreatePortalEvent(ctx context.Context, portalID uuid.UUID, in models.EventInput) (*models.PortalEvent, error)
	GetPortalEvents(ctx context.Context, portalID uuid.UUID) ([]models.PortalEvent, error)
	GetLatestPortalEvent(ctx context.Context, portalID uuid.UUID) (*models.PortalEvent, error)
}
