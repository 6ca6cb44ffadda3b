package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"cloudgather/internal/models"
)

// CreateOrganization creates a new organization.
func (d *DB) CreateOrganization(ctx context.Context, org *models.Organization) error {
	query := `
		INSERT INTO organizations (name)
		VALUES ($1)
		RETURNING id, created_at
	`
	return d.Pool.QueryRow(ctx, query, org.Name).Scan(&org.ID, &org.CreatedAt)
}

// GetOrganizationByID retrieves an organization by ID.
func (d *DB) GetOrganizationByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	return getOrganization(ctx, d.Pool, id)
}

func getOrganization(ctx context.Context, q querier, id uuid.UUID) (*models.Organization, error) {
	query := `SELECT id, name, created_at FROM organizations WHERE id = $1`

	var org models.Organization
	err := q.QueryRow(ctx, query, id).Scan(&org.ID, &org.Name, &org.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrgNotFound
	}
	if err != nil {
		return nil, err
	}

	return &org, nil
}

// GetFirstOrganizationForUser returns the organization of the user's earliest
// membership, with all of its memberships (each carrying the organization)
// and its portals. Returns ErrOrgNotFound if the user has no membership.
func (d *DB) GetFirstOrganizationForUser(ctx context.Context, userID uuid.UUID) (*models.Organization, error) {
	var org *models.Organization

	err := d.readOnly(ctx, func(q querier) error {
		var orgID uuid.UUID
		err := q.QueryRow(ctx, `
			SELECT org_id FROM memberships
			WHERE user_id = $1
			ORDER BY created_at ASC, id ASC
			LIMIT 1
		`, userID).Scan(&orgID)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrOrgNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to find membership: %w", err)
		}

		org, err = getOrganization(ctx, q, orgID)
		if err != nil {
			return err
		}

		members, err := listMembers(ctx, q, orgID)
		if err != nil {
			return err
		}
		for i := range members {
			members[i].Organization = &models.Organization{ID: org.ID, Name: org.Name, CreatedAt: org.CreatedAt}
		}
		org.Memberships = members

		portals, err := listPortals(ctx, q, orgID)
		if err != nil {
			return err
		}
		org.Portals = portals
		return nil
	})
	if err != nil {
		return nil, err
	}

	return org, nil
}

// DeleteOrganization deletes an organization; memberships, portals and
// portal events go with it through ON DELETE CASCADE.
func (d *DB) DeleteOrganization(ctx context.Context, id uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrOrgNotFound
	}
	return nil
}
