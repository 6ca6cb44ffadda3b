package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"cloudgather/internal/models"
)

const membershipColumns = `m.id, m.user_id, m.org_id, m.role::text, m.created_at`

// GetUserMemberships retrieves all memberships for a user, each with its organization.
func (d *DB) GetUserMemberships(ctx context.Context, userID uuid.UUID) ([]models.Membership, error) {
	query := `
		SELECT ` + membershipColumns + `, o.id, o.name, o.created_at
		FROM memberships m
		JOIN organizations o ON o.id = m.org_id
		WHERE m.user_id = $1
		ORDER BY m.created_at ASC, m.id ASC
	`
	return queryMembershipsWithOrg(ctx, d.Pool, query, userID)
}

// GetOrganizationMembers retrieves all memberships of an organization, each with the organization.
func (d *DB) GetOrganizationMembers(ctx context.Context, orgID uuid.UUID) ([]models.Membership, error) {
	query := `
		SELECT ` + membershipColumns + `, o.id, o.name, o.created_at
		FROM memberships m
		JOIN organizations o ON o.id = m.org_id
		WHERE m.org_id = $1
		ORDER BY m.created_at ASC, m.id ASC
	`
	return queryMembershipsWithOrg(ctx, d.Pool, query, orgID)
}

// GetMembership retrieves a specific user's membership in an organization.
func (d *DB) GetMembership(ctx context.Context, userID, orgID uuid.UUID) (*models.Membership, error) {
	query := `
		SELECT ` + membershipColumns + `
		FROM memberships m
		WHERE m.user_id = $1 AND m.org_id = $2
	`
	var m models.Membership
	err := d.Pool.QueryRow(ctx, query, userID, orgID).Scan(&m.ID, &m.UserID, &m.OrgID, &m.Role, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return &m, nil
}

// AddOrganizationMember inserts a membership.
func (d *DB) AddOrganizationMember(ctx context.Context, orgID, userID uuid.UUID, role string) (*models.Membership, error) {
	query := `
		INSERT INTO memberships (org_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, org_id, role::text, created_at
	`
	var m models.Membership
	err := d.Pool.QueryRow(ctx, query, orgID, userID, role).Scan(&m.ID, &m.UserID, &m.OrgID, &m.Role, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add member: %w", mapConstraintError(err, ErrInvalidRole))
	}
	return &m, nil
}

// RemoveOrganizationMember deletes a user's membership in an organization.
func (d *DB) RemoveOrganizationMember(ctx context.Context, orgID, userID uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM memberships WHERE org_id = $1 AND user_id = $2`, orgID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrMembershipNotFound
	}
	return nil
}

// UpdateMemberRole changes a user's role in an organization.
func (d *DB) UpdateMemberRole(ctx context.Context, orgID, userID uuid.UUID, role string) (*models.Membership, error) {
	query := `
		UPDATE memberships
		SET role = $3
		WHERE org_id = $1 AND user_id = $2
		RETURNING id, user_id, org_id, role::text, created_at
	`
	var m models.Membership
	err := d.Pool.QueryRow(ctx, query, orgID, userID, role).Scan(&m.ID, &m.UserID, &m.OrgID, &m.Role, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to update member role: %w", mapConstraintError(err, ErrInvalidRole))
	}
	return &m, nil
}

// CountAdmins returns the number of admin memberships in an organization.
func (d *DB) CountAdmins(ctx context.Context, orgID uuid.UUID) (int, error) {
	var n int
	err := d.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM memberships WHERE org_id = $1 AND role = 'admin'
	`, orgID).Scan(&n)
	return n, err
}

// listMembers returns an organization's memberships without the joined organization.
func listMembers(ctx context.Context, q querier, orgID uuid.UUID) ([]models.Membership, error) {
	rows, err := q.Query(ctx, `
		SELECT `+membershipColumns+`
		FROM memberships m
		WHERE m.org_id = $1
		ORDER BY m.created_at ASC, m.id ASC
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []models.Membership
	for rows.Next() {
		var m models.Membership
		if err := rows.Scan(&m.ID, &m.UserID, &m.OrgID, &m.Role, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func queryMembershipsWithOrg(ctx context.Context, q querier, query string, arg uuid.UUID) ([]models.Membership, error) {
	rows, err := q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to get memberships: %w", err)
	}
	defer rows.Close()

	var memberships []models.Membership
	for rows.Next() {
		var m models.Membership
		var o models.Organization
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.OrgID, &m.Role, &m.CreatedAt,
			&o.ID, &o.Name, &o.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		m.Organization = &o
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}
