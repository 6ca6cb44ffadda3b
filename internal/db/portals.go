package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"cloudgather/internal/models"
)

// RecentEventsPerPortal bounds the events nested under each portal in listings.
const RecentEventsPerPortal = 10

// portalColumns is the standard column list for portal queries.
const portalColumns = `id, org_id, name, slug, destination_url, theme, created_at`

// scanPortal scans a row into a Portal struct.
func scanPortal(row pgx.Row) (*models.Portal, error) {
	var p models.Portal
	var theme []byte
	err := row.Scan(&p.ID, &p.OrgID, &p.Name, &p.Slug, &p.DestinationURL, &theme, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPortalNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Theme = rawJSON(theme)
	return &p, nil
}

// CreatePortal inserts a portal for an organization. A slug already used by
// any organization yields ErrDuplicateSlug.
func (d *DB) CreatePortal(ctx context.Context, orgID uuid.UUID, in models.PortalInput) (*models.Portal, error) {
	query := `
		INSERT INTO portals (org_id, name, slug, destination_url, theme)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + portalColumns

	p, err := scanPortal(d.Pool.QueryRow(ctx, query, orgID, in.Name, in.Slug, in.DestinationURL, nullJSON(in.Theme)))
	if err != nil {
		return nil, mapConstraintError(err, nil)
	}
	return p, nil
}

// GetPortalByID retrieves a portal by ID.
func (d *DB) GetPortalByID(ctx context.Context, id uuid.UUID) (*models.Portal, error) {
	return scanPortal(d.Pool.QueryRow(ctx, `SELECT `+portalColumns+` FROM portals WHERE id = $1`, id))
}

// GetPortalBySlug retrieves a portal by its globally unique slug.
func (d *DB) GetPortalBySlug(ctx context.Context, slug string) (*models.Portal, error) {
	return scanPortal(d.Pool.QueryRow(ctx, `SELECT `+portalColumns+` FROM portals WHERE slug = $1`, slug))
}

// GetOrganizationPortals returns every portal of an organization, each with
// up to RecentEventsPerPortal of its most recent events.
func (d *DB) GetOrganizationPortals(ctx context.Context, orgID uuid.UUID) ([]models.Portal, error) {
	query := `
		SELECT p.id, p.org_id, p.name, p.slug, p.destination_url, p.theme, p.created_at,
			e.id, e.portal_id, e.user_id, e.event_type::text, e.metadata, e.created_at
		FROM portals p
		LEFT JOIN LATERAL (
			SELECT pe.id, pe.portal_id, pe.user_id, pe.event_type, pe.metadata, pe.created_at
			FROM portal_events pe
			WHERE pe.portal_id = p.id
			ORDER BY pe.created_at DESC, pe.id DESC
			LIMIT $2
		) e ON true
		WHERE p.org_id = $1
		ORDER BY p.created_at ASC, p.id ASC, e.created_at DESC, e.id DESC
	`
	rows, err := d.Pool.Query(ctx, query, orgID, RecentEventsPerPortal)
	if err != nil {
		return nil, fmt.Errorf("failed to list portals: %w", err)
	}
	defer rows.Close()

	var portals []models.Portal
	for rows.Next() {
		var p models.Portal
		var theme []byte
		var (
			eventID        *uuid.UUID
			eventPortalID  *uuid.UUID
			eventUserID    *uuid.UUID
			eventType      *string
			eventMetadata  []byte
			eventCreatedAt *time.Time
		)
		if err := rows.Scan(
			&p.ID, &p.OrgID, &p.Name, &p.Slug, &p.DestinationURL, &theme, &p.CreatedAt,
			&eventID, &eventPortalID, &eventUserID, &eventType, &eventMetadata, &eventCreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan portal: %w", err)
		}

		if n := len(portals); n == 0 || portals[n-1].ID != p.ID {
			p.Theme = rawJSON(theme)
			portals = append(portals, p)
		}
		if eventID != nil {
			last := &portals[len(portals)-1]
			last.Events = append(last.Events, models.PortalEvent{
				ID:        *eventID,
				PortalID:  *eventPortalID,
				UserID:    eventUserID,
				EventType: *eventType,
				Metadata:  rawJSON(eventMetadata),
				CreatedAt: *eventCreatedAt,
			})
		}
	}
	return portals, rows.Err()
}

// UpdatePortal applies a partial update; only non-nil patch fields change.
func (d *DB) UpdatePortal(ctx context.Context, id uuid.UUID, patch models.PortalPatch) (*models.Portal, error) {
	if patch.IsEmpty() {
		return d.GetPortalByID(ctx, id)
	}

	args := []any{id}
	var sets []string
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Slug != nil {
		set("slug", *patch.Slug)
	}
	if patch.DestinationURL != nil {
		set("destination_url", *patch.DestinationURL)
	}
	if patch.Theme.Set {
		set("theme", nullJSON(patch.Theme.Value))
	}

	query := `UPDATE portals SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + portalColumns
	p, err := scanPortal(d.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapConstraintError(err, nil)
	}
	return p, nil
}

// DeletePortal hard-deletes a portal; its events cascade.
func (d *DB) DeletePortal(ctx context.Context, id uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM portals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete portal: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrPortalNotFound
	}
	return nil
}

// listPortals returns an organization's portals without events.
func listPortals(ctx context.Context, q querier, orgID uuid.UUID) ([]models.Portal, error) {
	rows, err := q.Query(ctx, `
		SELECT `+portalColumns+`
		FROM portals
		WHERE org_id = $1
		ORDER BY created_at ASC, id ASC
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list portals: %w", err)
	}
	defer rows.Close()

	var portals []models.Portal
	for rows.Next() {
		p, err := scanPortal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portal: %w", err)
		}
		portals = append(portals, *p)
	}
	return portals, rows.Err()
}
