package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"cloudgather/internal/models"
)

// MaxPortalEvents caps the rows returned by GetPortalEvents.
const MaxPortalEvents = 50

const eventColumns = `id, portal_id, user_id, event_type::text, metadata, created_at`

func scanEvent(row pgx.Row) (*models.PortalEvent, error) {
	var e models.PortalEvent
	var metadata []byte
	if err := row.Scan(&e.ID, &e.PortalID, &e.UserID, &e.EventType, &metadata, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Metadata = rawJSON(metadata)
	return &e, nil
}

// CreatePortalEvent appends an event to a portal's log.
func (d *DB) CreatePortalEvent(ctx context.Context, portalID uuid.UUID, in models.EventInput) (*models.PortalEvent, error) {
	if !models.ValidEventType(in.EventType) {
		return nil, ErrInvalidEventType
	}

	query := `
		INSERT INTO portal_events (portal_id, user_id, event_type, metadata)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + eventColumns

	e, err := scanEvent(d.Pool.QueryRow(ctx, query, portalID, in.UserID, in.EventType, nullJSON(in.Metadata)))
	if err != nil {
		return nil, mapConstraintError(err, ErrInvalidEventType)
	}
	return e, nil
}

// GetPortalEvents returns up to MaxPortalEvents of the portal's events,
// newest first. Events created in the same instant are ordered by id.
func (d *DB) GetPortalEvents(ctx context.Context, portalID uuid.UUID) ([]models.PortalEvent, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT `+eventColumns+`
		FROM portal_events
		WHERE portal_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, portalID, MaxPortalEvents)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []models.PortalEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// GetLatestPortalEvent returns the newest event of a portal, or nil if the
// portal has none.
func (d *DB) GetLatestPortalEvent(ctx context.Context, portalID uuid.UUID) (*models.PortalEvent, error) {
	e, err := scanEvent(d.Pool.QueryRow(ctx, `
		SELECT `+eventColumns+`
		FROM portal_events
		WHERE portal_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, portalID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

// GetEventCounts returns event totals grouped by portal slug and event type.
func (d *DB) GetEventCounts(ctx context.Context) ([]models.EventCount, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT p.slug, e.event_type::text, COUNT(*)
		FROM portal_events e
		JOIN portals p ON p.id = e.portal_id
		GROUP BY p.slug, e.event_type
		ORDER BY p.slug, e.event_type
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}
	defer rows.Close()

	var counts []models.EventCount
	for rows.Next() {
		var c models.EventCount
		if err := rows.Scan(&c.Slug, &c.EventType, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan event count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// CountPortals returns the total number of portals.
func (d *DB) CountPortals(ctx context.Context) (int64, error) {
	var n int64
	err := d.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM portals`).Scan(&n)
	return n, err
}
