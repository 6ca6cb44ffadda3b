package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"cloudgather/internal/config"
	"cloudgather/internal/models"
)

// SeedFromConfig creates the organizations, portals and memberships described
// in the seed file. Existing portals (by slug) and memberships are left alone,
// so seeding is repeatable. Member emails without an identity are skipped.
func (d *DB) SeedFromConfig(ctx context.Context, cfg *config.SeedConfig) error {
	if cfg == nil {
		return nil
	}

	return pgx.BeginFunc(ctx, d.Pool, func(tx pgx.Tx) error {
		for _, so := range cfg.Organizations {
			orgID, err := findOrCreateOrganization(ctx, tx, so.Name)
			if err != nil {
				return err
			}

			for _, sp := range so.Portals {
				var theme json.RawMessage
				if len(sp.Theme) > 0 {
					if theme, err = json.Marshal(sp.Theme); err != nil {
						return fmt.Errorf("portal %s: invalid theme: %w", sp.Slug, err)
					}
				}
				if _, err := tx.Exec(ctx, `
					INSERT INTO portals (org_id, name, slug, destination_url, theme)
					VALUES ($1, $2, $3, $4, $5)
					ON CONFLICT (slug) DO NOTHING
				`, orgID, sp.Name, sp.Slug, sp.DestinationURL, nullJSON(theme)); err != nil {
					return fmt.Errorf("failed to seed portal %s: %w", sp.Slug, err)
				}
			}

			grants := []struct {
				emails []string
				role   string
			}{
				{so.Admins, models.RoleAdmin},
				{so.Members, models.RoleMember},
			}
			for _, g := range grants {
				for _, email := range g.emails {
					if err := seedMembership(ctx, tx, orgID, email, g.role); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}

func findOrCreateOrganization(ctx context.Context, q querier, name string) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.QueryRow(ctx, `
		SELECT id FROM organizations WHERE name = $1 ORDER BY created_at ASC LIMIT 1
	`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("failed to find organization %q: %w", name, err)
	}

	if err := q.QueryRow(ctx, `INSERT INTO organizations (name) VALUES ($1) RETURNING id`, name).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create organization %q: %w", name, err)
	}
	return id, nil
}

func seedMembership(ctx context.Context, q querier, orgID uuid.UUID, email, role string) error {
	_, err := q.Exec(ctx, `
		INSERT INTO memberships (org_id, user_id, role)
		SELECT $1, i.id, $3
		FROM identities i
		WHERE LOWER(i.email) = LOWER($2)
		ON CONFLICT (user_id, org_id) DO NOTHING
	`, orgID, email, role)
	if err != nil {
		return fmt.Errorf("failed to seed membership for %s: %w", email, err)
	}
	return nil
}
