package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"cloudgather/internal/models"
)

const identityColumns = `id, email, COALESCE(password_hash, ''), created_at, updated_at`

func scanIdentity(row pgx.Row) (*models.Identity, error) {
	var i models.Identity
	err := row.Scan(&i.ID, &i.Email, &i.PasswordHash, &i.CreatedAt, &i.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrIdentityNotFound
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// CreateIdentity inserts an identity. The provisioning trigger creates the
// identity's default organization and admin membership in the same statement.
// An empty passwordHash stores NULL (SSO-only identity).
func (d *DB) CreateIdentity(ctx context.Context, email, passwordHash string) (*models.Identity, error) {
	var hash any
	if passwordHash != "" {
		hash = passwordHash
	}

	i, err := scanIdentity(d.Pool.QueryRow(ctx, `
		INSERT INTO identities (email, password_hash)
		VALUES ($1, $2)
		RETURNING `+identityColumns, email, hash))
	if err != nil {
		return nil, mapConstraintError(err, nil)
	}
	return i, nil
}

// GetIdentityByEmail looks up an identity by email, ignoring case.
func (d *DB) GetIdentityByEmail(ctx context.Context, email string) (*models.Identity, error) {
	return scanIdentity(d.Pool.QueryRow(ctx, `
		SELECT `+identityColumns+` FROM identities WHERE LOWER(email) = LOWER($1)
	`, email))
}

// GetIdentityByID retrieves an identity by ID.
func (d *DB) GetIdentityByID(ctx context.Context, id uuid.UUID) (*models.Identity, error) {
	return scanIdentity(d.Pool.QueryRow(ctx, `
		SELECT `+identityColumns+` FROM identities WHERE id = $1
	`, id))
}

// UpdateIdentityPassword replaces an identity's password hash.
func (d *DB) UpdateIdentityPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	result, err := d.Pool.Exec(ctx, `
		UPDATE identities SET password_hash = $2, updated_at = NOW() WHERE id = $1
	`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrIdentityNotFound
	}
	return nil
}

// CreateSession stores a session by the hash of its access token.
func (d *DB) CreateSession(ctx context.Context, identityID uuid.UUID, tokenHash string, expiresAt time.Time) (*models.StoredSession, error) {
	var s models.StoredSession
	err := d.Pool.QueryRow(ctx, `
		INSERT INTO auth_sessions (identity_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, identity_id, token_hash, expires_at, created_at
	`, identityID, tokenHash, expiresAt).Scan(&s.ID, &s.IdentityID, &s.TokenHash, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		return nil, mapConstraintError(err, nil)
	}
	return &s, nil
}

// GetSessionByTokenHash retrieves a session by token hash. Expiry is left to the caller.
func (d *DB) GetSessionByTokenHash(ctx context.Context, tokenHash string) (*models.StoredSession, error) {
	var s models.StoredSession
	err := d.Pool.QueryRow(ctx, `
		SELECT id, identity_id, token_hash, expires_at, created_at
		FROM auth_sessions
		WHERE token_hash = $1
	`, tokenHash).Scan(&s.ID, &s.IdentityID, &s.TokenHash, &s.ExpiresAt, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

// DeleteSession removes the session with the given token hash. Deleting a
// session that does not exist is not an error.
func (d *DB) DeleteSession(ctx context.Context, tokenHash string) error {
	if _, err := d.Pool.Exec(ctx, `DELETE FROM auth_sessions WHERE token_hash = $1`, tokenHash); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteSessionsForIdentity signs an identity out everywhere.
func (d *DB) DeleteSessionsForIdentity(ctx context.Context, identityID uuid.UUID) error {
	if _, err := d.Pool.Exec(ctx, `DELETE FROM auth_sessions WHERE identity_id = $1`, identityID); err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes sessions past their expiry and returns how many were removed.
func (d *DB) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	result, err := d.Pool.Exec(ctx, `DELETE FROM auth_sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return result.RowsAffected(), nil
}
