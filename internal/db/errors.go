package db

import (
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Domain-level database error sentinels.
var (
	// Organization errors
	ErrOrgNotFound = errors.New("organization not found")

	// Membership errors
	ErrMembershipNotFound = errors.New("membership not found")
	ErrMembershipExists   = errors.New("user is already a member of this organization")
	ErrInvalidRole        = errors.New("invalid membership role")

	// Portal errors
	ErrPortalNotFound = errors.New("portal not found")
	ErrDuplicateSlug  = errors.New("slug already exists")

	// Event errors
	ErrInvalidEventType = errors.New("invalid event type")

	// Identity errors
	ErrIdentityNotFound = errors.New("identity not found")
	ErrEmailTaken       = errors.New("email already registered")
	ErrSessionNotFound  = errors.New("session not found")
)

// Postgres error codes used for constraint mapping.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInvalidTextRepr     = "22P02"
)

// constraintErrors maps known constraint names to domain sentinels.
var constraintErrors = map[string]error{
	"portals_slug_key":               ErrDuplicateSlug,
	"memberships_user_org_key":       ErrMembershipExists,
	"identities_email_key":           ErrEmailTaken,
	"portals_org_id_fkey":            ErrOrgNotFound,
	"memberships_org_id_fkey":        ErrOrgNotFound,
	"portal_events_portal_id_fkey":   ErrPortalNotFound,
	"auth_sessions_identity_id_fkey": ErrIdentityNotFound,
}

// mapConstraintError translates unique and foreign-key violations on known
// constraints into sentinels. invalidInput is returned for invalid enum text
// (22P02) when non-nil. Unrecognized errors are returned unchanged.
func mapConstraintError(err error, invalidInput error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation, pgForeignKeyViolation:
		if mapped, ok := constraintErrors[pgErr.ConstraintName]; ok {
			return mapped
		}
	case pgInvalidTextRepr:
		if invalidInput != nil {
			return invalidInput
		}
	}
	return err
}

// nullJSON converts a raw JSON payload into a jsonb parameter, using SQL NULL
// for an empty payload or a JSON null.
func nullJSON(raw json.RawMessage) any {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return string(raw)
}

// rawJSON converts a scanned jsonb column into a RawMessage, nil for NULL.
func rawJSON(b []byte) json.RawMessage {
	if len(b) == 0 {
		return nil
	}
	return json.RawMessage(b)
}
