package db

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"cloudgather/internal/models"
	"cloudgather/internal/testutil"
)

func setupTestDB(t *testing.T) (*DB, func()) {
	t.Helper()

	connString := testutil.DatabaseURL(t)

	ctx := context.Background()
	database, err := New(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	cleanup := func() {
		testutil.CleanupTestData(ctx, database.Pool)
		database.Close()
	}

	// Clean before test
	testutil.CleanupTestData(ctx, database.Pool)

	return database, cleanup
}

func createTestOrg(t *testing.T, db *DB, name string) *models.Organization {
	t.Helper()
	org := &models.Organization{Name: name}
	if err := db.CreateOrganization(context.Background(), org); err != nil {
		t.Fatalf("CreateOrganization() error = %v", err)
	}
	return org
}

func createTestPortal(t *testing.T, db *DB, orgID uuid.UUID, name, slug string) *models.Portal {
	t.Helper()
	p, err := db.CreatePortal(context.Background(), orgID, models.PortalInput{
		Name:           name,
		Slug:           slug,
		DestinationURL: "https://example.com/" + slug,
	})
	if err != nil {
		t.Fatalf("CreatePortal() error = %v", err)
	}
	return p
}

func countRows(t *testing.T, db *DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := db.Pool.QueryRow(context.Background(), query, args...).Scan(&n); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	return n
}
