package db

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cloudgather/internal/models"
)

func TestCreatePortal(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	org := createTestOrg(t, db, "Portal Org")

	p, err := db.CreatePortal(ctx, org.ID, models.PortalInput{
		Name:           "Launch",
		Slug:           "launch",
		DestinationURL: "https://example.com",
		Theme:          json.RawMessage(`{"primary":"#0a0a0a"}`),
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, org.ID, p.OrgID)
	assert.JSONEq(t, `{"primary":"#0a0a0a"}`, string(p.Theme))

	found, err := db.GetPortalBySlug(ctx, "launch")
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)
}

func TestCreatePortal_DuplicateSlug(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	first := createTestOrg(t, db, "First")
	second := createTestOrg(t, db, "Second")

	original := createTestPortal(t, db, first.ID, "Original", "taken")

	_, err := db.CreatePortal(ctx, second.ID, models.PortalInput{
		Name:           "Copycat",
		Slug:           "taken",
		DestinationURL: "https://copycat.example",
	})
	assert.ErrorIs(t, err, ErrDuplicateSlug)

	still, err := db.GetPortalByID(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", still.Name)
	assert.Equal(t, original.DestinationURL, still.DestinationURL)
}

func TestCreatePortal_UnknownOrg(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := db.CreatePortal(context.Background(), uuid.New(), models.PortalInput{
		Name: "Nowhere", Slug: "nowhere", DestinationURL: "https://example.com",
	})
	assert.ErrorIs(t, err, ErrOrgNotFound)
}

func TestGetOrganizationPortals_ScopedToOrg(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	mine := createTestOrg(t, db, "Mine")
	theirs := createTestOrg(t, db, "Theirs")
	createTestPortal(t, db, mine.ID, "A", "mine-a")
	createTestPortal(t, db, mine.ID, "B", "mine-b")
	createTestPortal(t, db, theirs.ID, "C", "theirs-c")

	portals, err := db.GetOrganizationPortals(ctx, mine.ID)
	require.NoError(t, err)
	require.Len(t, portals, 2)
	for _, p := range portals {
		assert.Equal(t, mine.ID, p.OrgID)
	}

	empty, err := db.GetOrganizationPortals(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGetOrganizationPortals_RecentEventsCapped(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	org := createTestOrg(t, db, "Busy")
	busy := createTestPortal(t, db, org.ID, "Busy", "busy")
	createTestPortal(t, db, org.ID, "Quiet", "quiet")

	for i := 0; i < RecentEventsPerPortal+5; i++ {
		_, err := db.CreatePortalEvent(ctx, busy.ID, models.EventInput{EventType: models.EventVisit})
		require.NoError(t, err)
	}

	portals, err := db.GetOrganizationPortals(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, portals, 2)

	bySlug := map[string]models.Portal{}
	for _, p := range portals {
		bySlug[p.Slug] = p
	}
	assert.Len(t, bySlug["busy"].Events, RecentEventsPerPortal)
	assert.Empty(t, bySlug["quiet"].Events)

	events := bySlug["busy"].Events
	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].CreatedAt.After(events[i-1].CreatedAt), "events must be newest first")
	}
}

func TestUpdatePortal(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	org := createTestOrg(t, db, "Update Org")
	p := createTestPortal(t, db, org.ID, "Before", "before")
	createTestPortal(t, db, org.ID, "Other", "other")

	name := "After"
	updated, err := db.UpdatePortal(ctx, p.ID, models.PortalPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "After", updated.Name)
	assert.Equal(t, "before", updated.Slug, "untouched fields keep their values")
	assert.Equal(t, p.DestinationURL, updated.DestinationURL)

	unchanged, err := db.UpdatePortal(ctx, p.ID, models.PortalPatch{})
	require.NoError(t, err)
	assert.Equal(t, "After", unchanged.Name)

	clash := "other"
	_, err = db.UpdatePortal(ctx, p.ID, models.PortalPatch{Slug: &clash})
	assert.ErrorIs(t, err, ErrDuplicateSlug)

	_, err = db.UpdatePortal(ctx, uuid.New(), models.PortalPatch{Name: &name})
	assert.ErrorIs(t, err, ErrPortalNotFound)
}

func TestUpdatePortal_Theme(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	org := createTestOrg(t, db, "Theme Org")
	p := createTestPortal(t, db, org.ID, "Themed", "themed")

	themed, err := db.UpdatePortal(ctx, p.ID, models.PortalPatch{Theme: models.SetTheme(json.RawMessage(`{"primary":"#123456"}`))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"primary":"#123456"}`, string(themed.Theme))

	name := "Renamed"
	kept, err := db.UpdatePortal(ctx, p.ID, models.PortalPatch{Name: &name})
	require.NoError(t, err)
	assert.JSONEq(t, `{"primary":"#123456"}`, string(kept.Theme), "absent theme is left untouched")

	var patch models.PortalPatch
	require.NoError(t, json.Unmarshal([]byte(`{"theme":null}`), &patch))
	cleared, err := db.UpdatePortal(ctx, p.ID, patch)
	require.NoError(t, err)
	assert.Nil(t, cleared.Theme)
	assert.Equal(t, "Renamed", cleared.Name)
}

func TestDeletePortal_CascadesEvents(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	org := createTestOrg(t, db, "Delete Org")
	p := createTestPortal(t, db, org.ID, "Gone", "gone")
	_, err := db.CreatePortalEvent(ctx, p.ID, models.EventInput{EventType: models.EventScan})
	require.NoError(t, err)

	require.NoError(t, db.DeletePortal(ctx, p.ID))
	assert.Zero(t, countRows(t, db, `SELECT COUNT(*) FROM portal_events WHERE portal_id = $1`, p.ID))
	assert.ErrorIs(t, db.DeletePortal(ctx, p.ID), ErrPortalNotFound)
}
