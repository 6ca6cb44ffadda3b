package policy

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cloudgather/internal/db"
	"cloudgather/internal/models"
)

type stubStore map[uuid.UUID]*models.Membership

func (s stubStore) GetMembership(_ context.Context, userID, orgID uuid.UUID) (*models.Membership, error) {
	if userID == uuid.Max {
		return nil, errors.New("connection reset")
	}
	m, ok := s[userID]
	if !ok || m.OrgID != orgID {
		return nil, db.ErrMembershipNotFound
	}
	return m, nil
}

func TestGate(t *testing.T) {
	orgID := uuid.New()
	admin := &models.User{ID: uuid.New()}
	member := &models.User{ID: uuid.New()}
	outsider := &models.User{ID: uuid.New()}
	broken := &models.User{ID: uuid.Max}

	gate := NewGate(stubStore{
		admin.ID:  {UserID: admin.ID, OrgID: orgID, Role: models.RoleAdmin},
		member.ID: {UserID: member.ID, OrgID: orgID, Role: models.RoleMember},
	})
	ctx := context.Background()

	tests := []struct {
		name       string
		caller     *models.User
		org        uuid.UUID
		wantMember error
		wantAdmin  error
	}{
		{"admin", admin, orgID, nil, nil},
		{"member", member, orgID, nil, ErrForbidden},
		{"outsider", outsider, orgID, ErrForbidden, ErrForbidden},
		{"member of another org", member, uuid.New(), ErrForbidden, ErrForbidden},
		{"no caller", nil, orgID, ErrUnauthenticated, ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := gate.RequireMember(ctx, tt.caller, tt.org)
			if tt.wantMember == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.caller.ID, m.UserID)
			} else {
				assert.ErrorIs(t, err, tt.wantMember)
			}

			_, err = gate.RequireAdmin(ctx, tt.caller, tt.org)
			if tt.wantAdmin == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantAdmin)
			}
		})
	}

	t.Run("store failure is not forbidden", func(t *testing.T) {
		_, err := gate.RequireMember(ctx, broken, orgID)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrForbidden)
	})
}
