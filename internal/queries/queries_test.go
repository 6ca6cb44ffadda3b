package queries

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"cloudgather/internal/db"
	"cloudgather/internal/mocks"
	"cloudgather/internal/models"
	"cloudgather/internal/policy"
	"cloudgather/internal/validation"
)

// QueriesTestSuite exercises the query layer against a mocked store.
type QueriesTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	store   *mocks.MockStore
	service *Service
	ctx     context.Context

	orgID  uuid.UUID
	admin  *models.User
	member *models.User
	other  *models.User
}

func (suite *QueriesTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.store = mocks.NewMockStore(suite.ctrl)
	suite.service = New(suite.store)
	suite.ctx = context.Background()

	suite.orgID = uuid.New()
	suite.admin = &models.User{ID: uuid.New(), Email: "admin@acme.example"}
	suite.member = &models.User{ID: uuid.New(), Email: "member@acme.example"}
	suite.other = &models.User{ID: uuid.New(), Email: "other@elsewhere.example"}

	// Membership lookups resolve from the fixed roster above.
	suite.store.EXPECT().GetMembership(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, userID, orgID uuid.UUID) (*models.Membership, error) {
			if orgID != suite.orgID {
				return nil, db.ErrMembershipNotFound
			}
			switch userID {
			case suite.admin.ID:
				return &models.Membership{UserID: userID, OrgID: orgID, Role: models.RoleAdmin}, nil
			case suite.member.ID:
				return &models.Membership{UserID: userID, OrgID: orgID, Role: models.RoleMember}, nil
			}
			return nil, db.ErrMembershipNotFound
		}).AnyTimes()
}

func (suite *QueriesTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *QueriesTestSuite) portal() *models.Portal {
	return &models.Portal{ID: uuid.New(), OrgID: suite.orgID, Name: "Launch", Slug: "acme-launch", DestinationURL: "https://acme.example"}
}

func (suite *QueriesTestSuite) TestGetUserOrganization() {
	org := &models.Organization{ID: suite.orgID, Name: "Acme"}
	suite.store.EXPECT().GetFirstOrganizationForUser(gomock.Any(), suite.member.ID).Return(org, nil)

	got, err := suite.service.GetUserOrganization(suite.ctx, suite.member)
	suite.NoError(err)
	suite.Equal(org, got)
}

func (suite *QueriesTestSuite) TestGetUserOrganization_AbsentIsNotAnError() {
	suite.store.EXPECT().GetFirstOrganizationForUser(gomock.Any(), suite.other.ID).Return(nil, db.ErrOrgNotFound)

	got, err := suite.service.GetUserOrganization(suite.ctx, suite.other)
	suite.NoError(err)
	suite.Nil(got)

	got, err = suite.service.GetUserOrganization(suite.ctx, nil)
	suite.NoError(err)
	suite.Nil(got)
}

func (suite *QueriesTestSuite) TestGetUserMemberships() {
	memberships := []models.Membership{{UserID: suite.member.ID, OrgID: suite.orgID}}
	suite.store.EXPECT().GetUserMemberships(gomock.Any(), suite.member.ID).Return(memberships, nil)

	got, err := suite.service.GetUserMemberships(suite.ctx, suite.member)
	suite.NoError(err)
	suite.Len(got, 1)

	got, err = suite.service.GetUserMemberships(suite.ctx, nil)
	suite.NoError(err)
	suite.Empty(got)
}

func (suite *QueriesTestSuite) TestGetOrganizationPortals_ScopedToOrg() {
	mine := suite.portal()
	foreign := suite.portal()
	foreign.OrgID = uuid.New()
	suite.store.EXPECT().GetOrganizationPortals(gomock.Any(), suite.orgID).Return([]models.Portal{*mine, *foreign}, nil)

	got, err := suite.service.GetOrganizationPortals(suite.ctx, suite.member, suite.orgID)
	suite.NoError(err)
	suite.Require().Len(got, 1)
	suite.Equal(mine.ID, got[0].ID)
}

func (suite *QueriesTestSuite) TestGetOrganizationPortals_RequiresMembership() {
	_, err := suite.service.GetOrganizationPortals(suite.ctx, suite.other, suite.orgID)
	suite.ErrorIs(err, policy.ErrForbidden)

	got, err := suite.service.GetOrganizationPortals(suite.ctx, nil, suite.orgID)
	suite.NoError(err)
	suite.Nil(got)
}

func (suite *QueriesTestSuite) TestGetPortalEvents() {
	p := suite.portal()
	events := []models.PortalEvent{{ID: uuid.New(), PortalID: p.ID, EventType: models.EventScan}}
	suite.store.EXPECT().GetPortalByID(gomock.Any(), p.ID).Return(p, nil).Times(2)
	suite.store.EXPECT().GetPortalEvents(gomock.Any(), p.ID).Return(events, nil)

	got, err := suite.service.GetPortalEvents(suite.ctx, suite.member, p.ID)
	suite.NoError(err)
	suite.Equal(events, got)

	_, err = suite.service.GetPortalEvents(suite.ctx, suite.other, p.ID)
	suite.ErrorIs(err, policy.ErrForbidden)
}

func (suite *QueriesTestSuite) TestGetPortalEvents_UnknownPortal() {
	id := uuid.New()
	suite.store.EXPECT().GetPortalByID(gomock.Any(), id).Return(nil, db.ErrPortalNotFound)

	_, err := suite.service.GetPortalEvents(suite.ctx, suite.member, id)
	suite.ErrorIs(err, db.ErrPortalNotFound)
}

func (suite *QueriesTestSuite) TestCreatePortal() {
	created := suite.portal()
	suite.store.EXPECT().
		CreatePortal(gomock.Any(), suite.orgID, models.PortalInput{Name: "Launch", Slug: "acme-launch", DestinationURL: "https://acme.example"}).
		Return(created, nil)

	got, err := suite.service.CreatePortal(suite.ctx, suite.member, suite.orgID, models.PortalInput{
		Name: "Launch", Slug: "Acme-Launch", DestinationURL: "https://acme.example",
	})
	suite.NoError(err)
	suite.Equal(created, got)
}

func (suite *QueriesTestSuite) TestCreatePortal_Rejections() {
	_, err := suite.service.CreatePortal(suite.ctx, suite.other, suite.orgID, models.PortalInput{})
	suite.ErrorIs(err, policy.ErrForbidden)

	_, err = suite.service.CreatePortal(suite.ctx, nil, suite.orgID, models.PortalInput{})
	suite.ErrorIs(err, policy.ErrUnauthenticated)

	var fe *validation.FieldError
	_, err = suite.service.CreatePortal(suite.ctx, suite.member, suite.orgID, models.PortalInput{
		Name: "Launch", Slug: "bad slug", DestinationURL: "https://acme.example",
	})
	suite.True(errors.As(err, &fe))
	suite.Equal("slug", fe.Field)
}

func (suite *QueriesTestSuite) TestCreatePortal_DuplicateSlug() {
	suite.store.EXPECT().CreatePortal(gomock.Any(), suite.orgID, gomock.Any()).Return(nil, db.ErrDuplicateSlug)

	_, err := suite.service.CreatePortal(suite.ctx, suite.member, suite.orgID, models.PortalInput{
		Name: "Launch", Slug: "taken", DestinationURL: "https://acme.example",
	})
	suite.ErrorIs(err, db.ErrDuplicateSlug)
}

func (suite *QueriesTestSuite) TestUpdatePortal() {
	p := suite.portal()
	name := "  Relaunch "
	suite.store.EXPECT().GetPortalByID(gomock.Any(), p.ID).Return(p, nil)
	suite.store.EXPECT().UpdatePortal(gomock.Any(), p.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, patch models.PortalPatch) (*models.Portal, error) {
			suite.Equal("Relaunch", *patch.Name)
			suite.Nil(patch.Slug)
			updated := *p
			updated.Name = *patch.Name
			return &updated, nil
		})

	got, err := suite.service.UpdatePortal(suite.ctx, suite.member, p.ID, models.PortalPatch{Name: &name})
	suite.NoError(err)
	suite.Equal("Relaunch", got.Name)
}

func (suite *QueriesTestSuite) TestDeletePortal_AdminOnly() {
	p := suite.portal()
	suite.store.EXPECT().GetPortalByID(gomock.Any(), p.ID).Return(p, nil).Times(2)
	suite.store.EXPECT().DeletePortal(gomock.Any(), p.ID).Return(nil)

	suite.ErrorIs(suite.service.DeletePortal(suite.ctx, suite.member, p.ID), policy.ErrForbidden)
	suite.NoError(suite.service.DeletePortal(suite.ctx, suite.admin, p.ID))
}

func (suite *QueriesTestSuite) TestCreatePortalEvent() {
	portalID := uuid.New()
	suite.store.EXPECT().CreatePortalEvent(gomock.Any(), portalID, gomock.Any()).
		DoAndReturn(func(_ context.Context, id uuid.UUID, in models.EventInput) (*models.PortalEvent, error) {
			return &models.PortalEvent{ID: uuid.New(), PortalID: id, UserID: in.UserID, EventType: in.EventType, Metadata: in.Metadata}, nil
		}).Times(2)

	anon, err := suite.service.CreatePortalEvent(suite.ctx, nil, portalID, models.EventInput{EventType: models.EventVisit})
	suite.NoError(err)
	suite.Nil(anon.UserID)

	spoofed := uuid.New()
	known, err := suite.service.CreatePortalEvent(suite.ctx, suite.member, portalID, models.EventInput{
		UserID:    &spoofed,
		EventType: models.EventClick,
		Metadata:  json.RawMessage(`{"button":"cta"}`),
	})
	suite.NoError(err)
	suite.Require().NotNil(known.UserID)
	suite.Equal(suite.member.ID, *known.UserID, "the caller, not the payload, is recorded")

	_, err = suite.service.CreatePortalEvent(suite.ctx, nil, portalID, models.EventInput{EventType: "hover"})
	suite.ErrorIs(err, db.ErrInvalidEventType)
}

func (suite *QueriesTestSuite) TestGetPortalBySlug() {
	p := suite.portal()
	suite.store.EXPECT().GetPortalBySlug(gomock.Any(), "acme-launch").Return(p, nil)

	got, err := suite.service.GetPortalBySlug(suite.ctx, "ACME-launch")
	suite.NoError(err)
	suite.Equal(p, got)

	_, err = suite.service.GetPortalBySlug(suite.ctx, "../etc")
	suite.ErrorIs(err, db.ErrPortalNotFound)
}

func (suite *QueriesTestSuite) TestMemberMutations_RequireAdmin() {
	newUser := uuid.New()

	_, err := suite.service.AddOrganizationMember(suite.ctx, suite.member, suite.orgID, newUser, "")
	suite.ErrorIs(err, policy.ErrForbidden)
	suite.ErrorIs(suite.service.RemoveOrganizationMember(suite.ctx, suite.member, suite.orgID, suite.admin.ID), policy.ErrForbidden)
	_, err = suite.service.UpdateMemberRole(suite.ctx, suite.member, suite.orgID, suite.member.ID, models.RoleAdmin)
	suite.ErrorIs(err, policy.ErrForbidden)
	suite.ErrorIs(suite.service.DeleteOrganization(suite.ctx, suite.member, suite.orgID), policy.ErrForbidden)

	_, err = suite.service.AddOrganizationMember(suite.ctx, suite.admin, suite.orgID, newUser, "owner")
	suite.ErrorIs(err, db.ErrInvalidRole)
}

func (suite *QueriesTestSuite) TestAddOrganizationMember_DefaultsToMember() {
	newUser := uuid.New()
	suite.store.EXPECT().AddOrganizationMember(gomock.Any(), suite.orgID, newUser, models.RoleMember).
		Return(&models.Membership{UserID: newUser, OrgID: suite.orgID, Role: models.RoleMember}, nil)

	m, err := suite.service.AddOrganizationMember(suite.ctx, suite.admin, suite.orgID, newUser, "")
	suite.NoError(err)
	suite.Equal(models.RoleMember, m.Role)
}

func (suite *QueriesTestSuite) TestLastAdminIsKept() {
	suite.store.EXPECT().CountAdmins(gomock.Any(), suite.orgID).Return(1, nil).Times(2)

	suite.ErrorIs(suite.service.RemoveOrganizationMember(suite.ctx, suite.admin, suite.orgID, suite.admin.ID), ErrLastAdmin)
	_, err := suite.service.UpdateMemberRole(suite.ctx, suite.admin, suite.orgID, suite.admin.ID, models.RoleMember)
	suite.ErrorIs(err, ErrLastAdmin)
}

func (suite *QueriesTestSuite) TestRemoveOrganizationMember() {
	suite.store.EXPECT().RemoveOrganizationMember(gomock.Any(), suite.orgID, suite.member.ID).Return(nil)

	suite.NoError(suite.service.RemoveOrganizationMember(suite.ctx, suite.admin, suite.orgID, suite.member.ID))
}

func (suite *QueriesTestSuite) TestDeleteOrganization() {
	suite.store.EXPECT().DeleteOrganization(gomock.Any(), suite.orgID).Return(nil)

	suite.NoError(suite.service.DeleteOrganization(suite.ctx, suite.admin, suite.orgID))
}

func TestQueriesTestSuite(t *testing.T) {
	suite.Run(t, new(QueriesTestSuite))
}
