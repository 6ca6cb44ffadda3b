package server

import (
	"context"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"cloudgather/internal/actions"
	"cloudgather/internal/db"
	"cloudgather/internal/handlers"
	"cloudgather/internal/handlers/api"
	"cloudgather/internal/identity"
	"cloudgather/internal/jobs"
	"cloudgather/internal/metrics"
	"cloudgather/internal/middleware"
	"cloudgather/internal/queries"
)

var (
	_ queries.Store           = (*db.DB)(nil)
	_ identity.Store          = (*db.DB)(nil)
	_ metrics.Source          = (*db.DB)(nil)
	_ jobs.SessionPurger      = (*db.DB)(nil)
	_ handlers.Pinger         = (*db.DB)(nil)
	_ identity.Provider       = (*identity.Local)(nil)
	_ identity.Provider       = (*identity.Hosted)(nil)
	_ handlers.ExternalSignIn = (*identity.Local)(nil)
)

// Deps are the collaborators the routes are built from.
type Deps struct {
	DB       *db.DB
	Provider identity.Provider
	Queries  *queries.Service
	Actions  *actions.Actions
}

// RegisterRoutes registers all application routes. ctx bounds the lifetime of
// long-lived streams.
func (s *Server) RegisterRoutes(ctx context.Context, deps Deps) error {
	authMiddleware := middleware.NewAuthMiddleware(deps.Provider)

	probeHandler := handlers.NewProbeHandler(deps.DB)
	accountHandler := handlers.NewAccountHandler(deps.Actions, s.Cfg)
	dashboardHandler := handlers.NewDashboardHandler(deps.Queries, s.Cfg)
	portalHandler := handlers.NewPortalHandler(deps.Queries, s.Cfg)
	liveHandler := handlers.NewLiveHandler(ctx, deps.Queries, s.Cfg.LivePollInterval)

	teamAPI := api.NewTeamHandler(deps.Queries)
	portalAPI := api.NewPortalHandler(deps.Queries)
	eventAPI := api.NewEventHandler(deps.Queries)
	memberAPI := api.NewMemberHandler(deps.Queries)

	// Probes and metrics
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// SSO is only offered on top of the local identity store.
	if s.Cfg.IsSSOEnabled() {
		local, ok := deps.Provider.(handlers.ExternalSignIn)
		if !ok {
			logrus.Warn("OIDC is configured but the hosted identity provider is in use; SSO disabled")
		} else {
			ssoHandler, err := handlers.NewSSOHandler(ctx, s.Cfg, local)
			if err != nil {
				return err
			}
			s.App.Get("/auth/sso/login", ssoHandler.Login)
			s.App.Get("/auth/sso/callback", ssoHandler.Callback)
		}
	}

	// Account pages and form actions
	s.App.Get("/", authMiddleware.OptionalAuth, dashboardHandler.Index)
	s.App.Get("/sign-in", authMiddleware.OptionalAuth, accountHandler.SignInPage)
	s.App.Post("/sign-in", accountHandler.SignIn)
	s.App.Get("/sign-up", authMiddleware.OptionalAuth, accountHandler.SignUpPage)
	s.App.Post("/sign-up", accountHandler.SignUp)
	s.App.Post("/sign-out", accountHandler.SignOut)
	s.App.Get("/reset-password", accountHandler.ResetPasswordPage)
	s.App.Post("/reset-password", accountHandler.ResetPassword)
	s.App.Post("/reset-password/confirm", accountHandler.ConfirmReset)
	s.App.Get("/pricing", authMiddleware.OptionalAuth, dashboardHandler.Pricing)

	// Signed-in pages
	s.App.Get("/dashboard", authMiddleware.RequireAuth, dashboardHandler.Dashboard)
	s.App.Get("/settings", authMiddleware.RequireAuth, dashboardHandler.Settings)
	s.App.Post("/settings/password", authMiddleware.RequireAuth, accountHandler.UpdatePassword)

	// Public portal routing
	s.App.Get("/p/:slug", authMiddleware.OptionalAuth, portalHandler.Redirect)
	s.App.Post("/p/:slug/events", authMiddleware.OptionalAuth, eventAPI.Record)

	// JSON API. /api/team answers null rather than 401 for anonymous callers.
	s.App.Get("/api/team", authMiddleware.OptionalAuth, teamAPI.Team)

	apiGroup := s.App.Group("/api", authMiddleware.RequireAuth)
	apiGroup.Get("/memberships", teamAPI.Memberships)

	apiGroup.Get("/orgs/:orgID/portals", portalAPI.List)
	apiGroup.Post("/orgs/:orgID/portals", portalAPI.Create)
	apiGroup.Get("/orgs/:orgID/members", memberAPI.List)
	apiGroup.Post("/orgs/:orgID/members", memberAPI.Add)
	apiGroup.Patch("/orgs/:orgID/members/:userID", memberAPI.UpdateRole)
	apiGroup.Delete("/orgs/:orgID/members/:userID", memberAPI.Remove)
	apiGroup.Delete("/orgs/:orgID", memberAPI.DeleteOrganization)

	apiGroup.Get("/portals/:id", portalAPI.Get)
	apiGroup.Patch("/portals/:id", portalAPI.Update)
	apiGroup.Delete("/portals/:id", portalAPI.Delete)
	apiGroup.Get("/portals/:id/events", eventAPI.List)
	apiGroup.Get("/portals/:id/events/latest", eventAPI.Latest)
	apiGroup.Get("/portals/:id/live", liveHandler.Stream)

	return nil
}
