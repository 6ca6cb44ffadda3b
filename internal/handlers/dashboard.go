package handlers

import (
	"github.com/gofiber/fiber/v3"

	"cloudgather/internal/actions"
	"cloudgather/internal/config"
	"cloudgather/internal/middleware"
	"cloudgather/internal/models"
	"cloudgather/internal/queries"
)

// DashboardHandler renders the signed-in pages.
type DashboardHandler struct {
	queries *queries.Service
	cfg     *config.Config
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(q *queries.Service, cfg *config.Config) *DashboardHandler {
	return &DashboardHandler{queries: q, cfg: cfg}
}

// Index sends visitors to the dashboard or the sign-in page.
func (h *DashboardHandler) Index(c fiber.Ctx) error {
	if middleware.CurrentUser(c) != nil {
		return c.Redirect().To(actions.DashboardPath)
	}
	return c.Redirect().To(actions.SignInPath)
}

// Dashboard renders the caller's organization with its portals and their
// recent activity.
func (h *DashboardHandler) Dashboard(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	data := MergeBranding(fiber.Map{
		"Title": "Dashboard",
		"User":  user,
	}, h.cfg)

	org, err := h.queries.GetUserOrganization(c.Context(), user)
	if err != nil {
		return err
	}
	if org == nil {
		return c.Render("dashboard", data)
	}
	data["Organization"] = org

	portals, err := h.queries.GetOrganizationPortals(c.Context(), user, org.ID)
	if err != nil {
		return err
	}
	data["Portals"] = portals
	data["IsAdmin"] = isAdmin(org.Memberships, user)

	return c.Render("dashboard", data)
}

// Settings renders the account settings page.
func (h *DashboardHandler) Settings(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	memberships, err := h.queries.GetUserMemberships(c.Context(), user)
	if err != nil {
		return err
	}

	return c.Render("settings", MergeBranding(fiber.Map{
		"Title":       "Settings",
		"User":        user,
		"Memberships": memberships,
		"Result":      actions.Result{State: actions.StateIdle},
	}, h.cfg))
}

// Pricing renders the plan page a checkout sign-in lands on.
func (h *DashboardHandler) Pricing(c fiber.Ctx) error {
	return c.Render("pricing", MergeBranding(fiber.Map{
		"Title":   "Pricing",
		"User":    middleware.CurrentUser(c),
		"PriceID": c.Query("priceId"),
	}, h.cfg))
}

func isAdmin(memberships []models.Membership, user *models.User) bool {
	if user == nil {
		return false
	}
	for _, m := range memberships {
		if m.UserID == user.ID {
			return m.IsAdmin()
		}
	}
	return false
}
