package api

import (
	"github.com/gofiber/fiber/v3"

	"cloudgather/internal/middleware"
	"cloudgather/internal/queries"
)

// TeamHandler serves the caller's organization and memberships.
type TeamHandler struct {
	queries *queries.Service
}

// NewTeamHandler creates a new API team handler.
func NewTeamHandler(q *queries.Service) *TeamHandler {
	return &TeamHandler{queries: q}
}

// Team returns the caller's organization with its memberships and portals.
// The body is the bare organization, or null when there is none or no one
// is signed in.
func (h *TeamHandler) Team(c fiber.Ctx) error {
	org, err := h.queries.GetUserOrganization(c.Context(), middleware.CurrentUser(c))
	if err != nil {
		return jsonFromError(c, err)
	}
	if org == nil {
		return c.Type("json").SendString("null")
	}
	return c.JSON(org)
}

// Memberships lists every membership of the caller.
func (h *TeamHandler) Memberships(c fiber.Ctx) error {
	memberships, err := h.queries.GetUserMemberships(c.Context(), middleware.CurrentUser(c))
	if err != nil {
		return jsonFromError(c, err)
	}
	return jsonSuccess(c, memberships)
}
