package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"cloudgather/internal/middleware"
	"cloudgather/internal/models"
	"cloudgather/internal/queries"
)

// PortalHandler handles portal CRUD via JSON API.
type PortalHandler struct {
	queries *queries.Service
}

// NewPortalHandler creates a new API portal handler.
func NewPortalHandler(q *queries.Service) *PortalHandler {
	return &PortalHandler{queries: q}
}

// List returns an organization's portals with their recent events.
func (h *PortalHandler) List(c fiber.Ctx) error {
	orgID, ok := uuidParam(c, "orgID")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid organization id")
	}

	portals, err := h.queries.GetOrganizationPortals(c.Context(), middleware.CurrentUser(c), orgID)
	if err != nil {
		return jsonFromError(c, err)
	}
	if portals == nil {
		portals = []models.Portal{}
	}
	return jsonSuccess(c, portals)
}

// Get returns a single portal.
func (h *PortalHandler) Get(c fiber.Ctx) error {
	id, ok := uuidParam(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid portal id")
	}

	portal, err := h.queries.GetPortal(c.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return jsonFromError(c, err)
	}
	return jsonSuccess(c, portal)
}

// Create creates a portal in an organization.
func (h *PortalHandler) Create(c fiber.Ctx) error {
	orgID, ok := uuidParam(c, "orgID")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid organization id")
	}

	var body models.PortalInput
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	portal, err := h.queries.CreatePortal(c.Context(), middleware.CurrentUser(c), orgID, body)
	if err != nil {
		return jsonFromError(c, err)
	}
	return jsonCreated(c, portal)
}

// Update applies a partial update to a portal.
func (h *PortalHandler) Update(c fiber.Ctx) error {
	id, ok := uuidParam(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid portal id")
	}

	var patch models.PortalPatch
	if err := json.Unmarshal(c.Body(), &patch); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	portal, err := h.queries.UpdatePortal(c.Context(), middleware.CurrentUser(c), id, patch)
	if err != nil {
		return jsonFromError(c, err)
	}
	return jsonSuccess(c, portal)
}

// Delete deletes a portal and its events.
func (h *PortalHandler) Delete(c fiber.Ctx) error {
	id, ok := uuidParam(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid portal id")
	}

	if err := h.queries.DeletePortal(c.Context(), middleware.CurrentUser(c), id); err != nil {
		return jsonFromError(c, err)
	}
	return jsonSuccess(c, nil)
}
