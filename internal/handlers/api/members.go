package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"cloudgather/internal/middleware"
	"cloudgather/internal/models"
	"cloudgather/internal/queries"
)

// MemberHandler manages organization memberships via JSON API.
type MemberHandler struct {
	queries *queries.Service
}

// NewMemberHandler creates a new API member handler.
func NewMemberHandler(q *queries.Service) *MemberHandler {
	return &MemberHandler{queries: q}
}

// List returns an organization's members.
func (h *MemberHandler) List(c fiber.Ctx) error {
	orgID, ok := uuidParam(c, "orgID")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid organization id")
	}

	members, err := h.queries.GetOrganizationMembers(c.Context(), middleware.CurrentUser(c), orgID)
	if err != nil {
		return jsonFromError(c, err)
	}
	if members == nil {
		members = []models.Membership{}
	}
	return jsonSuccess(c, members)
}

// Add adds a user to an organization.
func (h *MemberHandler) Add(c fiber.Ctx) error {
	orgID, ok := uuidParam(c, "orgID")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid organization id")
	}

	var body struct {
		UserID uuid.UUID `json:"user_id"`
		Role   string    `json:"role"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if body.UserID == uuid.Nil {
		return jsonFieldError(c, fiber.StatusBadRequest, "user_id", "user_id is required")
	}

	m, err := h.queries.AddOrganizationMember(c.Context(), middleware.CurrentUser(c), orgID, body.UserID, body.Role)
	if err != nil {
		return jsonFromError(c, err)
	}
	return jsonCreated(c, m)
}

// UpdateRole changes a member's role.
func (h *MemberHandler) UpdateRole(c fiber.Ctx) error {
	orgID, ok := uuidParam(c, "orgID")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid organization id")
	}
	userID, ok := uuidParam(c, "userID")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid user id")
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	m, err := h.queries.UpdateMemberRole(c.Context(), middleware.CurrentUser(c), orgID, userID, body.Role)
	if err != nil {
		return jsonFromError(c, err)
	}
	return jsonSuccess(c, m)
}

// Remove removes a member from an organization.
func (h *MemberHandler) Remove(c fiber.Ctx) error {
	orgID, ok := uuidParam(c, "orgID")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid organization id")
	}
	userID, ok := uuidParam(c, "userID")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid user id")
	}

	if err := h.queries.RemoveOrganizationMember(c.Context(), middleware.CurrentUser(c), orgID, userID); err != nil {
		return jsonFromError(c, err)
	}
	return jsonSuccess(c, nil)
}

// DeleteOrganization deletes an organization and everything it owns.
func (h *MemberHandler) DeleteOrganization(c fiber.Ctx) error {
	orgID, ok := uuidParam(c, "orgID")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid organization id")
	}

	if err := h.queries.DeleteOrganization(c.Context(), middleware.CurrentUser(c), orgID); err != nil {
		return jsonFromError(c, err)
	}
	return jsonSuccess(c, nil)
}
