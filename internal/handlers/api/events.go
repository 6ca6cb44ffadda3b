package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"cloudgather/internal/middleware"
	"cloudgather/internal/models"
	"cloudgather/internal/queries"
)

// EventHandler lists and records portal events.
type EventHandler struct {
	queries *queries.Service
}

// NewEventHandler creates a new API event handler.
func NewEventHandler(q *queries.Service) *EventHandler {
	return &EventHandler{queries: q}
}

// List returns a portal's newest events, newest first.
func (h *EventHandler) List(c fiber.Ctx) error {
	id, ok := uuidParam(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid portal id")
	}

	events, err := h.queries.GetPortalEvents(c.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return jsonFromError(c, err)
	}
	if events == nil {
		events = []models.PortalEvent{}
	}
	return jsonSuccess(c, events)
}

// Latest returns a portal's newest event, or null.
func (h *EventHandler) Latest(c fiber.Ctx) error {
	id, ok := uuidParam(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid portal id")
	}

	event, err := h.queries.GetLatestPortalEvent(c.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return jsonFromError(c, err)
	}
	return jsonSuccess(c, event)
}

// Record records an event against a portal addressed by slug. Visitors need
// not be signed in. The event type defaults to click.
func (h *EventHandler) Record(c fiber.Ctx) error {
	portal, err := h.queries.GetPortalBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return jsonFromError(c, err)
	}

	var body struct {
		EventType string          `json:"event_type"`
		Metadata  json.RawMessage `json:"metadata"`
	}
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}
	if body.EventType == "" {
		body.EventType = models.EventClick
	}
	if len(body.Metadata) > 0 && !json.Valid(body.Metadata) {
		return jsonFieldError(c, fiber.StatusBadRequest, "metadata", "metadata must be valid JSON")
	}

	event, err := h.queries.CreatePortalEvent(c.Context(), middleware.CurrentUser(c), portal.ID, models.EventInput{
		EventType: body.EventType,
		Metadata:  body.Metadata,
	})
	if err != nil {
		return jsonFromError(c, err)
	}
	return jsonCreated(c, event)
}
