package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"cloudgather/internal/config"
	"cloudgather/internal/db"
	"cloudgather/internal/middleware"
	"cloudgather/internal/models"
	"cloudgather/internal/queries"
)

// recordTimeout bounds the asynchronous event insert of a redirect.
const recordTimeout = 5 * time.Second

// PortalHandler serves the public slug redirect of a portal.
type PortalHandler struct {
	queries *queries.Service
	cfg     *config.Config
}

// NewPortalHandler creates a new portal handler.
func NewPortalHandler(q *queries.Service, cfg *config.Config) *PortalHandler {
	return &PortalHandler{queries: q, cfg: cfg}
}

// eventTypeForSource maps the ?src= of a portal link to the event recorded.
// QR and NFC tags carry src so a physical scan is told apart from a visit.
func eventTypeForSource(src string) string {
	switch src {
	case "qr", "nfc":
		return models.EventScan
	}
	return models.EventVisit
}

// Redirect resolves a slug, records the visit and redirects to the portal's
// destination.
func (h *PortalHandler) Redirect(c fiber.Ctx) error {
	slug := c.Params("slug")

	portal, err := h.queries.GetPortalBySlug(c.Context(), slug)
	if err != nil {
		if errors.Is(err, db.ErrPortalNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "The portal '"+slug+"' does not exist.")
		}
		return err
	}

	src := c.Query("src")
	meta := map[string]string{}
	if src != "" {
		meta["src"] = src
	}
	if ref := c.Get(fiber.HeaderReferer); ref != "" {
		meta["referrer"] = ref
	}
	metadata, _ := json.Marshal(meta)

	in := models.EventInput{EventType: eventTypeForSource(src), Metadata: metadata}
	go h.record(middleware.CurrentUser(c), portal.ID, in)

	return c.Redirect().Status(fiber.StatusFound).To(portal.DestinationURL)
}

// record stores an event without holding up the redirect.
func (h *PortalHandler) record(caller *models.User, portalID uuid.UUID, in models.EventInput) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if _, err := h.queries.CreatePortalEvent(ctx, caller, portalID, in); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"portal_id":  portalID,
			"event_type": in.EventType,
		}).Error("Failed to record portal event")
	}
}
