package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"cloudgather/internal/db"
	"cloudgather/internal/jobs"
	"cloudgather/internal/middleware"
	"cloudgather/internal/models"
	"cloudgather/internal/policy"
	"cloudgather/internal/queries"
)

// heartbeatInterval keeps idle streams open through proxies.
const heartbeatInterval = 15 * time.Second

// LiveHandler streams a portal's newest event as server-sent events.
type LiveHandler struct {
	base     context.Context
	queries  *queries.Service
	interval time.Duration
}

// NewLiveHandler creates a live feed handler. Streams end when base is
// cancelled.
func NewLiveHandler(base context.Context, q *queries.Service, interval time.Duration) *LiveHandler {
	return &LiveHandler{base: base, queries: q, interval: interval}
}

// Stream serves GET /api/portals/:id/live.
func (h *LiveHandler) Stream(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	portalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid portal id")
	}

	if _, err := h.queries.GetPortal(c.Context(), user, portalID); err != nil {
		switch {
		case errors.Is(err, db.ErrPortalNotFound):
			return fiber.NewError(fiber.StatusNotFound, "portal not found")
		case errors.Is(err, policy.ErrUnauthenticated):
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		case errors.Is(err, policy.ErrForbidden):
			return fiber.NewError(fiber.StatusForbidden, "forbidden")
		}
		return err
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	// Membership is re-checked on every fetch.
	fetch := func(ctx context.Context) (*models.PortalEvent, error) {
		return h.queries.GetLatestPortalEvent(ctx, user, portalID)
	}

	return c.SendStreamWriter(func(w *bufio.Writer) {
		h.stream(w, jobs.NewLivePoller(h.interval, fetch).StopOn(accessLost))
	})
}

// accessLost reports whether a fetch error means the caller can no longer
// see the portal.
func accessLost(err error) bool {
	return errors.Is(err, policy.ErrForbidden) ||
		errors.Is(err, policy.ErrUnauthenticated) ||
		errors.Is(err, db.ErrPortalNotFound)
}

func (h *LiveHandler) stream(w *bufio.Writer, poller *jobs.LivePoller) {
	ctx, cancel := context.WithCancel(h.base)
	events := make(chan *models.PortalEvent)
	done := make(chan error, 1)

	go func() {
		done <- poller.Run(ctx, func(ev *models.PortalEvent) {
			select {
			case events <- ev:
			case <-ctx.Done():
			}
		})
	}()
	stopped := false
	defer func() {
		cancel()
		if !stopped {
			<-done
		}
	}()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	// Opening comment so clients see the stream is live.
	if err := writeComment(w, "connected"); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case err := <-done:
			stopped = true
			if err == nil {
				return
			}
			logrus.WithError(err).Debug("Live stream ended")
			_ = writeEvent(w, "end", fiber.Map{"reason": endReason(err)})
			return
		case ev := <-events:
			if err := writeEvent(w, "portal_event", ev); err != nil {
				logrus.WithError(err).Debug("Live stream closed")
				return
			}
		case <-heartbeat.C:
			if err := writeComment(w, "keep-alive"); err != nil {
				return
			}
		}
	}
}

func endReason(err error) string {
	if errors.Is(err, db.ErrPortalNotFound) {
		return "portal deleted"
	}
	return "access revoked"
}

// writeEvent writes one SSE event and flushes it. A flush error means the
// client has gone away.
func writeEvent(w *bufio.Writer, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return err
	}
	return w.Flush()
}

func writeComment(w *bufio.Writer, text string) error {
	if _, err := fmt.Fprintf(w, ": %s\n\n", text); err != nil {
		return err
	}
	return w.Flush()
}
