package handlers

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"cloudgather/internal/actions"
	"cloudgather/internal/config"
	"cloudgather/internal/middleware"
	"cloudgather/internal/models"
)

// resultStatus is the HTTP status for an action result.
func resultStatus(res actions.Result) int {
	switch res.State {
	case actions.StateValidationFailed:
		return fiber.StatusUnprocessableEntity
	case actions.StateProviderFailed:
		return fiber.StatusBadRequest
	}
	return fiber.StatusOK
}

// respond sends an action result: JSON clients get the result object, pages
// get a 303 redirect or the form re-rendered with the outcome.
func respond(c fiber.Ctx, cfg *config.Config, view string, res actions.Result, data fiber.Map) error {
	if middleware.WantsJSON(c) {
		return c.Status(resultStatus(res)).JSON(res)
	}
	if res.RedirectTo != "" {
		return c.Redirect().Status(fiber.StatusSeeOther).To(res.RedirectTo)
	}

	if data == nil {
		data = fiber.Map{}
	}
	data["Result"] = res
	data["User"] = middleware.CurrentUser(c)
	return c.Status(resultStatus(res)).Render(view, MergeBranding(data, cfg))
}

// startSession stores the access token in a fresh session.
func startSession(c fiber.Ctx, auth *models.AuthSession) error {
	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}
	// New session ID on sign-in.
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(middleware.SessionTokenKey, auth.AccessToken)
	return nil
}

// endSession forgets the access token.
func endSession(c fiber.Ctx) {
	if sess := session.FromContext(c); sess != nil {
		_ = sess.Destroy()
	}
}
