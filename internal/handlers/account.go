package handlers

import (
	"github.com/gofiber/fiber/v3"

	"cloudgather/internal/actions"
	"cloudgather/internal/config"
	"cloudgather/internal/middleware"
)

// AccountHandler serves the sign-in, sign-up and password forms.
type AccountHandler struct {
	actions *actions.Actions
	cfg     *config.Config
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(a *actions.Actions, cfg *config.Config) *AccountHandler {
	return &AccountHandler{actions: a, cfg: cfg}
}

func (h *AccountHandler) page(c fiber.Ctx, view, title string, data fiber.Map) error {
	data["Title"] = title
	data["User"] = middleware.CurrentUser(c)
	data["Result"] = actions.Result{State: actions.StateIdle}
	return c.Render(view, MergeBranding(data, h.cfg))
}

// SignInPage renders the sign-in form. Signed-in users go to the dashboard.
func (h *AccountHandler) SignInPage(c fiber.Ctx) error {
	if middleware.CurrentUser(c) != nil {
		return c.Redirect().To(actions.DashboardPath)
	}
	return h.page(c, "sign-in", "Sign in", fiber.Map{
		"Redirect": c.Query("redirect"),
		"PriceID":  c.Query("priceId"),
	})
}

// SignUpPage renders the sign-up form.
func (h *AccountHandler) SignUpPage(c fiber.Ctx) error {
	if middleware.CurrentUser(c) != nil {
		return c.Redirect().To(actions.DashboardPath)
	}
	return h.page(c, "sign-up", "Create account", fiber.Map{
		"Redirect": c.Query("redirect"),
		"PriceID":  c.Query("priceId"),
	})
}

// ResetPasswordPage renders the reset request form, or the new-password form
// when the request carries a reset token.
func (h *AccountHandler) ResetPasswordPage(c fiber.Ctx) error {
	return h.page(c, "reset-password", "Reset password", fiber.Map{
		"Token": c.Query("token"),
	})
}

// SignIn handles the sign-in form.
func (h *AccountHandler) SignIn(c fiber.Ctx) error {
	var form actions.SignInForm
	if err := c.Bind().Body(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form")
	}

	res := h.actions.SignIn(c.Context(), form)
	if res.Session != nil {
		if err := startSession(c, res.Session); err != nil {
			return err
		}
	}
	return respond(c, h.cfg, "sign-in", res, fiber.Map{
		"Title":    "Sign in",
		"Redirect": form.Redirect,
		"PriceID":  form.PriceID,
	})
}

// SignUp handles the sign-up form.
func (h *AccountHandler) SignUp(c fiber.Ctx) error {
	var form actions.SignUpForm
	if err := c.Bind().Body(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form")
	}

	res := h.actions.SignUp(c.Context(), form)
	if res.Session != nil {
		if err := startSession(c, res.Session); err != nil {
			return err
		}
	}
	return respond(c, h.cfg, "sign-up", res, fiber.Map{
		"Title":    "Create account",
		"Redirect": form.Redirect,
		"PriceID":  form.PriceID,
	})
}

// SignOut ends the session.
func (h *AccountHandler) SignOut(c fiber.Ctx) error {
	res := h.actions.SignOut(c.Context(), middleware.AccessToken(c))
	endSession(c)
	return respond(c, h.cfg, "sign-in", res, nil)
}

// ResetPassword handles the reset request form.
func (h *AccountHandler) ResetPassword(c fiber.Ctx) error {
	var form actions.ResetPasswordForm
	if err := c.Bind().Body(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form")
	}

	res := h.actions.ResetPassword(c.Context(), form)
	return respond(c, h.cfg, "reset-password", res, fiber.Map{"Title": "Reset password"})
}

// ConfirmReset handles the new-password form reached from a reset email.
func (h *AccountHandler) ConfirmReset(c fiber.Ctx) error {
	var form actions.ConfirmResetForm
	if err := c.Bind().Body(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form")
	}

	res := h.actions.ConfirmPasswordReset(c.Context(), form)
	data := fiber.Map{"Title": "Reset password"}
	if !res.OK() {
		data["Token"] = form.Token
	}
	return respond(c, h.cfg, "reset-password", res, data)
}

// UpdatePassword handles the change-password form on the settings page.
func (h *AccountHandler) UpdatePassword(c fiber.Ctx) error {
	var form actions.UpdatePasswordForm
	if err := c.Bind().Body(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form")
	}

	res := h.actions.UpdatePassword(c.Context(), middleware.AccessToken(c), form)
	return respond(c, h.cfg, "settings", res, fiber.Map{"Title": "Settings"})
}
