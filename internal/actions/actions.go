// Package actions implements the form-driven account operations: it
// validates input, calls the identity provider and maps the outcome to a
// Result that a page can render or redirect on.
package actions

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"cloudgather/internal/identity"
)

// Redirect targets.
const (
	DashboardPath = "/dashboard"
	SignInPath    = "/sign-in"
	PricingPath   = "/pricing"
)

// User-facing messages. Provider detail is never shown verbatim.
const (
	msgInvalidCredentials = "Invalid email or password. Please try again."
	msgInvalidInput       = "Please correct the highlighted fields."
	msgEmailTaken         = "An account with this email already exists."
	msgWeakPassword       = "Password does not meet the requirements."
	msgSignUpFailed       = "Failed to create account. Please try again."
	msgConfirmEmail       = "Check your email to confirm your account."
	msgPasswordMismatch   = "New password and confirmation password do not match."
	msgNoSession          = "Your session has expired. Please sign in again."
	msgUpdateFailed       = "Failed to update password."
	msgPasswordUpdated    = "Password updated successfully."
	msgResetSent          = "If an account exists for that email, a password reset link has been sent."
	msgResetFailed        = "Failed to send reset email. Please try again."
	msgResetInvalid       = "This reset link is invalid or has expired. Please request a new one."
	msgResetDone          = "Password updated. You can now sign in."
)

// Actions runs account actions against an identity provider.
type Actions struct {
	provider identity.Provider
	validate *validator.Validate
	resetURL string
}

// New creates the account actions. resetURL is where reset emails link to.
func New(provider identity.Provider, resetURL string) *Actions {
	return &Actions{
		provider: provider,
		validate: newValidator(),
		resetURL: resetURL,
	}
}

// begin validates form and returns the run plus, on failure, the result.
func (a *Actions) begin(form any, email string) (*run, *Result) {
	r := &run{state: StateIdle}
	r.to(StateValidating)

	if err := a.validate.Struct(form); err != nil {
		r.to(StateValidationFailed)
		fields := fieldErrors(err)
		msg := msgInvalidInput
		if len(fields) == 1 && fields["confirmPassword"] == fieldMismatch {
			msg = msgPasswordMismatch
		}
		return r, &Result{State: r.state, Error: msg, FieldErrors: fields, Email: email}
	}

	r.to(StateCallingProvider)
	return r, nil
}

// SignIn signs a user in. Every failure yields the same message.
func (a *Actions) SignIn(ctx context.Context, form SignInForm) Result {
	form.Email = strings.TrimSpace(form.Email)
	r, failed := a.begin(&form, form.Email)
	if failed != nil {
		return *failed
	}

	sess, err := a.provider.SignIn(ctx, form.Email, form.Password)
	if err != nil || sess == nil || sess.User == nil {
		if err != nil && !errors.Is(err, identity.ErrInvalidCredentials) {
			logrus.WithError(err).Warn("Sign-in failed")
		}
		r.to(StateProviderFailed)
		return Result{State: r.state, Error: msgInvalidCredentials, Email: form.Email}
	}

	r.to(StateRedirecting)
	return Result{State: r.state, Email: form.Email, RedirectTo: afterAuthRedirect(form.Redirect, form.PriceID), Session: sess}
}

// SignUp creates an account. The new user's organization is provisioned by
// the identity store.
func (a *Actions) SignUp(ctx context.Context, form SignUpForm) Result {
	form.Email = strings.TrimSpace(form.Email)
	r, failed := a.begin(&form, form.Email)
	if failed != nil {
		return *failed
	}

	sess, err := a.provider.SignUp(ctx, form.Email, form.Password)
	if err != nil || sess == nil || sess.User == nil {
		msg := msgSignUpFailed
		switch {
		case errors.Is(err, identity.ErrEmailTaken):
			msg = msgEmailTaken
		case errors.Is(err, identity.ErrWeakPassword):
			msg = msgWeakPassword
		default:
			logrus.WithError(err).Warn("Sign-up failed")
		}
		r.to(StateProviderFailed)
		return Result{State: r.state, Error: msg, Email: form.Email}
	}

	if sess.AccessToken == "" {
		r.to(StateSucceeded)
		return Result{State: r.state, Success: msgConfirmEmail, Email: form.Email}
	}

	r.to(StateRedirecting)
	return Result{State: r.state, Email: form.Email, RedirectTo: afterAuthRedirect(form.Redirect, form.PriceID), Session: sess}
}

// SignOut ends the session and sends the user to the sign-in page. Provider
// errors are logged; the user is signed out locally regardless.
func (a *Actions) SignOut(ctx context.Context, accessToken string) Result {
	r := &run{state: StateIdle}
	r.to(StateValidating)
	r.to(StateCallingProvider)

	if err := a.provider.SignOut(ctx, accessToken); err != nil {
		logrus.WithError(err).Warn("Sign-out failed at provider")
	}

	r.to(StateRedirecting)
	return Result{State: r.state, RedirectTo: SignInPath}
}

// UpdatePassword changes the signed-in user's password.
func (a *Actions) UpdatePassword(ctx context.Context, accessToken string, form UpdatePasswordForm) Result {
	r, failed := a.begin(&form, "")
	if failed != nil {
		return *failed
	}

	if err := a.provider.UpdatePassword(ctx, accessToken, form.NewPassword); err != nil {
		msg := msgUpdateFailed
		switch {
		case errors.Is(err, identity.ErrNoSession):
			msg = msgNoSession
		case errors.Is(err, identity.ErrWeakPassword):
			msg = msgWeakPassword
		default:
			logrus.WithError(err).Warn("Password update failed")
		}
		r.to(StateProviderFailed)
		return Result{State: r.state, Error: msg}
	}

	r.to(StateSucceeded)
	return Result{State: r.state, Success: msgPasswordUpdated}
}

// ResetPassword requests a reset email. The outcome does not reveal whether
// the email has an account; only an unreachable provider is reported.
func (a *Actions) ResetPassword(ctx context.Context, form ResetPasswordForm) Result {
	form.Email = strings.TrimSpace(form.Email)
	r, failed := a.begin(&form, form.Email)
	if failed != nil {
		return *failed
	}

	if err := a.provider.ResetPassword(ctx, form.Email, a.resetURL); err != nil {
		logrus.WithError(err).Warn("Password reset request failed")
		if errors.Is(err, identity.ErrUnavailable) {
			r.to(StateProviderFailed)
			return Result{State: r.state, Error: msgResetFailed, Email: form.Email}
		}
	}

	r.to(StateSucceeded)
	return Result{State: r.state, Success: msgResetSent, Email: form.Email}
}

// ConfirmPasswordReset sets a new password from a reset link.
func (a *Actions) ConfirmPasswordReset(ctx context.Context, form ConfirmResetForm) Result {
	r, failed := a.begin(&form, "")
	if failed != nil {
		return *failed
	}

	if err := a.provider.ConfirmPasswordReset(ctx, form.Token, form.NewPassword); err != nil {
		msg := msgUpdateFailed
		switch {
		case errors.Is(err, identity.ErrInvalidResetToken):
			msg = msgResetInvalid
		case errors.Is(err, identity.ErrWeakPassword):
			msg = msgWeakPassword
		default:
			logrus.WithError(err).Warn("Password reset confirmation failed")
		}
		r.to(StateProviderFailed)
		return Result{State: r.state, Error: msg}
	}

	r.to(StateSucceeded)
	return Result{State: r.state, Success: msgResetDone}
}

// afterAuthRedirect picks where to go after sign-in or sign-up.
func afterAuthRedirect(redirect, priceID string) string {
	if redirect != "checkout" {
		return DashboardPath
	}
	if priceID == "" {
		return PricingPath
	}
	return PricingPath + "?priceId=" + url.QueryEscape(priceID)
}
