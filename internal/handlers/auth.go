package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"cloudgather/internal/actions"
	"cloudgather/internal/config"
	"cloudgather/internal/models"
)

// ExternalSignIn issues a session for an identity verified elsewhere.
type ExternalSignIn interface {
	SignInExternal(ctx context.Context, email string) (*models.AuthSession, error)
}

// SSOHandler handles OIDC single sign-on for the local identity provider.
type SSOHandler struct {
	provider     *oidc.Provider
	oauth2Config oauth2.Config
	verifier     *oidc.IDTokenVerifier
	identities   ExternalSignIn
	cfg          *config.Config
}

// NewSSOHandler creates a new SSO handler with OIDC configuration.
func NewSSOHandler(ctx context.Context, cfg *config.Config, identities ExternalSignIn) (*SSOHandler, error) {
	provider, err := oidc.NewProvider(ctx, cfg.OIDCIssuer)
	if err != nil {
		return nil, err
	}

	oauth2Config := oauth2.Config{
		ClientID:     cfg.OIDCClientID,
		ClientSecret: cfg.OIDCClientSecret,
		RedirectURL:  cfg.OIDCRedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}

	verifier := provider.Verifier(&oidc.Config{ClientID: cfg.OIDCClientID})

	return &SSOHandler{
		provider:     provider,
		oauth2Config: oauth2Config,
		verifier:     verifier,
		identities:   identities,
		cfg:          cfg,
	}, nil
}

// Login initiates the OIDC login flow.
func (h *SSOHandler) Login(c fiber.Ctx) error {
	state := generateState()

	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}
	sess.Set("oauth_state", state)

	return c.Redirect().To(h.oauth2Config.AuthCodeURL(state))
}

// Callback handles the OIDC callback and signs the user in by verified email.
func (h *SSOHandler) Callback(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}

	// Verify state
	savedState, _ := sess.Get("oauth_state").(string)
	if savedState == "" || savedState != c.Query("state") {
		return fiber.NewError(fiber.StatusBadRequest, "invalid state")
	}
	sess.Delete("oauth_state")

	oauth2Token, err := h.oauth2Config.Exchange(c.Context(), c.Query("code"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to exchange code")
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "missing id_token")
	}

	idToken, err := h.verifier.Verify(c.Context(), rawIDToken)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id_token")
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified *bool  `json:"email_verified"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return err
	}

	// Some providers only put the email in userinfo.
	if claims.Email == "" {
		userInfo, err := h.provider.UserInfo(c.Context(), oauth2.StaticTokenSource(oauth2Token))
		if err != nil {
			logrus.WithError(err).Warn("Failed to fetch userinfo")
		} else {
			claims.Email = userInfo.Email
			verified := userInfo.EmailVerified
			claims.EmailVerified = &verified
		}
	}

	if claims.Email == "" || (claims.EmailVerified != nil && !*claims.EmailVerified) {
		return fiber.NewError(fiber.StatusForbidden, "a verified email is required")
	}

	auth, err := h.identities.SignInExternal(c.Context(), claims.Email)
	if err != nil {
		logrus.WithError(err).Error("SSO sign-in failed")
		return fiber.NewError(fiber.StatusServiceUnavailable, "sign-in failed")
	}
	if err := startSession(c, auth); err != nil {
		return err
	}

	return c.Redirect().To(actions.DashboardPath)
}

func generateState() string {
	b := make([]byte, 16)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
