package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/sirupsen/logrus"

	"cloudgather/internal/identity"
	"cloudgather/internal/models"
)

// Session and locals keys.
const (
	SessionTokenKey = "access_token"
	userLocalsKey   = "user"
)

// SignInPath is where unauthenticated page requests are sent.
const SignInPath = "/sign-in"

// AuthMiddleware resolves the calling user from the session (or a bearer
// token) through the identity provider.
type AuthMiddleware struct {
	provider identity.Provider
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(provider identity.Provider) *AuthMiddleware {
	return &AuthMiddleware{provider: provider}
}

// AccessToken returns the caller's access token: the session value, or an
// Authorization bearer token for API clients.
func AccessToken(c fiber.Ctx) string {
	if sess := session.FromContext(c); sess != nil {
		if tok, ok := sess.Get(SessionTokenKey).(string); ok && tok != "" {
			return tok
		}
	}
	if auth := c.Get(fiber.HeaderAuthorization); len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

// CurrentUser returns the user resolved for this request, or nil.
func CurrentUser(c fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalsKey).(*models.User)
	return user
}

// WantsJSON reports whether the request is an API call rather than a page load.
func WantsJSON(c fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), "/api/") || c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON
}

func (m *AuthMiddleware) resolve(c fiber.Ctx) (*models.User, error) {
	token := AccessToken(c)
	if token == "" {
		return nil, nil
	}

	user, err := m.provider.GetUser(c.Context(), token)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Stale token: forget it so later requests skip the lookup.
		if sess := session.FromContext(c); sess != nil {
			sess.Delete(SessionTokenKey)
		}
	}
	return user, nil
}

// RequireAuth ensures the user is authenticated. Pages redirect to the
// sign-in page; API calls get a 401.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	user, err := m.resolve(c)
	if err != nil {
		logrus.WithError(err).Warn("Failed to resolve session")
		if errors.Is(err, identity.ErrUnavailable) {
			return fiber.NewError(fiber.StatusServiceUnavailable, "identity provider unavailable")
		}
		return err
	}

	if user == nil {
		if WantsJSON(c) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status": "error",
				"error":  "authentication required",
			})
		}
		return c.Redirect().Status(fiber.StatusSeeOther).To(SignInPath)
	}

	c.Locals(userLocalsKey, user)
	return c.Next()
}

// OptionalAuth loads the user if authenticated, but doesn't require authentication.
func (m *AuthMiddleware) OptionalAuth(c fiber.Ctx) error {
	user, err := m.resolve(c)
	if err != nil {
		logrus.WithError(err).Warn("Failed to resolve session")
	}
	if user != nil {
		c.Locals(userLocalsKey, user)
	}
	return c.Next()
}
