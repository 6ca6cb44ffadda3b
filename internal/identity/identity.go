// Package identity adapts an identity provider (local or hosted) to the
// operations the application needs: sign-in, sign-up, sign-out, session
// lookup and password management.
package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"cloudgather/internal/models"
)

var (
	// ErrInvalidCredentials is returned for any sign-in failure caused by the
	// credentials themselves. It does not reveal whether the email exists.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password does not meet requirements")
	ErrNoSession          = errors.New("no active session")
	ErrInvalidResetToken  = errors.New("reset link is invalid or has expired")
	// ErrUnavailable wraps transport and storage failures of the provider.
	ErrUnavailable = errors.New("identity provider unavailable")
)

// MinPasswordLength is the shortest password any provider accepts.
const MinPasswordLength = 8

// Provider is the identity provider contract.
//
// GetUser returns (nil, nil) when the token is empty, unknown or expired;
// absence of a session is not an error.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*models.AuthSession, error)
	SignUp(ctx context.Context, email, password string) (*models.AuthSession, error)
	SignOut(ctx context.Context, accessToken string) error
	GetUser(ctx context.Context, accessToken string) (*models.User, error)
	ResetPassword(ctx context.Context, email, redirectTo string) error
	UpdatePassword(ctx context.Context, accessToken, newPassword string) error
	ConfirmPasswordReset(ctx context.Context, resetToken, newPassword string) error
}

// hashToken returns the hex sha256 of an access token, the form in which
// tokens are stored.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
