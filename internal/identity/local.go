package identity

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"cloudgather/internal/db"
	"cloudgather/internal/models"
)

const resetAudience = "password-reset"

// Store is the persistence the local provider needs. *db.DB implements it.
type Store interface {
	CreateIdentity(ctx context.Context, email, passwordHash string) (*models.Identity, error)
	GetIdentityByEmail(ctx context.Context, email string) (*models.Identity, error)
	GetIdentityByID(ctx context.Context, id uuid.UUID) (*models.Identity, error)
	UpdateIdentityPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	CreateSession(ctx context.Context, identityID uuid.UUID, tokenHash string, expiresAt time.Time) (*models.StoredSession, error)
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (*models.StoredSession, error)
	DeleteSession(ctx context.Context, tokenHash string) error
	DeleteSessionsForIdentity(ctx context.Context, identityID uuid.UUID) error
}

// Mailer delivers account emails. *email.Notifier implements it.
type Mailer interface {
	NotifyPasswordReset(to, resetURL string, ttl time.Duration)
	NotifyPasswordChanged(to string)
}

// LocalConfig configures the local provider.
type LocalConfig struct {
	SessionTTL  time.Duration
	ResetSecret []byte
	ResetTTL    time.Duration
	ResetURL    string // default link target for reset emails
	BcryptCost  int    // zero means bcrypt.DefaultCost
}

// Local is an identity provider backed by the application database.
// Passwords are bcrypt hashed, access tokens are random and stored only as
// sha256 hashes, reset links carry a short-lived HS256 token.
type Local struct {
	store  Store
	mailer Mailer
	cfg    LocalConfig
	now    func() time.Time

	// dummyHash is compared against when the email is unknown so that
	// unknown-email and wrong-password sign-ins cost the same.
	dummyHash []byte
}

// NewLocal creates a local identity provider.
func NewLocal(store Store, mailer Mailer, cfg LocalConfig) (*Local, error) {
	if len(cfg.ResetSecret) == 0 {
		return nil, errors.New("reset token secret is required")
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 7 * 24 * time.Hour
	}
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = time.Hour
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("cloudgather-dummy-password"), cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}

	return &Local{
		store:     store,
		mailer:    mailer,
		cfg:       cfg,
		now:       time.Now,
		dummyHash: dummy,
	}, nil
}

// SignIn verifies credentials and issues a session.
func (l *Local) SignIn(ctx context.Context, email, password string) (*models.AuthSession, error) {
	ident, err := l.store.GetIdentityByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, db.ErrIdentityNotFound) {
			bcrypt.CompareHashAndPassword(l.dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// SSO-only identities have no password and cannot sign in with one.
	hash := []byte(ident.PasswordHash)
	if len(hash) == 0 {
		hash = l.dummyHash
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil || ident.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}

	return l.issueSession(ctx, ident)
}

// SignUp creates an identity and signs it in. The database provisions the
// new identity's organization and admin membership.
func (l *Local) SignUp(ctx context.Context, email, password string) (*models.AuthSession, error) {
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), l.cfg.BcryptCost)
	if err != nil {
		// bcrypt rejects passwords longer than 72 bytes
		return nil, ErrWeakPassword
	}

	ident, err := l.store.CreateIdentity(ctx, strings.TrimSpace(email), string(hash))
	if err != nil {
		if errors.Is(err, db.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return l.issueSession(ctx, ident)
}

// SignInExternal signs in an identity verified by an external party (SSO),
// creating it on first sight.
func (l *Local) SignInExternal(ctx context.Context, email string) (*models.AuthSession, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrInvalidCredentials
	}

	ident, err := l.store.GetIdentityByEmail(ctx, email)
	if errors.Is(err, db.ErrIdentityNotFound) {
		ident, err = l.store.CreateIdentity(ctx, email, "")
		if errors.Is(err, db.ErrEmailTaken) {
			// created concurrently
			ident, err = l.store.GetIdentityByEmail(ctx, email)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return l.issueSession(ctx, ident)
}

// SignOut revokes the session. Unknown tokens are ignored.
func (l *Local) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	return l.store.DeleteSession(ctx, hashToken(accessToken))
}

// GetUser resolves an access token to its user.
func (l *Local) GetUser(ctx context.Context, accessToken string) (*models.User, error) {
	ident, err := l.identityForToken(ctx, accessToken)
	if err != nil || ident == nil {
		return nil, err
	}
	return ident.User(), nil
}

// ResetPassword mails a reset link when the email belongs to an identity.
// Unknown emails succeed silently.
func (l *Local) ResetPassword(ctx context.Context, email, redirectTo string) error {
	ident, err := l.store.GetIdentityByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, db.ErrIdentityNotFound) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	token, err := l.resetToken(ident)
	if err != nil {
		return err
	}

	target := redirectTo
	if target == "" {
		target = l.cfg.ResetURL
	}
	link, err := withQuery(target, "token", token)
	if err != nil {
		return err
	}

	l.mailer.NotifyPasswordReset(ident.Email, link, l.cfg.ResetTTL)
	logrus.WithField("identity_id", ident.ID).Info("Password reset requested")
	return nil
}

// UpdatePassword changes the password of the session's identity.
func (l *Local) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	ident, err := l.identityForToken(ctx, accessToken)
	if err != nil {
		return err
	}
	if ident == nil {
		return ErrNoSession
	}
	if err := l.setPassword(ctx, ident, newPassword); err != nil {
		return err
	}
	l.mailer.NotifyPasswordChanged(ident.Email)
	return nil
}

// ConfirmPasswordReset sets a new password using a mailed reset token and
// signs the identity out of every session. A token stops working once the
// password it was issued for has changed.
func (l *Local) ConfirmPasswordReset(ctx context.Context, resetToken, newPassword string) error {
	claims := &resetClaims{}
	_, err := jwt.ParseWithClaims(resetToken, claims, func(*jwt.Token) (any, error) {
		return l.cfg.ResetSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(resetAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(l.now),
	)
	if err != nil {
		return ErrInvalidResetToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ErrInvalidResetToken
	}
	ident, err := l.store.GetIdentityByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrIdentityNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if claims.Fingerprint != passwordFingerprint(ident.PasswordHash) {
		return ErrInvalidResetToken
	}

	if err := l.setPassword(ctx, ident, newPassword); err != nil {
		return err
	}
	if err := l.store.DeleteSessionsForIdentity(ctx, ident.ID); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	l.mailer.NotifyPasswordChanged(ident.Email)
	return nil
}

func (l *Local) identityForToken(ctx context.Context, accessToken string) (*models.Identity, error) {
	if accessToken == "" {
		return nil, nil
	}

	sess, err := l.store.GetSessionByTokenHash(ctx, hashToken(accessToken))
	if err != nil {
		if errors.Is(err, db.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if sess.Expired(l.now()) {
		if err := l.store.DeleteSession(ctx, sess.TokenHash); err != nil {
			logrus.WithError(err).Warn("Failed to delete expired session")
		}
		return nil, nil
	}

	ident, err := l.store.GetIdentityByID(ctx, sess.IdentityID)
	if err != nil {
		if errors.Is(err, db.ErrIdentityNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return ident, nil
}

func (l *Local) setPassword(ctx context.Context, ident *models.Identity, password string) error {
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), l.cfg.BcryptCost)
	if err != nil {
		return ErrWeakPassword
	}
	if err := l.store.UpdateIdentityPassword(ctx, ident.ID, string(hash)); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (l *Local) issueSession(ctx context.Context, ident *models.Identity) (*models.AuthSession, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(buf)
	expiresAt := l.now().Add(l.cfg.SessionTTL)

	if _, err := l.store.CreateSession(ctx, ident.ID, hashToken(token), expiresAt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &models.AuthSession{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        ident.User(),
	}, nil
}

type resetClaims struct {
	Fingerprint string `json:"pfp"`
	jwt.RegisteredClaims
}

func (l *Local) resetToken(ident *models.Identity) (string, error) {
	now := l.now()
	claims := resetClaims{
		Fingerprint: passwordFingerprint(ident.PasswordHash),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ident.ID.String(),
			Audience:  jwt.ClaimStrings{resetAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(l.cfg.ResetTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(l.cfg.ResetSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign reset token: %w", err)
	}
	return signed, nil
}

// passwordFingerprint ties a reset token to the password hash it was issued against.
func passwordFingerprint(passwordHash string) string {
	sum := sha256.Sum256([]byte(passwordHash))
	return hex.EncodeToString(sum[:8])
}

func withQuery(target, key, value string) (string, error) {
	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("invalid reset URL: %w", err)
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
