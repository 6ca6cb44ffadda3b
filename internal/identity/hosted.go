package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/google/uuid"

	"cloudgather/internal/models"
)

// HostedConfig configures the hosted provider.
type HostedConfig struct {
	URL     string // base URL of the auth service, e.g. https://xyz.example.co/auth/v1
	AnonKey string // sent as the apikey header
	JWKSURL string // when set, access tokens are verified locally
	Issuer  string // expected iss claim; defaults to URL
	Client  *http.Client
}

// Hosted is an identity provider backed by a GoTrue-compatible auth service.
type Hosted struct {
	baseURL  string
	anonKey  string
	client   *http.Client
	verifier *oidc.IDTokenVerifier
}

// NewHosted creates a hosted identity provider.
func NewHosted(ctx context.Context, cfg HostedConfig) (*Hosted, error) {
	if cfg.URL == "" {
		return nil, errors.New("auth service URL is required")
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	h := &Hosted{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		anonKey: cfg.AnonKey,
		client:  client,
	}

	if cfg.JWKSURL != "" {
		issuer := cfg.Issuer
		if issuer == "" {
			issuer = h.baseURL
		}
		keySet := oidc.NewRemoteKeySet(oidc.ClientContext(ctx, client), cfg.JWKSURL)
		h.verifier = oidc.NewVerifier(issuer, keySet, &oidc.Config{
			SkipClientIDCheck:    true,
			SupportedSigningAlgs: []string{oidc.RS256, oidc.ES256},
		})
	}

	return h, nil
}

type hostedUser struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *hostedUser) toUser() *models.User {
	return &models.User{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

type hostedSession struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   int64       `json:"expires_in"`
	User        *hostedUser `json:"user"`
}

// hostedError covers the error shapes the service has used across versions.
type hostedError struct {
	Code             any    `json:"code"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e *hostedError) text() string {
	for _, s := range []string{e.Msg, e.Message, e.ErrorDescription, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// statusError is a non-2xx response from the auth service.
type statusError struct {
	status int
	body   hostedError
}

func (e *statusError) Error() string {
	return fmt.Sprintf("auth service returned %d: %s", e.status, e.body.text())
}

func (h *Hosted) do(ctx context.Context, method, path, accessToken string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if h.anonKey != "" {
		req.Header.Set("apikey", h.anonKey)
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		se := &statusError{status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(&se.body)
		return se
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}
	return nil
}

func (h *Hosted) toSession(s *hostedSession) *models.AuthSession {
	out := &models.AuthSession{AccessToken: s.AccessToken}
	if s.ExpiresIn > 0 {
		out.ExpiresAt = time.Now().Add(time.Duration(s.ExpiresIn) * time.Second)
	}
	if s.User != nil {
		out.User = s.User.toUser()
	}
	return out
}

// SignIn exchanges email and password for a session.
func (h *Hosted) SignIn(ctx context.Context, email, password string) (*models.AuthSession, error) {
	var s hostedSession
	err := h.do(ctx, http.MethodPost, "/token?grant_type=password", "", map[string]string{
		"email":    email,
		"password": password,
	}, &s)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return h.toSession(&s), nil
}

// SignUp registers an identity. When the service requires email
// confirmation the returned session has a user but no access token.
func (h *Hosted) SignUp(ctx context.Context, email, password string) (*models.AuthSession, error) {
	var raw json.RawMessage
	err := h.do(ctx, http.MethodPost, "/signup", "", map[string]string{
		"email":    email,
		"password": password,
	}, &raw)
	if err != nil {
		return nil, mapSignUpError(err)
	}

	var s hostedSession
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: decoding signup: %v", ErrUnavailable, err)
	}
	if s.AccessToken == "" {
		var u hostedUser
		if err := json.Unmarshal(raw, &u); err == nil && u.ID != uuid.Nil {
			s.User = &u
		}
	}
	return h.toSession(&s), nil
}

func mapSignUpError(err error) error {
	var se *statusError
	if !errors.As(err, &se) {
		return err
	}
	code := strings.ToLower(se.body.ErrorCode)
	text := strings.ToLower(se.body.text())
	switch {
	case code == "user_already_exists" || code == "email_exists" || strings.Contains(text, "already registered"):
		return ErrEmailTaken
	case code == "weak_password" || strings.Contains(text, "password should be"):
		return ErrWeakPassword
	}
	return err
}

// SignOut revokes the session on the service.
func (h *Hosted) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	err := h.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil)
	var se *statusError
	if errors.As(err, &se) && (se.status == http.StatusUnauthorized || se.status == http.StatusForbidden || se.status == http.StatusNotFound) {
		return nil
	}
	return err
}

// GetUser resolves an access token. With a JWKS configured the token is
// verified locally; otherwise the service is asked.
func (h *Hosted) GetUser(ctx context.Context, accessToken string) (*models.User, error) {
	if accessToken == "" {
		return nil, nil
	}

	if h.verifier != nil {
		tok, err := h.verifier.Verify(ctx, accessToken)
		if err != nil {
			return nil, nil
		}
		var claims struct {
			Email string `json:"email"`
		}
		if err := tok.Claims(&claims); err != nil {
			return nil, nil
		}
		id, err := uuid.Parse(tok.Subject)
		if err != nil {
			return nil, nil
		}
		return &models.User{ID: id, Email: claims.Email, CreatedAt: tok.IssuedAt}, nil
	}

	var u hostedUser
	if err := h.do(ctx, http.MethodGet, "/user", accessToken, nil, &u); err != nil {
		var se *statusError
		if errors.As(err, &se) {
			return nil, nil
		}
		return nil, err
	}
	return u.toUser(), nil
}

// ResetPassword asks the service to mail a recovery link.
func (h *Hosted) ResetPassword(ctx context.Context, email, redirectTo string) error {
	path := "/recover"
	if redirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(redirectTo)
	}
	err := h.do(ctx, http.MethodPost, path, "", map[string]string{"email": email}, nil)
	var se *statusError
	if errors.As(err, &se) {
		// Rate limits and unknown emails are not reported back to the user.
		return nil
	}
	return err
}

// UpdatePassword changes the password of the session's user.
func (h *Hosted) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	if accessToken == "" {
		return ErrNoSession
	}
	err := h.do(ctx, http.MethodPut, "/user", accessToken, map[string]string{"password": newPassword}, nil)
	var se *statusError
	if errors.As(err, &se) {
		switch se.status {
		case http.StatusUnauthorized, http.StatusForbidden:
			return ErrNoSession
		}
		return mapSignUpError(err)
	}
	return err
}

// ConfirmPasswordReset redeems a recovery token hash for a session and sets
// the new password with it.
func (h *Hosted) ConfirmPasswordReset(ctx context.Context, resetToken, newPassword string) error {
	var s hostedSession
	err := h.do(ctx, http.MethodPost, "/verify", "", map[string]string{
		"type":       "recovery",
		"token_hash": resetToken,
	}, &s)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) {
			return ErrInvalidResetToken
		}
		return err
	}
	if s.AccessToken == "" {
		return ErrInvalidResetToken
	}
	return h.UpdatePassword(ctx, s.AccessToken, newPassword)
}
