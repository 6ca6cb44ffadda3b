package actions

import "cloudgather/internal/models"

// Result is what an action hands back to the form that invoked it.
// Secrets are never echoed; only the email is.
type Result struct {
	State       State             `json:"state"`
	Error       string            `json:"error,omitempty"`
	Success     string            `json:"success,omitempty"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
	Email       string            `json:"email,omitempty"`
	RedirectTo  string            `json:"redirectTo,omitempty"`

	// Session is set after a successful sign-in or sign-up with an
	// immediately usable session. It is never serialized.
	Session *models.AuthSession `json:"-"`
}

// OK reports whether the action completed without error.
func (r Result) OK() bool {
	return r.State == StateSucceeded || r.State == StateRedirecting
}
