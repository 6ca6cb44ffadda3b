package email

import (
	"time"

	"github.com/sirupsen/logrus"

	"cloudgather/internal/config"
)

// Notifier sends account emails for the local identity provider.
type Notifier struct {
	service   *Service
	templates *Templates
	cfg       *config.Config
}

// NewNotifier creates a new email notifier.
func NewNotifier(cfg *config.Config) *Notifier {
	return &Notifier{
		service:   NewService(cfg),
		templates: NewTemplates(cfg),
		cfg:       cfg,
	}
}

// NotifyPasswordReset mails a reset link. With email disabled in development
// the link is logged instead so the flow can still be completed.
func (n *Notifier) NotifyPasswordReset(to, resetURL string, ttl time.Duration) {
	if !n.service.IsEnabled() {
		if n.cfg.IsDev() {
			logrus.WithField("email", to).WithField("url", resetURL).Info("Password reset link (email disabled)")
		}
		return
	}

	subject, htmlBody, textBody := n.templates.PasswordReset(resetURL, ttl)
	n.service.SendAsync([]string{to}, subject, htmlBody, textBody)
}

// NotifyPasswordChanged confirms a completed password change.
func (n *Notifier) NotifyPasswordChanged(to string) {
	if !n.service.IsEnabled() {
		return
	}

	subject, htmlBody, textBody := n.templates.PasswordChanged()
	n.service.SendAsync([]string{to}, subject, htmlBody, textBody)
}
