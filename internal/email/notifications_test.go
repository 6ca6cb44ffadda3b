package email

import (
	"testing"
	"time"

	"cloudgather/internal/config"
)

func TestNewNotifier(t *testing.T) {
	cfg := testConfig()

	n := NewNotifier(cfg)
	if n.service == nil || n.templates == nil {
		t.Fatal("NewNotifier should wire a service and templates")
	}
	if n.cfg != cfg {
		t.Error("Notifier config not set correctly")
	}
}

func TestNotifier_Disabled(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		t.Run(env, func(t *testing.T) {
			n := NewNotifier(&config.Config{Env: env, SMTPEnabled: false})

			// Should not panic or send when disabled
			n.NotifyPasswordReset("user@example.com", "https://app.example.com/reset", time.Hour)
			n.NotifyPasswordChanged("user@example.com")
		})
	}
}
