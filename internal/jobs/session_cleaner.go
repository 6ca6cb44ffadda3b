package jobs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// SessionPurger deletes expired local sessions.
type SessionPurger interface {
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

// SessionCleaner periodically removes expired sessions of the local
// identity provider.
type SessionCleaner struct {
	store    SessionPurger
	interval time.Duration
}

// NewSessionCleaner creates a new session cleaner.
func NewSessionCleaner(store SessionPurger, interval time.Duration) *SessionCleaner {
	return &SessionCleaner{store: store, interval: interval}
}

// Start runs the cleanup loop until ctx is cancelled.
func (c *SessionCleaner) Start(ctx context.Context) {
	logrus.WithField("interval", c.interval).Info("Session cleaner started")

	// Run immediately on start
	c.cleanup(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Session cleaner stopped")
			return
		case <-ticker.C:
			c.cleanup(ctx)
		}
	}
}

func (c *SessionCleaner) cleanup(ctx context.Context) {
	n, err := c.store.DeleteExpiredSessions(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logrus.WithError(err).Error("Session cleaner: failed to delete expired sessions")
		}
		return
	}
	if n > 0 {
		logrus.WithField("count", n).Info("Session cleaner: deleted expired sessions")
	}
}
