package jobs

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"cloudgather/internal/models"
)

// FetchLatest returns the newest event of a portal, or nil when it has none.
type FetchLatest func(ctx context.Context) (*models.PortalEvent, error)

// LivePoller periodically fetches a portal's most recent event and emits it
// when it changes. A tick that arrives while a fetch is still running is
// skipped, so fetches never overlap.
type LivePoller struct {
	interval time.Duration
	fetch    FetchLatest
	stop     func(error) bool

	inFlight atomic.Bool
	skipped  atomic.Int64
}

// NewLivePoller creates a poller that calls fetch every interval.
func NewLivePoller(interval time.Duration, fetch FetchLatest) *LivePoller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &LivePoller{interval: interval, fetch: fetch}
}

// StopOn makes Run return when a fetch fails with an error for which stop
// reports true. Other fetch errors are logged and polling continues.
func (p *LivePoller) StopOn(stop func(error) bool) *LivePoller {
	p.stop = stop
	return p
}

// Skipped returns how many ticks were dropped because a fetch was running.
func (p *LivePoller) Skipped() int64 {
	return p.skipped.Load()
}

// Run polls until ctx is cancelled or a fetch fails with a stopping error,
// which it returns. emit is called from the polling goroutines, one call at a
// time, with each newly seen event.
func (p *LivePoller) Run(ctx context.Context, emit func(*models.PortalEvent)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu      sync.Mutex
		lastID  uuid.UUID
		wg      sync.WaitGroup
		stopErr error
	)

	poll := func() {
		defer wg.Done()
		defer p.inFlight.Store(false)

		ev, err := p.fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if p.stop != nil && p.stop(err) {
				mu.Lock()
				if stopErr == nil {
					stopErr = err
				}
				mu.Unlock()
				cancel()
				return
			}
			logrus.WithError(err).Warn("Live poller: fetch failed")
			return
		}
		if ev == nil || ctx.Err() != nil {
			return
		}

		mu.Lock()
		defer mu.Unlock()
		if ev.ID == lastID {
			return
		}
		lastID = ev.ID
		emit(ev)
	}

	start := func() {
		if !p.inFlight.CompareAndSwap(false, true) {
			p.skipped.Add(1)
			return
		}
		wg.Add(1)
		go poll()
	}

	// Fetch immediately so a new subscriber sees the current state.
	start()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			mu.Lock()
			defer mu.Unlock()
			return stopErr
		case <-ticker.C:
			start()
		}
	}
}
