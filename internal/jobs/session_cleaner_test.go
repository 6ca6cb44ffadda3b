package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPurger struct {
	calls atomic.Int32
}

func (p *countingPurger) DeleteExpiredSessions(context.Context) (int64, error) {
	p.calls.Add(1)
	return 2, nil
}

func TestSessionCleaner_RunsUntilCancelled(t *testing.T) {
	purger := &countingPurger{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		NewSessionCleaner(purger, 5*time.Millisecond).Start(ctx)
	}()

	require.Eventually(t, func() bool { return purger.calls.Load() >= 2 }, 5*time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleaner did not stop")
	}
	assert.GreaterOrEqual(t, purger.calls.Load(), int32(2))
}
