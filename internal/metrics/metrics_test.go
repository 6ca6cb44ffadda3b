package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cloudgather/internal/models"
)

type fakeSource struct {
	counts   []models.EventCount
	portals  int64
	countErr error
}

func (f *fakeSource) GetEventCounts(context.Context) ([]models.EventCount, error) {
	return f.counts, f.countErr
}

func (f *fakeSource) CountPortals(context.Context) (int64, error) {
	return f.portals, nil
}

// gather registers a collector over src and returns the scraped values keyed
// by metric name and label values.
func gather(t *testing.T, src Source) map[string]float64 {
	t.Helper()
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(NewEventCollector(src)))

	families, err := reg.Gather()
	require.NoError(t, err)

	out := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, lp := range m.GetLabel() {
				key += "|" + lp.GetName() + "=" + lp.GetValue()
			}
			switch {
			case m.GetCounter() != nil:
				out[key] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				out[key] = m.GetGauge().GetValue()
			}
		}
	}
	return out
}

func TestEventCollector(t *testing.T) {
	src := &fakeSource{
		counts: []models.EventCount{
			{Slug: "acme-launch", EventType: models.EventScan, Count: 2},
			{Slug: "acme-launch", EventType: models.EventVisit, Count: 1},
		},
		portals: 3,
	}

	got := gather(t, src)
	assert.Equal(t, map[string]float64{
		"cloudgather_portal_events_total|event_type=scan|slug=acme-launch":  2,
		"cloudgather_portal_events_total|event_type=visit|slug=acme-launch": 1,
		"cloudgather_portals": 3,
	}, got)
}

func TestEventCollector_CountErrorStillReportsGauge(t *testing.T) {
	src := &fakeSource{countErr: errors.New("db down"), portals: 1}

	got := gather(t, src)
	assert.Equal(t, map[string]float64{"cloudgather_portals": 1}, got)
}
