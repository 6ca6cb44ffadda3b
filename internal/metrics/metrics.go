package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"cloudgather/internal/models"
)

var (
	portalEventsDesc = prometheus.NewDesc(
		"cloudgather_portal_events_total",
		"Total portal events by portal slug and event type",
		[]string{"slug", "event_type"},
		nil,
	)
	portalsDesc = prometheus.NewDesc(
		"cloudgather_portals",
		"Number of portals across all organizations",
		nil,
		nil,
	)
)

// collectTimeout bounds the database reads of a single scrape.
const collectTimeout = 5 * time.Second

// Source is the read access the collector needs.
type Source interface {
	GetEventCounts(ctx context.Context) ([]models.EventCount, error)
	CountPortals(ctx context.Context) (int64, error)
}

// EventCollector is a custom Prometheus collector that reads portal event
// counts from the database on each scrape.
type EventCollector struct {
	src Source
}

// NewEventCollector creates a collector over src.
func NewEventCollector(src Source) *EventCollector {
	return &EventCollector{src: src}
}

// Describe sends the metric descriptors to the channel.
func (c *EventCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- portalEventsDesc
	ch <- portalsDesc
}

// Collect queries the database and emits the counters and the portal gauge.
func (c *EventCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), collectTimeout)
	defer cancel()

	counts, err := c.src.GetEventCounts(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to collect portal event metrics")
	} else {
		for _, ec := range counts {
			ch <- prometheus.MustNewConstMetric(
				portalEventsDesc,
				prometheus.CounterValue,
				float64(ec.Count),
				ec.Slug,
				ec.EventType,
			)
		}
	}

	n, err := c.src.CountPortals(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to collect portal count")
		return
	}
	ch <- prometheus.MustNewConstMetric(portalsDesc, prometheus.GaugeValue, float64(n))
}

var initOnce sync.Once

// Init registers the collector with the default registry.
// Must be called once at startup.
func Init(src Source) {
	initOnce.Do(func() {
		prometheus.MustRegister(NewEventCollector(src))
	})
}
