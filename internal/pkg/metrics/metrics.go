// Package metrics exposes Prometheus counters for the event-log data path.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ReconstructionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "delivery_reconstructions_total",
			Help: "Total number of delivery aggregate reconstructions",
		},
	)

	EventsSkippedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "delivery_events_skipped_total",
			Help: "Total number of malformed log events skipped during reconstruction",
		},
	)

	EventsPublishedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "delivery_events_published_total",
			Help: "Total number of events published to the log",
		},
	)

	PublishFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "delivery_publish_failures_total",
			Help: "Total number of publishes rejected by every relay",
		},
	)
)

// Register registers all counters with the default Prometheus registry.
// Safe to call once at startup.
func Register() {
	prometheus.MustRegister(
		ReconstructionsTotal,
		EventsSkippedTotal,
		EventsPublishedTotal,
		PublishFailuresTotal,
	)
}
