package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Collection metrics
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clarotrack_relay_events_total",
			Help: "Total number of collect calls by result",
		},
		[]string{"status"},
	)

	EventBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clarotrack_relay_event_bytes_total",
			Help: "Total bytes of event data received",
		},
	)

	// Forwarding metrics
	RulesMatched = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "clarotrack_relay_rules_matched",
			Help:    "Number of forwarding rules matched per event",
			Buckets: []float64{0, 1, 2, 3, 5, 10},
		},
	)

	ForwardsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clarotrack_relay_forwards_total",
			Help: "Total number of outbound sink sends by outcome",
		},
		[]string{"outcome"},
	)

	SinkDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "clarotrack_relay_sink_duration_seconds",
			Help:    "Duration of outbound sink calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Storage metrics
	StorageErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clarotrack_relay_storage_errors_total",
			Help: "Total number of raw event persistence failures",
		},
	)

	// Rate limiting metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clarotrack_relay_rate_limit_hits_total",
			Help: "Total number of rate limit hits",
		},
		[]string{"key"},
	)
)
