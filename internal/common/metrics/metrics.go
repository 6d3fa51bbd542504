// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LookupRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registration_lookup_requests_total",
			Help: "Total number of reference-data lookups by operation and outcome",
		},
		[]string{"operation", "status"},
	)

	LookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "registration_lookup_duration_seconds",
			Help:    "Duration of reference-data lookups in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	CacheResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registration_lookup_cache_total",
			Help: "Reference cache hits and misses by operation",
		},
		[]string{"operation", "result"},
	)

	StaleResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registration_cascade_stale_responses_total",
			Help: "Option list responses discarded because the parent selection changed",
		},
		[]string{"field"},
	)

	StepTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registration_wizard_transitions_total",
			Help: "Wizard step transitions",
		},
		[]string{"from", "to"},
	)

	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registration_validation_failures_total",
			Help: "Field validation failures by field and code",
		},
		[]string{"field", "code"},
	)

	Registrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registration_submissions_total",
			Help: "Registration submissions by outcome",
		},
		[]string{"status"},
	)
)
