// Package metrics holds the Prometheus instruments shared across the web
// tier.  Collectors register with the global registry, so importing this
// package from cmd/web is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	FormSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_submissions_total",
			Help: "Form submit attempts by form and outcome (invalid, failed, succeeded).",
		},
		[]string{"form", "outcome"},
	)

	FormValidationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_validation_failures_total",
			Help: "Field-level validation failures by form and field.",
		},
		[]string{"form", "field"},
	)

	BackendRequestSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_request_seconds",
			Help:    "Latency of calls to the ordering backend.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "status"},
	)

	SessionLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_lookups_total",
			Help: "Staff session lookups by result (hit, miss, expired).",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		FormSubmissions,
		FormValidationFailures,
		BackendRequestSeconds,
		SessionLookups,
	)
}
