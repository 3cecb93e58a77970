package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
		[]string{"service"},
	)

	// Business metrics
	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_registrations_total",
			Help: "Total number of registration attempts",
		},
		[]string{"service", "outcome"},
	)

	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Total number of login attempts",
		},
		[]string{"service", "outcome"},
	)

	TokenValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_token_validation_failures_total",
			Help: "Token validations rejected by the authentication gate",
		},
		[]string{"service", "reason"},
	)

	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_events_published_total",
			Help: "User-created events published to the message broker",
		},
		[]string{"service", "outcome"},
	)
)

// Outcome / reason label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"

	ReasonMalformed      = "malformed"
	ReasonExpired        = "expired"
	ReasonUnknownSubject = "unknown_subject"
)

// RecordHTTPMetrics records the standard per-request counters and histogram.
func RecordHTTPMetrics(service, method, path string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	HttpRequestsTotal.WithLabelValues(service, method, path, code).Inc()
	HttpRequestDuration.WithLabelValues(service, method, path, code).Observe(duration.Seconds())
}
