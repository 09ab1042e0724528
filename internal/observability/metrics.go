// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Engagement provider metrics
	ProviderFetchLatency *prometheus.HistogramVec
	ProviderFetchErrors  *prometheus.CounterVec

	// Comparison metrics
	ComparisonsTotal *prometheus.CounterVec

	// Event metrics
	EventsCreated     prometheus.Counter
	EventLinkFailures *prometheus.CounterVec

	// HTTP metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Health metrics
	StartTime prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered on reg.
// A nil reg registers on the default Prometheus registry.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "engagement_dashboard"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		ProviderFetchLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "fetch_latency_seconds",
			Help:      "Engagement aggregate fetch latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"subject_kind"}),
		ProviderFetchErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "fetch_errors_total",
			Help:      "Total number of failed engagement aggregate fetches by side",
		}, []string{"subject_kind", "side"}),

		ComparisonsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "comparison",
			Name:      "total",
			Help:      "Total number of period comparisons by outcome",
		}, []string{"outcome"}),

		EventsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "created_total",
			Help:      "Total number of events created",
		}),
		EventLinkFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "link_failures_total",
			Help:      "Total number of event link failures by target",
		}, []string{"target"}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		StartTime: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "start_time_seconds",
			Help:      "Unix timestamp of process start",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("", nil)

// Comparison outcomes.
const (
	OutcomeComplete = "complete" // both snapshots present
	OutcomePartial  = "partial"  // one side absent
	OutcomeEmpty    = "empty"    // both sides absent
	OutcomeNotReady = "not_ready"
	OutcomeInvalid  = "invalid"
)

// RecordProviderFetch records one aggregate fetch.
func (m *Metrics) RecordProviderFetch(subjectKind, side string, elapsed time.Duration, err error) {
	m.ProviderFetchLatency.WithLabelValues(subjectKind).Observe(elapsed.Seconds())
	if err != nil {
		m.ProviderFetchErrors.WithLabelValues(subjectKind, side).Inc()
	}
}

// RecordComparison increments the comparison counter for outcome.
func (m *Metrics) RecordComparison(outcome string) {
	m.ComparisonsTotal.WithLabelValues(outcome).Inc()
}

// RecordEventCreated records a created event and its failed link groups.
func (m *Metrics) RecordEventCreated(failedTargets ...string) {
	m.EventsCreated.Inc()
	for _, target := range failedTargets {
		m.EventLinkFailures.WithLabelValues(target).Inc()
	}
}

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, route, status string, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// MarkStarted sets the start time gauge.
func (m *Metrics) MarkStarted(now time.Time) {
	m.StartTime.Set(float64(now.Unix()))
}
