// Package metrics provides Prometheus metrics for the medikeep API: HTTP
// request counters plus domain metrics for the alert engine (evaluation
// runs, dropped runs, alerts generated per kind, persistence failures).
// All metrics are registered with the default registry at package init.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	EvaluationRuns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "alert_evaluation_runs_total",
			Help: "Completed alert evaluation runs",
		},
	)

	EvaluationsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "alert_evaluation_dropped_total",
			Help: "Evaluation requests dropped because one was already running",
		},
	)

	AlertsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alerts_generated_total",
			Help: "Alerts generated, by alert type",
		},
		[]string{"type"},
	)

	PersistenceFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persistence_failures_total",
			Help: "Key-value store operations that failed, by operation",
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(EvaluationRuns)
	prometheus.MustRegister(EvaluationsDropped)
	prometheus.MustRegister(AlertsGenerated)
	prometheus.MustRegister(PersistenceFailures)
}
