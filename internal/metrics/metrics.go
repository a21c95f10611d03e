// Package metrics holds the Prometheus instruments shared by the chart
// renderers, the fetch pipeline and the dashboard aggregator.
//
// Instruments are registered on the default registry at package init and
// exposed by the serve command on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Chart Metrics
	ChartRenders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourviz_chart_renders_total",
			Help: "Total number of chart renders",
		},
		[]string{"kind", "state"}, // state: "drawn", "empty"
	)

	// Fetch Pipeline Metrics
	FetchAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourviz_fetch_attempts_total",
			Help: "Total number of fetch attempts by outcome",
		},
		[]string{"outcome"}, // "success", "retryable", "fatal"
	)

	FetchResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourviz_fetch_results_total",
			Help: "Total number of completed fetch invocations by terminal classification",
		},
		[]string{"result"}, // "success", "timeout", "network", "access_denied", ...
	)

	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tourviz_fetch_duration_seconds",
			Help:    "Duration of fetch invocations including retries and backoff",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tourviz_circuit_breaker_state",
			Help: "Circuit breaker state per endpoint (0=closed, 1=half-open, 2=open)",
		},
		[]string{"endpoint"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourviz_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"endpoint", "from", "to"},
	)

	// Dashboard Metrics
	DashboardRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourviz_dashboard_refreshes_total",
			Help: "Total number of dashboard refreshes by result",
		},
		[]string{"result"}, // "success", "error", "superseded", "canceled"
	)
)
