// Package metrics exposes pup's self-instrumentation through Prometheus:
// tool invocation counts and Datadog API request counts and durations.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PupMetrics wraps the Prometheus collectors for the pup server.
type PupMetrics struct {
	registry *prometheus.Registry

	toolInvocationsTotal *prometheus.CounterVec
	toolDuration         *prometheus.HistogramVec
	apiRequestsTotal     *prometheus.CounterVec
	apiRequestDuration   *prometheus.HistogramVec
}

// Buckets for request/invocation durations in seconds.
var defaultBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

var (
	pm   *PupMetrics
	once sync.Once
)

// Init initializes the metrics subsystem. Safe to call more than once.
func Init(namespace string) {
	once.Do(func() {
		registry := prometheus.NewRegistry()
		registry.MustRegister(prometheus.NewGoCollector())
		registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

		pm = &PupMetrics{
			registry: registry,

			toolInvocationsTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: namespace,
					Name:      "tool_invocations_total",
					Help:      "Total number of MCP tool invocations",
				},
				[]string{"tool", "outcome"},
			),

			toolDuration: prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Namespace: namespace,
					Name:      "tool_duration_seconds",
					Help:      "Duration of MCP tool invocations in seconds",
					Buckets:   defaultBuckets,
				},
				[]string{"tool"},
			),

			apiRequestsTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: namespace,
					Name:      "api_requests_total",
					Help:      "Total number of Datadog API requests",
				},
				[]string{"method", "status"},
			),

			apiRequestDuration: prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Namespace: namespace,
					Name:      "api_request_duration_seconds",
					Help:      "Duration of Datadog API requests in seconds",
					Buckets:   defaultBuckets,
				},
				[]string{"method"},
			),
		}

		registry.MustRegister(
			pm.toolInvocationsTotal,
			pm.toolDuration,
			pm.apiRequestsTotal,
			pm.apiRequestDuration,
		)
	})
}

// RecordToolInvocation records one tool call with its outcome ("ok" or
// "error") and duration.
func RecordToolInvocation(tool, outcome string, d time.Duration) {
	if pm == nil {
		return
	}
	pm.toolInvocationsTotal.WithLabelValues(tool, outcome).Inc()
	pm.toolDuration.WithLabelValues(tool).Observe(d.Seconds())
}

// RecordAPIRequest records one outbound Datadog API request. status is the
// HTTP status code, or 0 when the request failed before a response arrived.
func RecordAPIRequest(method string, status int, d time.Duration) {
	if pm == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	pm.apiRequestsTotal.WithLabelValues(method, label).Inc()
	pm.apiRequestDuration.WithLabelValues(method).Observe(d.Seconds())
}

// Handler returns the Prometheus scrape handler for the pup registry.
func Handler() http.Handler {
	if pm == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(pm.registry, promhttp.HandlerOpts{})
}
