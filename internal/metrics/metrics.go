package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mockstream/pkg/netsim"
)

// Metrics holds the Prometheus collectors for the mock streaming
// server. These are operational metrics about the simulator itself,
// served from a dedicated listener; they are unrelated to the
// simulated /metrics endpoint that test callers consume.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	impairmentFailures *prometheus.CounterVec
	simulatedDelay     prometheus.Histogram
	conditionChanges   prometheus.Counter
}

// New creates and registers the Prometheus collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mockstream_requests_total",
		Help: "Total number of HTTP requests received, by method, path and status",
	}, []string{"method", "path", "status"})

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mockstream_request_duration_seconds",
		Help:    "HTTP request duration including simulated delay",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	impairmentFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mockstream_impairment_failures_total",
		Help: "Total number of simulated packet-loss failures, by endpoint category and status",
	}, []string{"category", "status"})

	simulatedDelay := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "mockstream_simulated_delay_seconds",
		Help:    "Simulated network delay applied to passing requests",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, .75, 1},
	})

	conditionChanges := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mockstream_condition_changes_total",
		Help: "Total number of network condition changes via the control API",
	})

	registry.MustRegister(
		requestsTotal,
		requestDuration,
		impairmentFailures,
		simulatedDelay,
		conditionChanges,
	)

	return &Metrics{
		registry:           registry,
		requestsTotal:      requestsTotal,
		requestDuration:    requestDuration,
		impairmentFailures: impairmentFailures,
		simulatedDelay:     simulatedDelay,
		conditionChanges:   conditionChanges,
	}
}

// ObserveRequest records one completed HTTP request.
func (m *Metrics) ObserveRequest(method, path string, status int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// DelayInjected implements netsim.Observer.
func (m *Metrics) DelayInjected(_ netsim.EndpointCategory, delay time.Duration) {
	m.simulatedDelay.Observe(delay.Seconds())
}

// FailureInjected implements netsim.Observer.
func (m *Metrics) FailureInjected(category netsim.EndpointCategory, statusCode int) {
	m.impairmentFailures.WithLabelValues(string(category), strconv.Itoa(statusCode)).Inc()
}

// ConditionChanged records a successful control-API condition change.
func (m *Metrics) ConditionChanged() {
	m.conditionChanges.Inc()
}

// Handler returns an http.Handler that serves the registry in the
// Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
