package transport

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments the outbound request path. Collectors live on a
// private registry so multiple clients in one process never collide.
type Metrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	authRetries     prometheus.Counter
	refreshFailures prometheus.Counter
}

// NewMetrics registers the transport collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "api_requests_total",
		Help: "Total outbound API requests by method and outcome",
	}, []string{"method", "outcome"})

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "api_request_duration_seconds",
		Help:    "Duration of outbound API requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	authRetries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "api_auth_retries_total",
		Help: "Requests resent after a refreshed access token",
	})

	refreshFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "api_refresh_failures_total",
		Help: "Refresh attempts that ended the session",
	})

	registry.MustRegister(requestTotal, requestDuration, authRetries, refreshFailures)

	return &Metrics{
		registry:        registry,
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		authRetries:     authRetries,
		refreshFailures: refreshFailures,
	}
}

// Registry exposes the collectors for scraping or debug dumps.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) observeRequest(method, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.requestTotal.WithLabelValues(method, outcome).Inc()
	m.requestDuration.WithLabelValues(method).Observe(seconds)
}

func (m *Metrics) observeAuthRetry() {
	if m == nil {
		return
	}
	m.authRetries.Inc()
}

func (m *Metrics) observeRefreshFailure() {
	if m == nil {
		return
	}
	m.refreshFailures.Inc()
}
