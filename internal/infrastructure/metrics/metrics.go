// Package metrics internal/infrastructure/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OutcomeSuccess labels a fetch that produced a valid rate set; failures use the error kind
const OutcomeSuccess = "success"

// Metrics groups the collectors the calculator exports
type Metrics struct {
	RateFetchTotal    *prometheus.CounterVec
	RateFetchDuration *prometheus.HistogramVec
	StaleFetchTotal   *prometheus.CounterVec
	HTTPRequestsTotal *prometheus.CounterVec
}

// New creates the collectors and registers them with reg, if non-nil
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RateFetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_fetch_total",
				Help: "Rate fetches by provider and outcome (success or error kind)",
			},
			[]string{"provider", "outcome"},
		),
		RateFetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rate_fetch_duration_seconds",
				Help:    "Time spent fetching a complete rate set",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		StaleFetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_fetch_stale_total",
				Help: "Fetch results discarded because a newer request superseded them",
			},
			[]string{"provider"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP requests by route, method and status code",
			},
			[]string{"route", "method", "status"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.RateFetchTotal, m.RateFetchDuration, m.StaleFetchTotal, m.HTTPRequestsTotal)
	}

	return m
}

// ObserveFetch records the outcome and latency of one fetch
func (m *Metrics) ObserveFetch(provider, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RateFetchTotal.WithLabelValues(provider, outcome).Inc()
	m.RateFetchDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// ObserveStale records a fetch result dropped by last-request-wins
func (m *Metrics) ObserveStale(provider string) {
	if m == nil {
		return
	}
	m.StaleFetchTotal.WithLabelValues(provider).Inc()
}

// ObserveRequest records a served HTTP request
func (m *Metrics) ObserveRequest(route, method, status string) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(route, method, status).Inc()
}
