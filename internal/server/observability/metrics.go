// Package observability exposes Prometheus metrics for the auth server.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the auth server's custom collectors.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	AuthOutcomes    *prometheus.CounterVec
	AccessDenials   *prometheus.CounterVec
}

// NewMetrics creates and registers the auth metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loadout_grpc_requests_total",
				Help: "Total number of gRPC requests by method and status code",
			},
			[]string{"method", "code"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "loadout_grpc_request_duration_seconds",
				Help:    "gRPC request latency by method",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		AuthOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loadout_auth_outcomes_total",
				Help: "Authentication outcomes by operation and result",
			},
			[]string{"op", "result"},
		),
		AccessDenials: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loadout_access_denials_total",
				Help: "Requests refused by an access check, by check",
			},
			[]string{"check"},
		),
	}

	reg.MustRegister(m.RequestsTotal, m.RequestDuration, m.AuthOutcomes, m.AccessDenials)
	return m
}

// RecordAuth counts one authentication outcome.
func (m *Metrics) RecordAuth(op, result string) {
	m.AuthOutcomes.WithLabelValues(op, result).Inc()
}

// RecordDenial counts one refused access check ("authn", "role", "permission").
func (m *Metrics) RecordDenial(check string) {
	m.AccessDenials.WithLabelValues(check).Inc()
}
