package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initOracleMetrics() {
	r.OracleRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "veriflow_oracle_requests_total",
			Help: "Total number of timing oracle requests",
		},
		[]string{"status"},
	)

	r.OracleRequestLatency = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "veriflow_oracle_request_seconds",
			Help:    "Timing oracle round-trip latency in seconds",
			Buckets: []float64{0.1, 0.5, 1.0, 5.0, 30.0, 120.0, 600.0},
		},
	)

	r.GateDecisionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "veriflow_gate_decisions_total",
			Help: "Total number of policy gate decisions",
		},
		[]string{"outcome", "policy"},
	)
}
