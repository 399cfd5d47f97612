package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the analysis toolchain
type Registry struct {
	// Analysis Metrics
	AnalysisRunsTotal       *prometheus.CounterVec
	AnalysisDuration        *prometheus.HistogramVec
	ConvergenceIterations   prometheus.Histogram
	DivergencesTotal        prometheus.Counter
	GraphNodesAnalyzed      prometheus.Histogram
	FeedbackComponentsFound prometheus.Histogram
	DiagnosticsTotal        *prometheus.CounterVec
	DepthObserved           prometheus.Histogram

	// Oracle Metrics
	OracleRequestsTotal  *prometheus.CounterVec
	OracleRequestLatency prometheus.Histogram
	GateDecisionsTotal   *prometheus.CounterVec

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initAnalysisMetrics()
	r.initOracleMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
