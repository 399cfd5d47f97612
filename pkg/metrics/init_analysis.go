package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initAnalysisMetrics() {
	r.AnalysisRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "veriflow_analysis_runs_total",
			Help: "Total number of analysis runs",
		},
		[]string{"stage", "status"},
	)

	r.AnalysisDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "veriflow_analysis_duration_seconds",
			Help:    "Analysis stage duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
		[]string{"stage"},
	)

	r.ConvergenceIterations = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "veriflow_convergence_iterations",
			Help:    "Fixpoint iterations needed for interval inference",
			Buckets: []float64{1, 2, 4, 8, 16, 32, 64},
		},
	)

	r.DivergencesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "veriflow_divergences_total",
			Help: "Total number of inference runs that failed to converge",
		},
	)

	r.GraphNodesAnalyzed = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "veriflow_graph_nodes_analyzed",
			Help:    "Number of nodes per analyzed graph",
			Buckets: []float64{10, 100, 1000, 10000, 100000},
		},
	)

	r.FeedbackComponentsFound = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "veriflow_feedback_components",
			Help:    "Number of feedback components per analyzed graph",
			Buckets: []float64{0, 1, 2, 4, 8, 16, 32},
		},
	)

	r.DiagnosticsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "veriflow_diagnostics_total",
			Help: "Total number of depth diagnostics emitted",
		},
		[]string{"severity", "class"},
	)

	r.DepthObserved = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "veriflow_weighted_depth",
			Help:    "Weighted combinational depth per terminal",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
		},
	)
}
