package metrics

import (
	"time"
)

// RecordAnalysis records an analysis stage run with its duration
func (r *Registry) RecordAnalysis(stage, status string, duration time.Duration) {
	r.AnalysisRunsTotal.WithLabelValues(stage, status).Inc()
	r.AnalysisDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordInference records the outcome of an interval inference run
func (r *Registry) RecordInference(iterations, nodes int, diverged bool, duration time.Duration) {
	status := "converged"
	if diverged {
		status = "diverged"
		r.DivergencesTotal.Inc()
	}
	r.RecordAnalysis("interval", status, duration)
	r.ConvergenceIterations.Observe(float64(iterations))
	r.GraphNodesAnalyzed.Observe(float64(nodes))
}

// RecordDiagnostic records a depth diagnostic by severity and classification
func (r *Registry) RecordDiagnostic(severity, class string, weightedDepth int) {
	r.DiagnosticsTotal.WithLabelValues(severity, class).Inc()
	r.DepthObserved.Observe(float64(weightedDepth))
}

// RecordOracleRequest records a timing oracle round trip
func (r *Registry) RecordOracleRequest(status string, latency time.Duration) {
	r.OracleRequestsTotal.WithLabelValues(status).Inc()
	r.OracleRequestLatency.Observe(latency.Seconds())
}

// RecordDecision records a policy gate decision
func (r *Registry) RecordDecision(outcome, policy string) {
	r.GateDecisionsTotal.WithLabelValues(outcome, policy).Inc()
}
