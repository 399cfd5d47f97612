package metrics

import (
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	// Verify all metrics are initialized
	if r.AnalysisRunsTotal == nil {
		t.Error("AnalysisRunsTotal not initialized")
	}
	if r.ConvergenceIterations == nil {
		t.Error("ConvergenceIterations not initialized")
	}
	if r.OracleRequestsTotal == nil {
		t.Error("OracleRequestsTotal not initialized")
	}
	if r.GateDecisionsTotal == nil {
		t.Error("GateDecisionsTotal not initialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	// Should return the same instance
	r1 := DefaultRegistry()
	r2 := DefaultRegistry()

	if r1 != r2 {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordInference(t *testing.T) {
	r := NewRegistry()

	r.RecordInference(3, 120, false, 10*time.Millisecond)
	r.RecordInference(64, 40, true, 50*time.Millisecond)

	converged, err := r.AnalysisRunsTotal.GetMetricWithLabelValues("interval", "converged")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}

	var metric dto.Metric
	if err := converged.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1 {
		t.Errorf("Converged counter = %v, want 1", metric.Counter.GetValue())
	}

	if err := r.DivergencesTotal.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1 {
		t.Errorf("Divergences = %v, want 1", metric.Counter.GetValue())
	}

	if err := r.ConvergenceIterations.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Histogram.GetSampleCount() != 2 {
		t.Errorf("Iteration samples = %v, want 2", metric.Histogram.GetSampleCount())
	}
}

func TestRecordDiagnostic(t *testing.T) {
	r := NewRegistry()

	r.RecordDiagnostic("info", "feedforward", 27)
	r.RecordDiagnostic("info", "feedforward", 30)
	r.RecordDiagnostic("warning", "feedback_to_state", 26)

	counter, err := r.DiagnosticsTotal.GetMetricWithLabelValues("info", "feedforward")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}

	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 2 {
		t.Errorf("Diagnostic counter = %v, want 2", metric.Counter.GetValue())
	}

	if err := r.DepthObserved.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Histogram.GetSampleCount() != 3 {
		t.Errorf("Depth samples = %v, want 3", metric.Histogram.GetSampleCount())
	}
}

func TestRecordOracleRequest(t *testing.T) {
	r := NewRegistry()

	r.RecordOracleRequest("ok", 500*time.Millisecond)
	r.RecordOracleRequest("unavailable", 30*time.Second)

	okCounter, err := r.OracleRequestsTotal.GetMetricWithLabelValues("ok")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}

	var metric dto.Metric
	if err := okCounter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1 {
		t.Errorf("Oracle ok counter = %v, want 1", metric.Counter.GetValue())
	}
}

func TestRecordDecision(t *testing.T) {
	r := NewRegistry()

	r.RecordDecision("proceed", "warn")
	r.RecordDecision("block", "strict")
	r.RecordDecision("block", "strict")

	blocked, err := r.GateDecisionsTotal.GetMetricWithLabelValues("block", "strict")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}

	var metric dto.Metric
	if err := blocked.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 2 {
		t.Errorf("Block counter = %v, want 2", metric.Counter.GetValue())
	}
}

func TestGetPrometheusRegistry(t *testing.T) {
	r := NewRegistry()
	promRegistry := r.GetPrometheusRegistry()

	if promRegistry == nil {
		t.Fatal("GetPrometheusRegistry() returned nil")
	}

	metrics, err := promRegistry.Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}
	if len(metrics) == 0 {
		t.Error("No metrics registered")
	}
}

func TestMetricNaming(t *testing.T) {
	r := NewRegistry()

	// Labeled vecs only appear after first use
	r.RecordInference(1, 10, false, time.Millisecond)
	r.RecordDiagnostic("info", "feedforward", 5)
	r.RecordOracleRequest("ok", time.Second)
	r.RecordDecision("proceed", "warn")

	metrics, err := r.GetPrometheusRegistry().Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}

	for _, m := range metrics {
		name := m.GetName()
		if !strings.HasPrefix(name, "veriflow_") {
			t.Errorf("Metric %s does not have veriflow_ prefix", name)
		}
	}
}

func TestConcurrentMetricUpdates(t *testing.T) {
	r := NewRegistry()

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				r.RecordAnalysis("depth", "ok", time.Millisecond)
			}
			done <- true
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	counter, err := r.AnalysisRunsTotal.GetMetricWithLabelValues("depth", "ok")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}

	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1000 {
		t.Errorf("Counter = %v, want 1000", metric.Counter.GetValue())
	}
}
