// Package pipeline runs the full analysis pass over a dataflow graph:
// structural validation, interval inference, depth analysis, the optional
// synthesis oracle round trip, and the policy gate verdict.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/veriflow/pkg/calibration"
	"github.com/dd0wney/veriflow/pkg/depth"
	"github.com/dd0wney/veriflow/pkg/graph"
	"github.com/dd0wney/veriflow/pkg/interval"
	"github.com/dd0wney/veriflow/pkg/logging"
	"github.com/dd0wney/veriflow/pkg/metrics"
	"github.com/dd0wney/veriflow/pkg/oracle"
	"github.com/dd0wney/veriflow/pkg/policy"
)

// Runner wires the analysis stages together. A nil Oracle means no
// synthesis oracle is configured and the gate decides on the structural
// layer alone.
type Runner struct {
	Logger  logging.Logger
	Metrics *metrics.Registry
	Oracle  oracle.Client

	// Parallel enables component-parallel interval inference.
	Parallel bool
	// Workers bounds the inference worker pool (0 = GOMAXPROCS).
	Workers int
}

// NewRunner creates a runner with the default logger and metrics registry.
func NewRunner(client oracle.Client) *Runner {
	return &Runner{
		Logger:  logging.DefaultLogger(),
		Metrics: metrics.DefaultRegistry(),
		Oracle:  client,
	}
}

// Run executes every stage against the graph under the project's
// calibration. artifactPath locates the emitted hardware description for the
// oracle; it is unused when no oracle is configured. A returned error means
// the analysis itself could not complete; a completed run whose gate blocked
// returns a Report with Decision.Proceed false and a nil error.
func (r *Runner) Run(ctx context.Context, g *graph.Graph, cfg *calibration.ProjectConfig, artifactPath string) (*Report, error) {
	runID := uuid.NewString()
	log := r.logger().With(logging.String("run_id", runID))
	started := time.Now()

	profile, err := cfg.Profile()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	pol, err := policy.Parse(policyName(cfg), cfg.MarginNs)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	log.Info("analysis run starting",
		logging.Int("nodes", g.NumNodes()),
		logging.Int("threshold", profile.Threshold()),
		logging.String("policy", pol.String()))

	if err := g.Validate(); err != nil {
		log.Error("graph validation failed", logging.Error(err))
		r.registry().RecordAnalysis("validate", "error", time.Since(started))
		return nil, err
	}
	r.registry().RecordAnalysis("validate", "ok", time.Since(started))
	r.registry().FeedbackComponentsFound.Observe(float64(len(g.FeedbackComponents())))

	inferred, err := r.runInference(ctx, g, cfg, log)
	if err != nil {
		return nil, err
	}

	records, diags, err := r.runDepth(g, profile, log)
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:       runID,
		Threshold:   profile.Threshold(),
		Iterations:  inferred.Iterations,
		Widths:      inferred.Widths(),
		Intervals:   inferred.Intervals,
		Depths:      records,
		Diagnostics: diags,
	}

	// Elevated diagnostics block on the structural layer alone; a
	// synthesis round trip cannot change that verdict, so fail fast.
	if cfg.WarningsAsErrs && len(diags) > 0 {
		log.Warn("elevated structural diagnostics block the build, skipping oracle",
			logging.Int("diagnostics", len(diags)))
	} else {
		report.SlackNs = r.consultOracle(ctx, cfg, artifactPath, log)
	}
	report.Decision = policy.Decide(diags, report.SlackNs, pol, cfg.WarningsAsErrs)
	report.Elapsed = time.Since(started)

	outcome := "proceed"
	if !report.Decision.Proceed {
		outcome = "block"
	}
	r.registry().RecordDecision(outcome, pol.Kind().String())

	log.Info("analysis run finished",
		logging.Bool("proceed", report.Decision.Proceed),
		logging.String("reason", report.Decision.Reason),
		logging.Bool("oracle_consulted", report.Decision.OracleConsulted),
		logging.Duration("elapsed", report.Elapsed))

	return report, nil
}

func (r *Runner) runInference(ctx context.Context, g *graph.Graph, cfg *calibration.ProjectConfig, log logging.Logger) (*interval.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started := time.Now()
	result, err := interval.Infer(g, interval.Options{
		MaxIterations: cfg.MaxIterations,
		Parallel:      r.Parallel,
		Workers:       r.Workers,
	})
	if err != nil {
		var div *interval.DivergenceError
		if errors.As(err, &div) {
			r.registry().RecordInference(div.Iterations, g.NumNodes(), true, time.Since(started))
			log.Error("interval inference diverged",
				logging.Int("iterations", div.Iterations),
				logging.Error(err))
		}
		return nil, err
	}

	r.registry().RecordInference(result.Iterations, g.NumNodes(), false, time.Since(started))
	log.Info("interval inference converged",
		logging.Int("iterations", result.Iterations))
	return result, nil
}

func (r *Runner) runDepth(g *graph.Graph, profile *calibration.Profile, log logging.Logger) (map[graph.NodeID]depth.Record, []depth.Diagnostic, error) {
	started := time.Now()
	records, diags, err := depth.Analyze(g, depth.DefaultWeights(), profile.Threshold())
	if err != nil {
		r.registry().RecordAnalysis("depth", "error", time.Since(started))
		return nil, nil, err
	}
	r.registry().RecordAnalysis("depth", "ok", time.Since(started))

	for _, d := range diags {
		r.registry().RecordDiagnostic(d.Severity.String(), d.Class.String(), d.WeightedDepth)
		log.Warn("combinational depth over threshold",
			logging.String("path", d.KindChain),
			logging.Int("weighted_depth", d.WeightedDepth),
			logging.Int("threshold", d.Threshold),
			logging.String("class", d.Class.String()))
	}
	return records, diags, nil
}

// consultOracle performs the single synchronous slack query. Any failure
// degrades to "oracle absent": the gate still runs, with reduced confidence.
func (r *Runner) consultOracle(ctx context.Context, cfg *calibration.ProjectConfig, artifactPath string, log logging.Logger) *float64 {
	if r.Oracle == nil {
		return nil
	}

	started := time.Now()
	rep, err := r.Oracle.ReportSlack(ctx, oracle.Request{
		ArtifactPath:  artifactPath,
		ClockPeriodNs: cfg.ClockPeriodNs(),
		MarginNs:      cfg.MarginNs,
	})
	if err != nil {
		status := "error"
		if errors.Is(err, oracle.ErrUnavailable) {
			status = "unavailable"
		}
		r.registry().RecordOracleRequest(status, time.Since(started))
		log.Warn("synthesis oracle did not answer, deciding on structural layer only",
			logging.Error(err))
		return nil
	}

	r.registry().RecordOracleRequest("ok", time.Since(started))
	log.Info("synthesis oracle reported slack",
		logging.Float64("slack_ns", rep.SlackNs),
		logging.String("source", rep.Source))
	return &rep.SlackNs
}

func (r *Runner) logger() logging.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return logging.DefaultLogger()
}

func (r *Runner) registry() *metrics.Registry {
	if r.Metrics != nil {
		return r.Metrics
	}
	return metrics.DefaultRegistry()
}

func policyName(cfg *calibration.ProjectConfig) string {
	if cfg.TimingPolicy == "" {
		return "warn"
	}
	return cfg.TimingPolicy
}
