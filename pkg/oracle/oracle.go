// Package oracle is the narrow contract to the external synthesis process
// that reports authoritative timing slack. The analysis core never models
// physical timing itself; it asks once, synchronously, and treats a failed
// call as "oracle absent".
package oracle

import (
	"context"
	"errors"
)

// ErrUnavailable marks an oracle that could not be reached or did not
// answer. It is not a build failure: the policy gate degrades to
// structural-layer-only decisions and surfaces the reduced confidence.
var ErrUnavailable = errors.New("synthesis oracle unavailable")

// Request describes one signoff query.
type Request struct {
	// ArtifactPath locates the generated hardware description the
	// oracle should synthesize.
	ArtifactPath string `json:"artifact_path"`
	// ClockPeriodNs is the timing budget the slack is measured against.
	ClockPeriodNs float64 `json:"clock_period_ns"`
	// MarginNs is the configured safety margin, passed through so the
	// oracle can annotate its report; the gate applies it, not the oracle.
	MarginNs float64 `json:"margin_ns"`
}

// Report is the oracle's verdict: the worst negative slack in nanoseconds,
// signed. Negative means the design misses timing.
type Report struct {
	SlackNs float64 `json:"slack_ns"`
	// Source names the tool that produced the number, for the report log.
	Source string `json:"source,omitempty"`
}

// Client is the single operation the core needs from a synthesis oracle.
// A call either returns a final slack value or fails; there is no retry
// and no partial result.
type Client interface {
	ReportSlack(ctx context.Context, req Request) (*Report, error)
}

// FixedClient answers every request with a constant slack. It stands in for
// a real oracle in tests and in the simulator.
type FixedClient struct {
	Slack  float64
	Source string
}

// ReportSlack implements Client.
func (c *FixedClient) ReportSlack(_ context.Context, _ Request) (*Report, error) {
	return &Report{SlackNs: c.Slack, Source: c.Source}, nil
}
