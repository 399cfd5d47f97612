package depth

import (
	"fmt"

	"github.com/dd0wney/veriflow/pkg/graph"
)

// Severity grades a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the string representation of a severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Classification tags the shape of a maximal path: one terminating at a
// state-register write feeds the next evaluation cycle, anything else flows
// forward to an output.
type Classification int

const (
	Feedforward Classification = iota
	FeedbackToState
)

// String returns the string representation of a classification.
func (c Classification) String() string {
	switch c {
	case Feedforward:
		return "feedforward"
	case FeedbackToState:
		return "feedback-to-state"
	default:
		return "unknown"
	}
}

// Diagnostic reports one maximal path whose weighted depth exceeds the
// calibrated threshold. It carries the full operation chain so a reporting
// collaborator can render exactly which expression is too deep.
type Diagnostic struct {
	Severity      Severity
	Class         Classification
	Terminal      graph.NodeID
	Chain         []graph.NodeID
	KindChain     string
	Span          graph.Span
	WeightedDepth int
	Threshold     int
}

// String formats the diagnostic the way the build log shows it.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s path %s has weighted depth %d, threshold %d (%s)",
		d.Severity, d.Class, d.KindChain, d.WeightedDepth, d.Threshold, d.Span)
}
