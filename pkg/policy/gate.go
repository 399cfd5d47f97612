package policy

import (
	"fmt"

	"github.com/dd0wney/veriflow/pkg/depth"
)

// Decision is the gate's verdict on artifact emission.
type Decision struct {
	Proceed bool
	Reason  string
	// OracleConsulted is false when the oracle never ran; the decision
	// then rests on Layer 1 alone and carries reduced confidence.
	OracleConsulted bool
	// Layer1Blocked marks a block produced by elevated structural
	// diagnostics, before any oracle result was considered.
	Layer1Blocked bool
}

// Decide combines the structural diagnostics with the oracle's slack report
// under the configured policy. slackNs is nil when the oracle has not run.
// The elevate switch turns Layer-1 threshold diagnostics into a build
// blocker on their own, independent of the Layer-2 policy, so an author can
// fail fast without waiting for synthesis.
//
// Decide is a pure function: it performs no I/O and may be called any
// number of times with the same inputs.
func Decide(layer1 []depth.Diagnostic, slackNs *float64, pol Policy, elevate bool) Decision {
	if elevate && len(layer1) > 0 {
		return Decision{
			Proceed:       false,
			Layer1Blocked: true,
			Reason: fmt.Sprintf("%d structural depth warning(s) elevated to errors (first: %s)",
				len(layer1), layer1[0].KindChain),
		}
	}

	if slackNs == nil {
		return Decision{
			Proceed: true,
			Reason:  "synthesis oracle not consulted; structural layer only",
		}
	}

	slack := *slackNs
	switch pol.Kind() {
	case Warn:
		if slack < 0 {
			return Decision{
				Proceed:         true,
				OracleConsulted: true,
				Reason:          fmt.Sprintf("timing violation (slack %.3f ns) reported, warn policy does not block", slack),
			}
		}
		return Decision{Proceed: true, OracleConsulted: true, Reason: fmt.Sprintf("slack %.3f ns", slack)}

	case Error:
		if slack < 0 {
			return Decision{
				Proceed:         false,
				OracleConsulted: true,
				Reason:          fmt.Sprintf("timing violation: slack %.3f ns is negative", slack),
			}
		}
		return Decision{Proceed: true, OracleConsulted: true, Reason: fmt.Sprintf("slack %.3f ns", slack)}

	case Strict:
		if slack < pol.MarginNs() {
			return Decision{
				Proceed:         false,
				OracleConsulted: true,
				Reason: fmt.Sprintf("slack %.3f ns below required margin %.3f ns",
					slack, pol.MarginNs()),
			}
		}
		return Decision{
			Proceed:         true,
			OracleConsulted: true,
			Reason:          fmt.Sprintf("slack %.3f ns clears margin %.3f ns", slack, pol.MarginNs()),
		}

	default:
		return Decision{Proceed: false, Reason: fmt.Sprintf("unknown policy %v", pol.Kind())}
	}
}
