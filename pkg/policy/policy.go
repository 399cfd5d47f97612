// Package policy decides whether a build may proceed, combining the
// structural depth diagnostics (Layer 1) with the synthesis oracle's slack
// report (Layer 2) under the configured policy.
package policy

import "fmt"

// Kind selects the Layer-2 gating rule.
type Kind int

const (
	// Warn reports everything and never blocks.
	Warn Kind = iota
	// Error blocks artifact emission on negative slack.
	Error
	// Strict blocks unless slack clears a positive safety margin.
	Strict
)

// String returns the string representation of a policy kind.
func (k Kind) String() string {
	switch k {
	case Warn:
		return "warn"
	case Error:
		return "error"
	case Strict:
		return "strict"
	default:
		return "unknown"
	}
}

// Policy is read once from project configuration at build start and is
// immutable for the duration of the build.
type Policy struct {
	kind     Kind
	marginNs float64
}

// WarnPolicy never blocks on oracle results.
func WarnPolicy() Policy {
	return Policy{kind: Warn}
}

// ErrorPolicy blocks when reported slack is negative.
func ErrorPolicy() Policy {
	return Policy{kind: Error}
}

// StrictPolicy blocks when reported slack is below the given margin. The
// margin must be positive: a zero margin is just the error policy.
func StrictPolicy(marginNs float64) (Policy, error) {
	if marginNs <= 0 {
		return Policy{}, fmt.Errorf("strict policy requires a positive margin, got %g ns", marginNs)
	}
	return Policy{kind: Strict, marginNs: marginNs}, nil
}

// Parse maps a configured policy name to a Policy value.
func Parse(name string, marginNs float64) (Policy, error) {
	switch name {
	case "", "warn":
		return WarnPolicy(), nil
	case "error":
		return ErrorPolicy(), nil
	case "strict":
		return StrictPolicy(marginNs)
	default:
		return Policy{}, fmt.Errorf("unknown timing policy %q", name)
	}
}

// Kind returns the policy variant.
func (p Policy) Kind() Kind {
	return p.kind
}

// MarginNs returns the safety margin (meaningful only for Strict).
func (p Policy) MarginNs() float64 {
	return p.marginNs
}

// String renders the policy for logs and reports.
func (p Policy) String() string {
	if p.kind == Strict {
		return fmt.Sprintf("strict(margin=%gns)", p.marginNs)
	}
	return p.kind.String()
}
