// Package calibration holds the per-platform constants that turn structural
// weights into a timing threshold.
package calibration

import (
	"fmt"
	"math"
)

// Profile is the immutable per-target calibration: the measured ratio of
// structural weight units to nanoseconds and the project clock period. The
// threshold is derived once at construction and never mutated mid-analysis;
// a feedback process may recalibrate ns-per-weight-unit between builds, but
// within one run it is a fixed input.
type Profile struct {
	nsPerWeightUnit float64
	clockPeriodNs   float64
	threshold       int
}

// NewProfile creates a profile and derives its threshold.
func NewProfile(nsPerWeightUnit, clockPeriodNs float64) (*Profile, error) {
	if nsPerWeightUnit <= 0 {
		return nil, fmt.Errorf("ns-per-weight-unit must be positive, got %g", nsPerWeightUnit)
	}
	if clockPeriodNs <= 0 {
		return nil, fmt.Errorf("clock period must be positive, got %g ns", clockPeriodNs)
	}
	return &Profile{
		nsPerWeightUnit: nsPerWeightUnit,
		clockPeriodNs:   clockPeriodNs,
		threshold:       int(math.Floor(clockPeriodNs / nsPerWeightUnit)),
	}, nil
}

// NsPerWeightUnit returns the calibrated weight-to-time ratio.
func (p *Profile) NsPerWeightUnit() float64 {
	return p.nsPerWeightUnit
}

// ClockPeriodNs returns the clock period in nanoseconds.
func (p *Profile) ClockPeriodNs() float64 {
	return p.clockPeriodNs
}

// Threshold returns the maximum weighted depth expected to close timing:
// floor(clockPeriodNs / nsPerWeightUnit).
func (p *Profile) Threshold() int {
	return p.threshold
}
