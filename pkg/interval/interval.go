package interval

import (
	"fmt"
	"math"
	"math/bits"
)

// Interval is a closed inclusive value range [Min, Max]. A point interval
// (Min == Max, produced by a literal) is flagged explicitly: the inference
// loop never widens one, no matter how many feedback iterations run.
type Interval struct {
	Min, Max int64
	point    bool
}

// New creates the interval [lo, hi]. Endpoints are normalized so lo <= hi.
func New(lo, hi int64) Interval {
	if lo > hi {
		lo, hi = hi, lo
	}
	return Interval{Min: lo, Max: hi, point: lo == hi}
}

// Point creates the single-value interval [v, v].
func Point(v int64) Interval {
	return Interval{Min: v, Max: v, point: true}
}

// IsPoint reports whether the interval holds exactly one value.
func (iv Interval) IsPoint() bool {
	return iv.point
}

// Contains reports whether other lies entirely within iv (lattice order).
func (iv Interval) Contains(other Interval) bool {
	return iv.Min <= other.Min && other.Max <= iv.Max
}

// Union returns the smallest interval covering both operands.
func (iv Interval) Union(other Interval) Interval {
	lo, hi := iv.Min, iv.Max
	if other.Min < lo {
		lo = other.Min
	}
	if other.Max > hi {
		hi = other.Max
	}
	return New(lo, hi)
}

// Eq reports endpoint equality.
func (iv Interval) Eq(other Interval) bool {
	return iv.Min == other.Min && iv.Max == other.Max
}

// Width returns the minimum number of bits representing every value in the
// range: for a non-negative range the unsigned width, otherwise the two's
// complement width. Never less than 1.
func (iv Interval) Width() int {
	if iv.Min >= 0 {
		w := bits.Len64(uint64(iv.Max))
		if w == 0 {
			w = 1
		}
		return w
	}
	// signed: smallest n with -2^(n-1) <= Min and Max <= 2^(n-1)-1
	negBits := bits.Len64(uint64(-(iv.Min + 1)))
	posBits := 0
	if iv.Max > 0 {
		posBits = bits.Len64(uint64(iv.Max))
	}
	w := negBits
	if posBits > w {
		w = posBits
	}
	return w + 1
}

// String formats the interval as [min, max].
func (iv Interval) String() string {
	return fmt.Sprintf("[%d, %d]", iv.Min, iv.Max)
}

// addSat adds with saturation at the int64 limits.
func addSat(a, b int64) int64 {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		if b > 0 {
			return math.MaxInt64
		}
		return math.MinInt64
	}
	return sum
}

// subSat subtracts with saturation at the int64 limits.
func subSat(a, b int64) int64 {
	diff := a - b
	if (b < 0 && diff < a) || (b > 0 && diff > a) {
		if b < 0 {
			return math.MaxInt64
		}
		return math.MinInt64
	}
	return diff
}

// divSat divides with saturation at the single two's-complement corner:
// MinInt64 / -1 wraps in Go, every other quotient is exact.
func divSat(a, b int64) int64 {
	if a == math.MinInt64 && b == -1 {
		return math.MaxInt64
	}
	return a / b
}

// absSat returns |v| saturated at the int64 maximum.
func absSat(v int64) int64 {
	if v == math.MinInt64 {
		return math.MaxInt64
	}
	if v < 0 {
		return -v
	}
	return v
}

// mulSat multiplies with saturation at the int64 limits.
func mulSat(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	// MinInt64 * -1 wraps back to MinInt64, so prod/b == a and the
	// division check below would miss the overflow.
	if (a == math.MinInt64 && b == -1) || (a == -1 && b == math.MinInt64) {
		return math.MaxInt64
	}
	prod := a * b
	if prod/b != a {
		if (a > 0) == (b > 0) {
			return math.MaxInt64
		}
		return math.MinInt64
	}
	return prod
}
