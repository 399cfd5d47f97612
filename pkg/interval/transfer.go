package interval

import (
	"fmt"

	"github.com/dd0wney/veriflow/pkg/graph"
)

// transfer computes the output interval of a node as the exact image of its
// operator over the operand intervals. env is indexed by NodeID; seeds maps
// register names to the current register-read estimates.
func transfer(g *graph.Graph, n *graph.Node, env []Interval, seeds map[string]Interval) (Interval, error) {
	switch n.Kind {
	case graph.KindConst:
		return Point(n.Literal), nil

	case graph.KindInput:
		return New(n.Lo, n.Hi), nil

	case graph.KindAdd:
		a, b := env[n.Operands[0]], env[n.Operands[1]]
		return New(addSat(a.Min, b.Min), addSat(a.Max, b.Max)), nil

	case graph.KindSub:
		a, b := env[n.Operands[0]], env[n.Operands[1]]
		return New(subSat(a.Min, b.Max), subSat(a.Max, b.Min)), nil

	case graph.KindMul:
		a, b := env[n.Operands[0]], env[n.Operands[1]]
		return corners(a, b, mulSat), nil

	case graph.KindDiv:
		a, b := env[n.Operands[0]], env[n.Operands[1]]
		return divide(a, b), nil

	case graph.KindCompare:
		// boolean-valued result regardless of operand ranges
		return New(0, 1), nil

	case graph.KindMux:
		t, f := env[n.Operands[1]], env[n.Operands[2]]
		return t.Union(f), nil

	case graph.KindVarRef, graph.KindBinding, graph.KindFieldGet:
		return env[n.Operands[0]], nil

	case graph.KindRegRead:
		seed, ok := seeds[n.Register]
		if !ok {
			return Interval{}, fmt.Errorf("register %q has no seed", n.Register)
		}
		return seed, nil

	case graph.KindRegWrite:
		return env[n.Operands[0]], nil

	default:
		return Interval{}, fmt.Errorf("unhandled operation kind %v", n.Kind)
	}
}

// corners applies op to the four endpoint combinations and spans the result.
func corners(a, b Interval, op func(int64, int64) int64) Interval {
	vals := [4]int64{
		op(a.Min, b.Min),
		op(a.Min, b.Max),
		op(a.Max, b.Min),
		op(a.Max, b.Max),
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return New(lo, hi)
}

// divide computes the quotient interval. When the divisor range excludes
// zero the four corner quotients span the result (the one wrapping corner,
// MinInt64 / -1, saturates); when it includes zero the
// quotient magnitude is still bounded by the dividend magnitude, so the
// analysis widens to that bound instead of failing the node.
func divide(a, b Interval) Interval {
	if b.Min > 0 || b.Max < 0 {
		return corners(a, b, divSat)
	}
	m := absSat(a.Min)
	if hi := absSat(a.Max); hi > m {
		m = hi
	}
	return New(subSat(0, m), m)
}
