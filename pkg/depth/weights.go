package depth

import "github.com/dd0wney/veriflow/pkg/graph"

// WeightTable assigns a non-negative structural weight to each operation
// kind. The weight approximates relative combinational cost; the calibrated
// ns-per-weight-unit ratio turns it into a threshold comparison.
type WeightTable map[graph.Kind]int

// DefaultWeights returns the standard table: single-level logic weighs 1,
// multiply/divide weigh 2, wiring and register boundaries weigh 0.
func DefaultWeights() WeightTable {
	return WeightTable{
		graph.KindConst:    0,
		graph.KindInput:    0,
		graph.KindAdd:      1,
		graph.KindSub:      1,
		graph.KindMul:      2,
		graph.KindDiv:      2,
		graph.KindCompare:  1,
		graph.KindMux:      1,
		graph.KindVarRef:   0,
		graph.KindBinding:  0,
		graph.KindFieldGet: 0,
		graph.KindRegRead:  0,
		graph.KindRegWrite: 0,
	}
}

// weight looks up a kind, defaulting to 0 for kinds the table omits.
func (w WeightTable) weight(k graph.Kind) int {
	return w[k]
}
