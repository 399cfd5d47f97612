package depth

import "github.com/dd0wney/veriflow/pkg/graph"

// Record holds the weighted combinational depth of a node and the chain of
// node IDs realizing the maximal-depth path into it.
type Record struct {
	WeightedDepth int
	Chain         []graph.NodeID
}

// Analyze folds the graph bottom-up once, computing a Record per node, and
// emits a diagnostic for every maximal path (into an output or a register
// write) deeper than the threshold. Depth does not flow backward through a
// register: a register read has no operand edge, so it restarts its chain at
// its own weight, and the write's depth is never propagated into the next
// cycle. One visit per node, no fixpoint.
//
// The graph must already have passed Validate.
func Analyze(g *graph.Graph, weights WeightTable, threshold int) (map[graph.NodeID]Record, []Diagnostic, error) {
	order, err := g.TopoOrder()
	if err != nil {
		return nil, nil, err
	}

	depths := make([]int, g.NumNodes())
	pred := make([]graph.NodeID, g.NumNodes())
	for _, id := range order {
		n, _ := g.Node(id)
		best := graph.InvalidNode
		bestDepth := 0
		for _, op := range n.Operands {
			if best == graph.InvalidNode || depths[op] > bestDepth {
				best = op
				bestDepth = depths[op]
			}
		}
		depths[id] = bestDepth + weights.weight(n.Kind)
		pred[id] = best
	}

	records := make(map[graph.NodeID]Record, g.NumNodes())
	for _, id := range order {
		records[id] = Record{WeightedDepth: depths[id], Chain: chainTo(id, pred)}
	}

	var diagnostics []Diagnostic
	for _, terminal := range terminals(g) {
		rec := records[terminal]
		if rec.WeightedDepth <= threshold {
			continue
		}
		n, _ := g.Node(terminal)
		class := Feedforward
		if n.Kind == graph.KindRegWrite {
			class = FeedbackToState
		}
		diagnostics = append(diagnostics, Diagnostic{
			Severity:      SeverityInfo,
			Class:         class,
			Terminal:      terminal,
			Chain:         rec.Chain,
			KindChain:     g.KindChain(rec.Chain),
			Span:          n.Span,
			WeightedDepth: rec.WeightedDepth,
			Threshold:     threshold,
		})
	}
	return records, diagnostics, nil
}

// chainTo walks the maximal-depth predecessor pointers back from id and
// returns the chain in dataflow order.
func chainTo(id graph.NodeID, pred []graph.NodeID) []graph.NodeID {
	var chain []graph.NodeID
	for current := id; current != graph.InvalidNode; current = pred[current] {
		chain = append(chain, current)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// terminals returns every node that ends a maximal path: declared outputs
// and register writes.
func terminals(g *graph.Graph) []graph.NodeID {
	var out []graph.NodeID
	seen := make(map[graph.NodeID]bool)
	for _, id := range g.Outputs() {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, r := range g.Registers() {
		if !seen[r.Write] {
			seen[r.Write] = true
			out = append(out, r.Write)
		}
	}
	return out
}

// Classify reports every path classification the node participates in: it is
// FeedbackToState when some forward path from it reaches a register write,
// Feedforward when some forward path reaches a declared output. A node
// feeding both is reported under both.
func Classify(g *graph.Graph, id graph.NodeID) []Classification {
	var (
		feedsState  bool
		feedsOutput bool
	)
	visited := make(map[graph.NodeID]bool)
	var walk func(n graph.NodeID)
	walk = func(n graph.NodeID) {
		if visited[n] {
			return
		}
		visited[n] = true
		if g.KindOf(n) == graph.KindRegWrite {
			feedsState = true
		}
		if g.IsOutput(n) {
			feedsOutput = true
		}
		for _, consumer := range g.Consumers(n) {
			walk(consumer)
		}
	}
	walk(id)

	var classes []Classification
	if feedsOutput {
		classes = append(classes, Feedforward)
	}
	if feedsState {
		classes = append(classes, FeedbackToState)
	}
	return classes
}
