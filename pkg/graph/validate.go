package graph

// Validate checks the one-legal-cycle-shape invariant: the only cycles a
// dataflow graph may contain run through a register write/read pair, and
// the register boundary is not an operand edge. Any cycle in the operand
// graph therefore has no evaluation order and is malformed.
//
// Uses depth-first search with three colors:
//   - WHITE (0): unvisited
//   - GRAY  (1): currently visiting (on the recursion stack)
//   - BLACK (2): finished visiting
//
// A GRAY node reached over an operand edge is a back edge; the offending
// chain is reconstructed from parent pointers and reported.
func (g *Graph) Validate() error {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make([]int, len(g.nodes))
	parent := make([]NodeID, len(g.nodes))
	for i := range parent {
		parent[i] = InvalidNode
	}

	var visit func(id NodeID) *MalformedGraphError
	visit = func(id NodeID) *MalformedGraphError {
		color[id] = gray
		for _, op := range g.nodes[id].Operands {
			switch color[op] {
			case white:
				parent[op] = id
				if err := visit(op); err != nil {
					return err
				}
			case gray:
				chain := g.extractCycle(op, id, parent)
				return &MalformedGraphError{Chain: chain, KindChain: g.KindChain(chain)}
			}
			// black: forward or cross edge, no cycle through here
		}
		color[id] = black
		return nil
	}

	for i := range g.nodes {
		if color[i] == white {
			if err := visit(NodeID(i)); err != nil {
				return err
			}
		}
	}
	return nil
}

// extractCycle reconstructs a cycle from parent pointers given a back edge
// from end to start.
func (g *Graph) extractCycle(start, end NodeID, parent []NodeID) []NodeID {
	chain := []NodeID{start}
	for current := end; current != start; {
		chain = append(chain, current)
		p := parent[current]
		if p == InvalidNode {
			break
		}
		current = p
	}
	// parent pointers walk consumer-to-operand; reverse past the first
	// element so the chain reads in dataflow order
	for i, j := 1, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}
