package graph

import "fmt"

// TopoOrder returns the nodes in dependency order over operand edges using
// Kahn's algorithm: every operand comes before its consumer. Register
// boundaries carry no operand edge, so a validated graph always has such an
// order. Returns an error if a combinational cycle is present.
func (g *Graph) TopoOrder() ([]NodeID, error) {
	inDegree := make([]int, len(g.nodes))
	for i := range g.nodes {
		inDegree[i] = len(g.nodes[i].Operands)
	}

	queue := make([]NodeID, 0, len(g.nodes))
	for i := range g.nodes {
		if inDegree[i] == 0 {
			queue = append(queue, NodeID(i))
		}
	}

	sorted := make([]NodeID, 0, len(g.nodes))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		sorted = append(sorted, current)

		for _, consumer := range g.consumers[current] {
			inDegree[consumer]--
			if inDegree[consumer] == 0 {
				queue = append(queue, consumer)
			}
		}
	}

	if len(sorted) != len(g.nodes) {
		return nil, fmt.Errorf("graph contains a combinational cycle, no dependency order exists")
	}
	return sorted, nil
}
