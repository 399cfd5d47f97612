package graph

// FeedbackComponent is one strongly connected component of the closed graph
// (operand edges plus the implicit write-to-read edge of every register).
// Each nontrivial component is one independent feedback loop: its registers
// must be solved together, and disjoint components share no nodes.
type FeedbackComponent struct {
	Nodes     []NodeID
	Registers []string // registers whose read and write both lie in the component
}

// tarjanState holds per-node state during Tarjan's DFS.
type tarjanState struct {
	index   int
	lowlink int
	onStack bool
}

// FeedbackComponents finds the nontrivial SCCs of the closed graph using
// Tarjan's algorithm in O(V+E) time. Components are returned in dependency
// order (a component appears after every component it reads from).
func (g *Graph) FeedbackComponents() []FeedbackComponent {
	// successor edges: operand-to-consumer, plus write-to-read per register
	succ := func(id NodeID) []NodeID {
		out := g.consumers[id]
		if g.nodes[id].Kind == KindRegWrite {
			if r, ok := g.registers[g.nodes[id].Register]; ok {
				out = append(append([]NodeID(nil), out...), r.Read)
			}
		}
		return out
	}

	state := make(map[NodeID]*tarjanState, len(g.nodes))
	var stack []NodeID
	indexCounter := 0
	var components [][]NodeID

	var strongconnect func(u NodeID)
	strongconnect = func(u NodeID) {
		state[u] = &tarjanState{index: indexCounter, lowlink: indexCounter, onStack: true}
		indexCounter++
		stack = append(stack, u)

		for _, v := range succ(u) {
			if _, seen := state[v]; !seen {
				strongconnect(v)
				if state[v].lowlink < state[u].lowlink {
					state[u].lowlink = state[v].lowlink
				}
			} else if state[v].onStack {
				if state[v].index < state[u].lowlink {
					state[u].lowlink = state[v].index
				}
			}
		}

		if state[u].lowlink == state[u].index {
			var comp []NodeID
			for {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				state[top].onStack = false
				comp = append(comp, top)
				if top == u {
					break
				}
			}
			components = append(components, comp)
		}
	}

	for i := range g.nodes {
		if _, seen := state[NodeID(i)]; !seen {
			strongconnect(NodeID(i))
		}
	}

	// Tarjan emits components in reverse dependency order; keep only the
	// nontrivial ones and restore dependency order.
	var result []FeedbackComponent
	for i := len(components) - 1; i >= 0; i-- {
		comp := components[i]
		if len(comp) < 2 {
			continue
		}
		inComp := make(map[NodeID]bool, len(comp))
		for _, id := range comp {
			inComp[id] = true
		}
		fc := FeedbackComponent{Nodes: comp}
		for _, name := range g.regOrder {
			r := g.registers[name]
			if inComp[r.Read] && inComp[r.Write] {
				fc.Registers = append(fc.Registers, name)
			}
		}
		result = append(result, fc)
	}
	return result
}
