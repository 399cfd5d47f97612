package graph

// Graph is an immutable dataflow graph snapshot: an arena of nodes addressed
// by integer ID, an operand adjacency owned by each node, and a derived
// consumer (reverse-edge) adjacency. Both analyses consume it read-only.
type Graph struct {
	nodes     []Node
	consumers [][]NodeID
	registers map[string]*Register
	regOrder  []string
	outputs   []NodeID
}

// NumNodes returns the arena size. Node IDs are dense in [0, NumNodes).
func (g *Graph) NumNodes() int {
	return len(g.nodes)
}

// Node returns the node with the given ID. The returned pointer aliases the
// arena and must not be mutated.
func (g *Graph) Node(id NodeID) (*Node, error) {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil, ErrNodeNotFound
	}
	return &g.nodes[id], nil
}

// KindOf returns the operation kind of a node. The id must be one this
// graph issued; an out-of-range id panics like any slice index.
func (g *Graph) KindOf(id NodeID) Kind {
	return g.nodes[id].Kind
}

// Operands returns the ordered operand references of a node.
func (g *Graph) Operands(id NodeID) []NodeID {
	return g.nodes[id].Operands
}

// Consumers returns the nodes that use id as an operand.
func (g *Graph) Consumers(id NodeID) []NodeID {
	return g.consumers[id]
}

// Outputs returns the declared module output terminals.
func (g *Graph) Outputs() []NodeID {
	return g.outputs
}

// IsOutput reports whether id is a declared output terminal.
func (g *Graph) IsOutput(id NodeID) bool {
	for _, out := range g.outputs {
		if out == id {
			return true
		}
	}
	return false
}

// Registers returns the declared registers in declaration order.
func (g *Graph) Registers() []Register {
	regs := make([]Register, 0, len(g.regOrder))
	for _, name := range g.regOrder {
		regs = append(regs, *g.registers[name])
	}
	return regs
}

// RegisterByName looks up a register by name.
func (g *Graph) RegisterByName(name string) (Register, bool) {
	r, ok := g.registers[name]
	if !ok {
		return Register{}, false
	}
	return *r, true
}

// buildConsumers derives the reverse adjacency from operand edges.
func (g *Graph) buildConsumers() {
	g.consumers = make([][]NodeID, len(g.nodes))
	for i := range g.nodes {
		for _, op := range g.nodes[i].Operands {
			g.consumers[op] = append(g.consumers[op], g.nodes[i].ID)
		}
	}
}

// KindChain renders the operation kinds along a node chain, e.g.
// "Mul -> Mul -> Compare". Used in diagnostics and errors.
func (g *Graph) KindChain(chain []NodeID) string {
	if len(chain) == 0 {
		return ""
	}
	s := g.nodes[chain[0]].Kind.String()
	for _, id := range chain[1:] {
		s += " -> " + g.nodes[id].Kind.String()
	}
	return s
}
