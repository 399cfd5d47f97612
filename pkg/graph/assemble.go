package graph

import "fmt"

// Assemble freezes a graph directly from its raw parts: an arena slice
// whose index equals each node's ID, the declared outputs, and the register
// pairs. It is the handoff constructor for front ends and decoders that
// already carry fully formed arenas; Builder remains the incremental API.
func Assemble(nodes []Node, outputs []NodeID, registers []Register) (*Graph, error) {
	byName := make(map[string]*Register, len(registers))
	regOrder := make([]string, 0, len(registers))
	for i := range registers {
		r := registers[i]
		if _, dup := byName[r.Name]; dup {
			return nil, &BuildError{Op: "Assemble", Node: InvalidNode,
				Cause: fmt.Errorf("%w: %q", ErrDuplicateRegister, r.Name)}
		}
		copied := r
		byName[r.Name] = &copied
		regOrder = append(regOrder, r.Name)
	}

	for i := range nodes {
		n := &nodes[i]
		if n.ID != NodeID(i) {
			return nil, &BuildError{Op: "Assemble", Node: n.ID,
				Cause: fmt.Errorf("node ID %d at arena index %d", n.ID, i)}
		}
		for _, op := range n.Operands {
			if op < 0 || int(op) >= len(nodes) {
				return nil, &BuildError{Op: "Assemble", Node: n.ID,
					Cause: fmt.Errorf("%w: n%d", ErrDanglingOperand, op)}
			}
		}
		if n.Kind == KindRegRead || n.Kind == KindRegWrite {
			r, ok := byName[n.Register]
			if !ok {
				return nil, &BuildError{Op: "Assemble", Node: n.ID,
					Cause: fmt.Errorf("%w: %q", ErrUnknownRegister, n.Register)}
			}
			if n.Kind == KindRegRead && r.Read != n.ID {
				return nil, &BuildError{Op: "Assemble", Node: n.ID,
					Cause: fmt.Errorf("register %q read pair mismatch", n.Register)}
			}
			if n.Kind == KindRegWrite && r.Write != n.ID {
				return nil, &BuildError{Op: "Assemble", Node: n.ID,
					Cause: fmt.Errorf("register %q write pair mismatch", n.Register)}
			}
		}
	}
	for _, name := range regOrder {
		r := byName[name]
		if r.Read < 0 || int(r.Read) >= len(nodes) || r.Write < 0 || int(r.Write) >= len(nodes) {
			return nil, &BuildError{Op: "Assemble", Node: InvalidNode,
				Cause: fmt.Errorf("%w: %q", ErrUnpairedRegister, name)}
		}
	}
	for _, out := range outputs {
		if out < 0 || int(out) >= len(nodes) {
			return nil, &BuildError{Op: "Assemble", Node: out,
				Cause: fmt.Errorf("%w: output", ErrDanglingOperand)}
		}
	}

	g := &Graph{
		nodes:     nodes,
		registers: byName,
		regOrder:  regOrder,
		outputs:   outputs,
	}
	g.buildConsumers()
	return g, nil
}
