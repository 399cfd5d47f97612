package graph

import "fmt"

// Builder assembles a graph arena node by node. It is the front end's
// construction API; the resulting Graph is immutable.
type Builder struct {
	nodes     []Node
	registers map[string]*Register
	regOrder  []string
	outputs   []NodeID
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		registers: make(map[string]*Register),
	}
}

func (b *Builder) add(n Node) NodeID {
	n.ID = NodeID(len(b.nodes))
	b.nodes = append(b.nodes, n)
	return n.ID
}

// Const adds a literal constant node.
func (b *Builder) Const(value int64, span Span) NodeID {
	return b.add(Node{Kind: KindConst, Literal: value, Span: span})
}

// Input adds an input terminal with its declared value domain [lo, hi].
func (b *Builder) Input(name string, lo, hi int64, span Span) NodeID {
	return b.add(Node{Kind: KindInput, Name: name, Lo: lo, Hi: hi, Span: span})
}

// Add adds an addition node.
func (b *Builder) Add(x, y NodeID, span Span) NodeID {
	return b.add(Node{Kind: KindAdd, Operands: []NodeID{x, y}, Span: span})
}

// Sub adds a subtraction node.
func (b *Builder) Sub(x, y NodeID, span Span) NodeID {
	return b.add(Node{Kind: KindSub, Operands: []NodeID{x, y}, Span: span})
}

// Mul adds a multiplication node.
func (b *Builder) Mul(x, y NodeID, span Span) NodeID {
	return b.add(Node{Kind: KindMul, Operands: []NodeID{x, y}, Span: span})
}

// Div adds a division node.
func (b *Builder) Div(x, y NodeID, span Span) NodeID {
	return b.add(Node{Kind: KindDiv, Operands: []NodeID{x, y}, Span: span})
}

// Compare adds a comparison node.
func (b *Builder) Compare(x, y NodeID, span Span) NodeID {
	return b.add(Node{Kind: KindCompare, Operands: []NodeID{x, y}, Span: span})
}

// Mux adds a two-way select: operands are [sel, whenTrue, whenFalse].
func (b *Builder) Mux(sel, whenTrue, whenFalse NodeID, span Span) NodeID {
	return b.add(Node{Kind: KindMux, Operands: []NodeID{sel, whenTrue, whenFalse}, Span: span})
}

// VarRef adds a reference to a bound value.
func (b *Builder) VarRef(name string, target NodeID, span Span) NodeID {
	return b.add(Node{Kind: KindVarRef, Name: name, Operands: []NodeID{target}, Span: span})
}

// Binding adds a named binding of a value.
func (b *Builder) Binding(name string, value NodeID, span Span) NodeID {
	return b.add(Node{Kind: KindBinding, Name: name, Operands: []NodeID{value}, Span: span})
}

// FieldGet adds a projection of a field out of a bundled value.
func (b *Builder) FieldGet(value NodeID, field string, span Span) NodeID {
	return b.add(Node{Kind: KindFieldGet, Name: field, Operands: []NodeID{value}, Span: span})
}

// DeclareRegister declares a state register with its reset value. The
// register's read and write nodes are added separately.
func (b *Builder) DeclareRegister(name string, init int64) error {
	if _, dup := b.registers[name]; dup {
		return &BuildError{Op: "DeclareRegister", Node: InvalidNode,
			Cause: fmt.Errorf("%w: %q", ErrDuplicateRegister, name)}
	}
	b.registers[name] = &Register{Name: name, Init: init, Read: InvalidNode, Write: InvalidNode}
	b.regOrder = append(b.regOrder, name)
	return nil
}

// RegRead adds the read node for a declared register.
func (b *Builder) RegRead(register string, span Span) NodeID {
	id := b.add(Node{Kind: KindRegRead, Register: register, Span: span})
	if r, ok := b.registers[register]; ok {
		r.Read = id
	}
	return id
}

// RegWrite adds the write node for a declared register. value is the
// combinational result latched at the end of the evaluation cycle.
func (b *Builder) RegWrite(register string, value NodeID, span Span) NodeID {
	id := b.add(Node{Kind: KindRegWrite, Register: register, Operands: []NodeID{value}, Span: span})
	if r, ok := b.registers[register]; ok {
		r.Write = id
	}
	return id
}

// MarkOutput declares a node as a module output terminal.
func (b *Builder) MarkOutput(id NodeID) {
	b.outputs = append(b.outputs, id)
}

// Build checks structural integrity and freezes the arena into a Graph.
// Cycle-shape validation is a separate pass (Graph.Validate).
func (b *Builder) Build() (*Graph, error) {
	for i := range b.nodes {
		n := &b.nodes[i]
		for _, op := range n.Operands {
			if op < 0 || int(op) >= len(b.nodes) {
				return nil, &BuildError{Op: "Build", Node: n.ID,
					Cause: fmt.Errorf("%w: n%d", ErrDanglingOperand, op)}
			}
		}
		if n.Kind == KindRegRead || n.Kind == KindRegWrite {
			if _, ok := b.registers[n.Register]; !ok {
				return nil, &BuildError{Op: "Build", Node: n.ID,
					Cause: fmt.Errorf("%w: %q", ErrUnknownRegister, n.Register)}
			}
		}
	}
	for _, name := range b.regOrder {
		r := b.registers[name]
		if r.Read == InvalidNode || r.Write == InvalidNode {
			return nil, &BuildError{Op: "Build", Node: InvalidNode,
				Cause: fmt.Errorf("%w: %q", ErrUnpairedRegister, name)}
		}
	}
	for _, out := range b.outputs {
		if out < 0 || int(out) >= len(b.nodes) {
			return nil, &BuildError{Op: "Build", Node: out,
				Cause: fmt.Errorf("%w: output", ErrDanglingOperand)}
		}
	}

	g := &Graph{
		nodes:     b.nodes,
		registers: b.registers,
		regOrder:  b.regOrder,
		outputs:   b.outputs,
	}
	g.buildConsumers()
	return g, nil
}
