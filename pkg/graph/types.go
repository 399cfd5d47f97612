package graph

import "fmt"

// NodeID addresses a node in the graph arena.
type NodeID int

// InvalidNode is the zero-value sentinel for "no node".
const InvalidNode NodeID = -1

// Kind identifies the operation a node performs. The set is closed:
// analyses dispatch on it with exhaustive switches.
type Kind uint8

const (
	KindConst Kind = iota
	KindInput
	KindAdd
	KindSub
	KindMul
	KindDiv
	KindCompare
	KindMux
	KindVarRef
	KindBinding
	KindFieldGet
	KindRegRead
	KindRegWrite
)

// String returns the string representation of a kind.
func (k Kind) String() string {
	switch k {
	case KindConst:
		return "Const"
	case KindInput:
		return "Input"
	case KindAdd:
		return "Add"
	case KindSub:
		return "Sub"
	case KindMul:
		return "Mul"
	case KindDiv:
		return "Div"
	case KindCompare:
		return "Compare"
	case KindMux:
		return "Mux"
	case KindVarRef:
		return "VarRef"
	case KindBinding:
		return "Binding"
	case KindFieldGet:
		return "FieldGet"
	case KindRegRead:
		return "RegRead"
	case KindRegWrite:
		return "RegWrite"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Span tags a node with its position in the source program. The analyses
// never interpret it; it is carried through into diagnostics.
type Span struct {
	File string
	Line int
	Col  int
}

// String formats a span as file:line:col, or "<unknown>" for the zero span.
func (s Span) String() string {
	if s.File == "" && s.Line == 0 {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Col)
}

// Node is a single dataflow operation or terminal in the arena.
// Operands are ordered references into the same arena, never owning links.
//
// Field usage depends on Kind:
//   - Literal is meaningful only for KindConst
//   - Lo/Hi hold the declared input domain for KindInput
//   - Name holds the input name (KindInput), variable name (KindVarRef,
//     KindBinding) or projected field (KindFieldGet)
//   - Register names the backing register for KindRegRead/KindRegWrite
type Node struct {
	ID       NodeID
	Kind     Kind
	Operands []NodeID
	Literal  int64
	Lo, Hi   int64
	Name     string
	Register string
	Span     Span
}

// Register is a state element: a read node observed by the current
// evaluation cycle and a write node latched for the next one. Init is the
// declared reset value.
type Register struct {
	Name  string
	Init  int64
	Read  NodeID
	Write NodeID
}
