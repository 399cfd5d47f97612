package graph

import (
	"errors"
	"fmt"
	"strings"
)

// Common sentinel errors
var (
	ErrNodeNotFound      = errors.New("node not found")
	ErrUnknownRegister   = errors.New("unknown register")
	ErrUnpairedRegister  = errors.New("register is missing its read or write node")
	ErrDanglingOperand   = errors.New("operand references a node outside the arena")
	ErrDuplicateRegister = errors.New("register declared twice")
)

// MalformedGraphError reports a cycle in the operand graph that does not
// pass through a register boundary. Such a cycle has no evaluation order
// and aborts analysis before either pass runs.
type MalformedGraphError struct {
	Chain     []NodeID // nodes forming the cycle, in traversal order
	KindChain string   // operation kinds along the cycle, for reporting
}

// Error implements the error interface.
func (e *MalformedGraphError) Error() string {
	ids := make([]string, len(e.Chain))
	for i, id := range e.Chain {
		ids[i] = fmt.Sprintf("n%d", id)
	}
	return fmt.Sprintf("malformed graph: combinational cycle %s (%s)",
		strings.Join(ids, " -> "), e.KindChain)
}

// BuildError reports a structural defect found while assembling the arena.
type BuildError struct {
	Op    string // builder operation that failed
	Node  NodeID // node involved, if any
	Cause error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	if e.Node >= 0 {
		return fmt.Sprintf("%s node n%d: %v", e.Op, e.Node, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *BuildError) Unwrap() error {
	return e.Cause
}
