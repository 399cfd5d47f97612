// Package snapshot is the structured interchange format for dataflow graph
// handoffs between the front end and the analysis core. The in-memory Graph
// is the primary interface; the snapshot exists for cross-process use.
package snapshot

import (
	"fmt"

	"github.com/dd0wney/veriflow/pkg/graph"
)

// FormatVersion is bumped on any incompatible document change.
const FormatVersion = 1

// NodeRecord is the wire form of one arena node.
type NodeRecord struct {
	ID       graph.NodeID   `json:"id"`
	Kind     string         `json:"kind"`
	Operands []graph.NodeID `json:"operands,omitempty"`
	Literal  *int64         `json:"literal,omitempty"`
	Lo       int64          `json:"lo,omitempty"`
	Hi       int64          `json:"hi,omitempty"`
	Name     string         `json:"name,omitempty"`
	Register string         `json:"register,omitempty"`
	File     string         `json:"file,omitempty"`
	Line     int            `json:"line,omitempty"`
	Col      int            `json:"col,omitempty"`
}

// RegisterRecord is the wire form of one register pair.
type RegisterRecord struct {
	Name  string       `json:"name"`
	Init  int64        `json:"init"`
	Read  graph.NodeID `json:"read"`
	Write graph.NodeID `json:"write"`
}

// Document is a complete graph snapshot.
type Document struct {
	FormatVersion int              `json:"format_version"`
	Nodes         []NodeRecord     `json:"nodes"`
	Outputs       []graph.NodeID   `json:"outputs,omitempty"`
	Registers     []RegisterRecord `json:"registers,omitempty"`
}

var kindNames = map[graph.Kind]string{
	graph.KindConst:    "const",
	graph.KindInput:    "input",
	graph.KindAdd:      "add",
	graph.KindSub:      "sub",
	graph.KindMul:      "mul",
	graph.KindDiv:      "div",
	graph.KindCompare:  "compare",
	graph.KindMux:      "mux",
	graph.KindVarRef:   "varref",
	graph.KindBinding:  "binding",
	graph.KindFieldGet: "fieldget",
	graph.KindRegRead:  "regread",
	graph.KindRegWrite: "regwrite",
}

var kindValues = func() map[string]graph.Kind {
	m := make(map[string]graph.Kind, len(kindNames))
	for k, name := range kindNames {
		m[name] = k
	}
	return m
}()

// Capture snapshots an in-memory graph.
func Capture(g *graph.Graph) *Document {
	doc := &Document{
		FormatVersion: FormatVersion,
		Nodes:         make([]NodeRecord, 0, g.NumNodes()),
		Outputs:       g.Outputs(),
	}
	for i := 0; i < g.NumNodes(); i++ {
		n, _ := g.Node(graph.NodeID(i))
		rec := NodeRecord{
			ID:       n.ID,
			Kind:     kindNames[n.Kind],
			Operands: n.Operands,
			Lo:       n.Lo,
			Hi:       n.Hi,
			Name:     n.Name,
			Register: n.Register,
			File:     n.Span.File,
			Line:     n.Span.Line,
			Col:      n.Span.Col,
		}
		if n.Kind == graph.KindConst {
			lit := n.Literal
			rec.Literal = &lit
		}
		doc.Nodes = append(doc.Nodes, rec)
	}
	for _, r := range g.Registers() {
		doc.Registers = append(doc.Registers, RegisterRecord{
			Name: r.Name, Init: r.Init, Read: r.Read, Write: r.Write,
		})
	}
	return doc
}

// Graph rebuilds the in-memory arena from the document.
func (d *Document) Graph() (*graph.Graph, error) {
	if d.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("unsupported snapshot format version %d", d.FormatVersion)
	}

	nodes := make([]graph.Node, 0, len(d.Nodes))
	for _, rec := range d.Nodes {
		kind, ok := kindValues[rec.Kind]
		if !ok {
			return nil, fmt.Errorf("unknown operation kind %q at n%d", rec.Kind, rec.ID)
		}
		n := graph.Node{
			ID:       rec.ID,
			Kind:     kind,
			Operands: rec.Operands,
			Lo:       rec.Lo,
			Hi:       rec.Hi,
			Name:     rec.Name,
			Register: rec.Register,
			Span:     graph.Span{File: rec.File, Line: rec.Line, Col: rec.Col},
		}
		if rec.Literal != nil {
			n.Literal = *rec.Literal
		}
		nodes = append(nodes, n)
	}

	registers := make([]graph.Register, 0, len(d.Registers))
	for _, r := range d.Registers {
		registers = append(registers, graph.Register{
			Name: r.Name, Init: r.Init, Read: r.Read, Write: r.Write,
		})
	}
	return graph.Assemble(nodes, d.Outputs, registers)
}
