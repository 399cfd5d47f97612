package snapshot

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/dd0wney/veriflow/pkg/graph"
	"github.com/dd0wney/veriflow/pkg/interval"
)

func buildGraph(t *testing.T) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder()
	if err := b.DeclareRegister("acc", 3); err != nil {
		t.Fatalf("DeclareRegister failed: %v", err)
	}
	read := b.RegRead("acc", graph.Span{File: "m.hw", Line: 4, Col: 2})
	x := b.Input("x", 0, 15, graph.Span{File: "m.hw", Line: 1, Col: 1})
	lit := b.Const(7, graph.Span{File: "m.hw", Line: 5, Col: 9})
	sel := b.Compare(x, lit, graph.Span{File: "m.hw", Line: 5, Col: 5})
	mux := b.Mux(sel, read, lit, graph.Span{File: "m.hw", Line: 5, Col: 1})
	b.RegWrite("acc", mux, graph.Span{File: "m.hw", Line: 5, Col: 1})
	b.MarkOutput(mux)
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return g
}

func TestCaptureAndRebuild(t *testing.T) {
	g := buildGraph(t)
	doc := Capture(g)

	if doc.FormatVersion != FormatVersion {
		t.Errorf("Format version: got %d", doc.FormatVersion)
	}
	if len(doc.Nodes) != g.NumNodes() {
		t.Fatalf("Expected %d node records, got %d", g.NumNodes(), len(doc.Nodes))
	}
	if len(doc.Registers) != 1 || doc.Registers[0].Init != 3 {
		t.Fatalf("Register record lost: %+v", doc.Registers)
	}

	rebuilt, err := doc.Graph()
	if err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	if rebuilt.NumNodes() != g.NumNodes() {
		t.Fatalf("Node count changed across rebuild")
	}
	for i := 0; i < g.NumNodes(); i++ {
		orig, _ := g.Node(graph.NodeID(i))
		clone, _ := rebuilt.Node(graph.NodeID(i))
		if orig.Kind != clone.Kind || orig.Register != clone.Register || orig.Span != clone.Span {
			t.Errorf("n%d differs across rebuild: %+v vs %+v", i, orig, clone)
		}
	}
}

func TestRebuildAnalyzesIdentically(t *testing.T) {
	g := buildGraph(t)
	rebuilt, err := Capture(g).Graph()
	if err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	orig, err := interval.Infer(g, interval.Options{})
	if err != nil {
		t.Fatalf("Infer original failed: %v", err)
	}
	copied, err := interval.Infer(rebuilt, interval.Options{})
	if err != nil {
		t.Fatalf("Infer rebuilt failed: %v", err)
	}
	if !reflect.DeepEqual(orig.Intervals, copied.Intervals) {
		t.Error("Rebuilt graph must analyze identically")
	}
}

func TestFileRoundTrip(t *testing.T) {
	g := buildGraph(t)
	path := filepath.Join(t.TempDir(), "graph.vfgs")

	if err := Write(path, Capture(g)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	doc, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if _, err := doc.Graph(); err != nil {
		t.Fatalf("Rebuild from file failed: %v", err)
	}
}

func TestReadDetectsCorruption(t *testing.T) {
	g := buildGraph(t)
	path := filepath.Join(t.TempDir(), "graph.vfgs")
	if err := Write(path, Capture(g)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	data[len(data)/2] ^= 0xff
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := Read(path); err == nil {
		t.Error("Corrupted snapshot must be rejected")
	}
}

// A corrupt length header must be rejected before it drives the payload
// allocation, not after.
func TestReadRejectsOversizedLengthHeader(t *testing.T) {
	g := buildGraph(t)
	path := filepath.Join(t.TempDir(), "graph.vfgs")
	if err := Write(path, Capture(g)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	// bytes 5..8 hold the big-endian payload length
	data[5], data[6], data[7], data[8] = 0xff, 0xff, 0xff, 0xff
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, err = Read(path)
	if err == nil {
		t.Fatal("Oversized length header must be rejected")
	}
	if !strings.Contains(err.Error(), "exceeds limit") {
		t.Errorf("Expected a length limit error, got: %v", err)
	}
}

func TestReadRejectsForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-snapshot")
	if err := os.WriteFile(path, []byte("plain text, definitely not a snapshot"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := Read(path); err == nil {
		t.Error("Foreign file must be rejected")
	}
}
