package interval

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dd0wney/veriflow/pkg/graph"
)

var noSpan = graph.Span{}

// buildAcyclic wires add/mul/div/compare nodes over two inputs.
func buildAcyclic(t *testing.T) (*graph.Graph, map[string]graph.NodeID) {
	t.Helper()
	b := graph.NewBuilder()
	ids := make(map[string]graph.NodeID)
	ids["a"] = b.Input("a", 0, 3, noSpan)
	ids["b"] = b.Input("b", 0, 1, noSpan)
	ids["sum"] = b.Add(ids["a"], ids["b"], noSpan)
	ids["diff"] = b.Sub(ids["a"], ids["b"], noSpan)
	ids["prod"] = b.Mul(ids["sum"], ids["diff"], noSpan)
	ids["cmp"] = b.Compare(ids["sum"], ids["prod"], noSpan)
	ids["sel"] = b.Mux(ids["cmp"], ids["sum"], ids["diff"], noSpan)
	b.MarkOutput(ids["sel"])
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return g, ids
}

// buildHoldLoop wires a converging feedback loop: the register either holds
// its value or reloads the literal 124.
func buildHoldLoop(t *testing.T) (*graph.Graph, map[string]graph.NodeID) {
	t.Helper()
	b := graph.NewBuilder()
	ids := make(map[string]graph.NodeID)
	if err := b.DeclareRegister("hold", 0); err != nil {
		t.Fatalf("DeclareRegister failed: %v", err)
	}
	ids["read"] = b.RegRead("hold", noSpan)
	ids["lit"] = b.Const(124, noSpan)
	ids["sel"] = b.Input("sel", 0, 1, noSpan)
	ids["mux"] = b.Mux(ids["sel"], ids["read"], ids["lit"], noSpan)
	ids["write"] = b.RegWrite("hold", ids["mux"], noSpan)
	b.MarkOutput(ids["mux"])
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return g, ids
}

// buildFreeCounter wires the canonical diverging loop: count := count + 1
// with no bound.
func buildFreeCounter(t *testing.T) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder()
	if err := b.DeclareRegister("count", 0); err != nil {
		t.Fatalf("DeclareRegister failed: %v", err)
	}
	read := b.RegRead("count", noSpan)
	one := b.Const(1, noSpan)
	sum := b.Add(read, one, noSpan)
	b.RegWrite("count", sum, noSpan)
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return g
}

func TestInferNoCycleSinglePass(t *testing.T) {
	g, ids := buildAcyclic(t)
	res, err := Infer(g, Options{})
	if err != nil {
		t.Fatalf("Infer failed: %v", err)
	}
	if res.Iterations != 1 {
		t.Errorf("Acyclic graph must converge in one pass, took %d", res.Iterations)
	}

	want := map[string]Interval{
		"sum":  New(0, 4),
		"diff": New(-1, 3),
		"prod": New(-4, 12),
		"cmp":  New(0, 1),
		"sel":  New(-1, 4),
	}
	for name, expected := range want {
		got := res.Intervals[ids[name]]
		if !got.Eq(expected) {
			t.Errorf("%s: got %v, want %v", name, got, expected)
		}
	}
}

func TestInferDivisionByZeroSpanningDivisor(t *testing.T) {
	b := graph.NewBuilder()
	num := b.Input("num", -20, 50, noSpan)
	den := b.Input("den", -2, 2, noSpan)
	quot := b.Div(num, den, noSpan)
	b.MarkOutput(quot)
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	res, err := Infer(g, Options{})
	if err != nil {
		t.Fatalf("Infer failed: %v", err)
	}
	// magnitude bound of the dividend
	if got := res.Intervals[quot]; !got.Eq(New(-50, 50)) {
		t.Errorf("Expected [-50, 50], got %v", got)
	}
}

func TestInferExactDivision(t *testing.T) {
	b := graph.NewBuilder()
	num := b.Input("num", 10, 100, noSpan)
	den := b.Const(4, noSpan)
	quot := b.Div(num, den, noSpan)
	b.MarkOutput(quot)
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	res, err := Infer(g, Options{})
	if err != nil {
		t.Fatalf("Infer failed: %v", err)
	}
	if got := res.Intervals[quot]; !got.Eq(New(2, 25)) {
		t.Errorf("Expected [2, 25], got %v", got)
	}
}

func TestInferConvergingLoop(t *testing.T) {
	g, ids := buildHoldLoop(t)
	res, err := Infer(g, Options{})
	if err != nil {
		t.Fatalf("Infer failed: %v", err)
	}
	// seed [0,0] unions with 124 once, then stabilizes
	if res.Iterations != 2 {
		t.Errorf("Expected convergence in 2 iterations, took %d", res.Iterations)
	}
	if got := res.Intervals[ids["read"]]; !got.Eq(New(0, 124)) {
		t.Errorf("Register read: got %v, want [0, 124]", got)
	}
}

func TestPointIntervalInvariance(t *testing.T) {
	g, ids := buildHoldLoop(t)
	res, err := Infer(g, Options{})
	if err != nil {
		t.Fatalf("Infer failed: %v", err)
	}
	lit := res.Intervals[ids["lit"]]
	if !lit.IsPoint() || !lit.Eq(Point(124)) {
		t.Errorf("Literal in feedback cycle widened: %v", lit)
	}
	if lit.Width() != 7 {
		t.Errorf("Expected width ceil(log2(125)) = 7, got %d", lit.Width())
	}
}

func TestInferDivergenceDetection(t *testing.T) {
	g := buildFreeCounter(t)
	_, err := Infer(g, Options{})
	if err == nil {
		t.Fatal("Unbounded counter must diverge, got a finite result")
	}

	var div *DivergenceError
	if !errors.As(err, &div) {
		t.Fatalf("Expected *DivergenceError, got %T: %v", err, err)
	}
	if div.Iterations != DefaultMaxIterations {
		t.Errorf("Expected cap %d iterations, got %d", DefaultMaxIterations, div.Iterations)
	}
	if len(div.Registers) != 1 || div.Registers[0].Name != "count" {
		t.Fatalf("Expected register 'count' reported, got %+v", div.Registers)
	}
	if len(div.Cycle) == 0 {
		t.Error("DivergenceError must carry the offending cycle")
	}
	if !div.Registers[0].Last.Contains(div.Registers[0].Prev) {
		t.Errorf("Last estimate %v must contain previous %v",
			div.Registers[0].Last, div.Registers[0].Prev)
	}
}

func TestInferMonotoneWidening(t *testing.T) {
	g := buildFreeCounter(t)

	// With cap k the seed has widened exactly k times: [0, k]. The seed
	// at each larger cap contains every smaller one, so widening is
	// monotone and never oscillates.
	var last Interval
	for _, capIters := range []int{1, 2, 5, 10} {
		_, err := Infer(g, Options{MaxIterations: capIters})
		var div *DivergenceError
		if !errors.As(err, &div) {
			t.Fatalf("cap %d: expected divergence, got %v", capIters, err)
		}
		seed := div.Registers[0].Last
		if !seed.Eq(New(0, int64(capIters))) {
			t.Errorf("cap %d: expected seed [0, %d], got %v", capIters, capIters, seed)
		}
		if capIters > 1 && !seed.Contains(last) {
			t.Errorf("cap %d: seed %v does not contain previous %v", capIters, seed, last)
		}
		last = seed
	}
}

func TestInferIdempotence(t *testing.T) {
	g, _ := buildHoldLoop(t)
	first, err := Infer(g, Options{})
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	second, err := Infer(g, Options{})
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	if !reflect.DeepEqual(first.Intervals, second.Intervals) {
		t.Error("Repeated inference on an unchanged graph must be identical")
	}
	if first.Iterations != second.Iterations {
		t.Errorf("Iteration counts differ: %d vs %d", first.Iterations, second.Iterations)
	}
}

func TestInferParallelMatchesSequential(t *testing.T) {
	// two disjoint hold loops plus a disjoint acyclic island
	b := graph.NewBuilder()
	for _, name := range []string{"left", "right"} {
		if err := b.DeclareRegister(name, 0); err != nil {
			t.Fatalf("DeclareRegister failed: %v", err)
		}
		read := b.RegRead(name, noSpan)
		lit := b.Const(9, noSpan)
		sel := b.Input(name+"_sel", 0, 1, noSpan)
		mux := b.Mux(sel, read, lit, noSpan)
		b.RegWrite(name, mux, noSpan)
	}
	x := b.Input("x", 0, 7, noSpan)
	b.MarkOutput(b.Add(x, x, noSpan))
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	seq, err := Infer(g, Options{})
	if err != nil {
		t.Fatalf("Sequential Infer failed: %v", err)
	}
	par, err := Infer(g, Options{Parallel: true, Workers: 3})
	if err != nil {
		t.Fatalf("Parallel Infer failed: %v", err)
	}
	if !reflect.DeepEqual(seq.Intervals, par.Intervals) {
		t.Error("Parallel inference must match sequential")
	}
}

func TestWidthsDerivation(t *testing.T) {
	g, ids := buildAcyclic(t)
	res, err := Infer(g, Options{})
	if err != nil {
		t.Fatalf("Infer failed: %v", err)
	}
	widths := res.Widths()
	if widths[ids["sum"]] != 3 { // [0,4]
		t.Errorf("sum width: got %d, want 3", widths[ids["sum"]])
	}
	if widths[ids["diff"]] != 3 { // [-1,3] signed
		t.Errorf("diff width: got %d, want 3", widths[ids["diff"]])
	}
}
