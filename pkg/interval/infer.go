package interval

import (
	"fmt"
	"strings"

	"github.com/dd0wney/veriflow/pkg/graph"
)

// DefaultMaxIterations caps the convergence loop. A feedback value with no
// modulus or bound (a free-running counter) never stabilizes; the cap turns
// that property of the source graph into a reported error instead of an
// endless analysis.
const DefaultMaxIterations = 64

// Options configures an inference run.
type Options struct {
	// MaxIterations overrides DefaultMaxIterations when positive.
	MaxIterations int
	// Parallel solves independent graph components concurrently. The
	// result is identical either way.
	Parallel bool
	// Workers bounds the pool size in parallel mode (0 = GOMAXPROCS).
	Workers int
}

// Result holds the inferred interval per node and the iteration count the
// convergence loop needed.
type Result struct {
	Intervals  map[graph.NodeID]Interval
	Iterations int
}

// Widths derives the inferred bit width per node.
func (r *Result) Widths() map[graph.NodeID]int {
	widths := make(map[graph.NodeID]int, len(r.Intervals))
	for id, iv := range r.Intervals {
		widths[id] = iv.Width()
	}
	return widths
}

// UnstableRegister records the last two estimates of a register seed that
// failed to stabilize.
type UnstableRegister struct {
	Name string
	Prev Interval
	Last Interval
}

// DivergenceError reports a feedback cycle whose interval failed to
// stabilize within the iteration cap.
type DivergenceError struct {
	Iterations int
	Cycle      []graph.NodeID
	Registers  []UnstableRegister
}

// Error implements the error interface.
func (e *DivergenceError) Error() string {
	var regs []string
	for _, r := range e.Registers {
		regs = append(regs, fmt.Sprintf("%s: %v then %v", r.Name, r.Prev, r.Last))
	}
	var ids []string
	for _, id := range e.Cycle {
		ids = append(ids, fmt.Sprintf("n%d", id))
	}
	return fmt.Sprintf("interval analysis diverged after %d iterations in cycle %s (%s)",
		e.Iterations, strings.Join(ids, " -> "), strings.Join(regs, "; "))
}

// Infer computes a sound value range for every node. The acyclic portion is
// evaluated once in dependency order; register-read nodes are seeded from
// their register's declared initial value and the whole graph is recomputed
// until every seed is a fixpoint of its register-write image. Seeds only
// grow (monotone widening), so a stabilizing graph converges; one that does
// not hits the iteration cap and fails with a DivergenceError naming the
// cycle and its last two estimates.
//
// The graph must already have passed Validate.
func Infer(g *graph.Graph, opts Options) (*Result, error) {
	if opts.Parallel {
		return inferParallel(g, opts)
	}
	return inferSubset(g, nil, opts)
}

// inferSubset runs the convergence loop over the whole graph, or over the
// node subset member when non-nil (used by the parallel path, where each
// weakly connected component is a closed subproblem).
func inferSubset(g *graph.Graph, member map[graph.NodeID]bool, opts Options) (*Result, error) {
	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}

	order, err := g.TopoOrder()
	if err != nil {
		return nil, err
	}

	seeds := make(map[string]Interval)
	prev := make(map[string]Interval)
	for _, r := range g.Registers() {
		if member != nil && !member[r.Read] {
			continue
		}
		seeds[r.Name] = Point(r.Init)
	}

	env := make([]Interval, g.NumNodes())
	var unstable []string
	iterations := 0
	for iterations < maxIter {
		iterations++

		for _, id := range order {
			if member != nil && !member[id] {
				continue
			}
			n, _ := g.Node(id)
			iv, err := transfer(g, n, env, seeds)
			if err != nil {
				return nil, err
			}
			env[id] = iv
		}

		unstable = unstable[:0]
		for _, r := range g.Registers() {
			seed, tracked := seeds[r.Name]
			if !tracked {
				continue
			}
			image := env[r.Write]
			if !seed.Contains(image) {
				prev[r.Name] = seed
				seeds[r.Name] = seed.Union(image)
				unstable = append(unstable, r.Name)
			}
		}
		if len(unstable) == 0 {
			result := &Result{
				Intervals:  make(map[graph.NodeID]Interval, g.NumNodes()),
				Iterations: iterations,
			}
			for _, id := range order {
				if member != nil && !member[id] {
					continue
				}
				result.Intervals[id] = env[id]
			}
			return result, nil
		}
	}

	return nil, divergenceError(g, iterations, unstable, seeds, prev)
}

// divergenceError names the cycle behind the registers still widening when
// the iteration cap was hit.
func divergenceError(g *graph.Graph, iterations int, unstable []string, seeds, prev map[string]Interval) *DivergenceError {
	err := &DivergenceError{Iterations: iterations}
	for _, name := range unstable {
		err.Registers = append(err.Registers, UnstableRegister{
			Name: name,
			Prev: prev[name],
			Last: seeds[name],
		})
	}
	for _, comp := range g.FeedbackComponents() {
		for _, reg := range comp.Registers {
			if reg == unstable[0] {
				err.Cycle = comp.Nodes
				return err
			}
		}
	}
	return err
}
