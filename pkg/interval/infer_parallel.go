package interval

import (
	"runtime"
	"sync"

	"github.com/dd0wney/veriflow/pkg/graph"
	"github.com/dd0wney/veriflow/pkg/parallel"
)

// inferParallel partitions the graph into weakly connected components and
// solves each with the sequential loop on a worker pool. Components share no
// nodes and no registers (a register couples its read and write into one
// component), so the merged result is identical to a sequential run.
func inferParallel(g *graph.Graph, opts Options) (*Result, error) {
	comps := connectedComponents(g)
	if len(comps) <= 1 {
		return inferSubset(g, nil, opts)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	pool, err := parallel.NewWorkerPool(workers)
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	results := make([]*Result, len(comps))
	errs := make([]error, len(comps))
	var wg sync.WaitGroup
	for i, comp := range comps {
		i, comp := i, comp
		wg.Add(1)
		pool.Submit(func() {
			defer wg.Done()
			results[i], errs[i] = inferSubset(g, comp, opts)
		})
	}
	wg.Wait()

	merged := &Result{Intervals: make(map[graph.NodeID]Interval, g.NumNodes())}
	for i := range comps {
		if errs[i] != nil {
			return nil, errs[i]
		}
		for id, iv := range results[i].Intervals {
			merged.Intervals[id] = iv
		}
		if results[i].Iterations > merged.Iterations {
			merged.Iterations = results[i].Iterations
		}
	}
	return merged, nil
}

// connectedComponents unions nodes over operand edges and register pairs
// and returns the membership sets.
func connectedComponents(g *graph.Graph) []map[graph.NodeID]bool {
	parent := make([]int, g.NumNodes())
	for i := range parent {
		parent[i] = i
	}
	var find func(x int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for i := 0; i < g.NumNodes(); i++ {
		for _, op := range g.Operands(graph.NodeID(i)) {
			union(i, int(op))
		}
	}
	for _, r := range g.Registers() {
		union(int(r.Read), int(r.Write))
	}

	byRoot := make(map[int]map[graph.NodeID]bool)
	for i := 0; i < g.NumNodes(); i++ {
		root := find(i)
		if byRoot[root] == nil {
			byRoot[root] = make(map[graph.NodeID]bool)
		}
		byRoot[root][graph.NodeID(i)] = true
	}

	comps := make([]map[graph.NodeID]bool, 0, len(byRoot))
	for i := 0; i < g.NumNodes(); i++ {
		if comp, ok := byRoot[find(i)]; ok {
			comps = append(comps, comp)
			delete(byRoot, find(i))
		}
	}
	return comps
}
