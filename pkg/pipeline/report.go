package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dd0wney/veriflow/pkg/depth"
	"github.com/dd0wney/veriflow/pkg/graph"
	"github.com/dd0wney/veriflow/pkg/interval"
	"github.com/dd0wney/veriflow/pkg/policy"
)

// Report collects everything a single analysis run produced.
type Report struct {
	RunID      string
	Threshold  int
	Iterations int

	Intervals map[graph.NodeID]interval.Interval
	Widths    map[graph.NodeID]int

	Depths      map[graph.NodeID]depth.Record
	Diagnostics []depth.Diagnostic

	// SlackNs is nil when the oracle never answered.
	SlackNs  *float64
	Decision policy.Decision
	Elapsed  time.Duration
}

// Summary renders the run the way the build log prints it.
func (r *Report) Summary() string {
	var b strings.Builder

	fmt.Fprintf(&b, "run %s: %d nodes inferred in %d iteration(s), threshold %d\n",
		r.RunID, len(r.Intervals), r.Iterations, r.Threshold)

	if len(r.Diagnostics) == 0 {
		b.WriteString("no paths over threshold\n")
	} else {
		fmt.Fprintf(&b, "%d path(s) over threshold:\n", len(r.Diagnostics))
		for _, d := range r.Diagnostics {
			fmt.Fprintf(&b, "  %s\n", d)
		}
	}

	if r.SlackNs != nil {
		fmt.Fprintf(&b, "oracle slack: %.3f ns\n", *r.SlackNs)
	} else {
		b.WriteString("oracle slack: not available\n")
	}

	verdict := "PROCEED"
	if !r.Decision.Proceed {
		verdict = "BLOCK"
	}
	fmt.Fprintf(&b, "gate: %s (%s)\n", verdict, r.Decision.Reason)
	return b.String()
}

// WidestNodes returns the n nodes with the largest inferred widths, widest
// first, for the report's width table.
func (r *Report) WidestNodes(n int) []graph.NodeID {
	ids := make([]graph.NodeID, 0, len(r.Widths))
	for id := range r.Widths {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if r.Widths[ids[i]] != r.Widths[ids[j]] {
			return r.Widths[ids[i]] > r.Widths[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if n < len(ids) {
		ids = ids[:n]
	}
	return ids
}
