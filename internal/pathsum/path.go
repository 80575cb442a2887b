// Package pathsum implements the path and summary data model and pure
// utility functions of spec.md §3 and §4.2: path steps, function-scoped
// and complete paths, and the exit-path summarization/merging/folding
// operations that turn a path into a single numeric snapshot.
package pathsum

import "neckminer/internal/policy"

// Step is a single entry in a function-scoped path: the block visited,
// the instruction index the explorer yielded at (nil if not yielded at
// this step), and a live reference to that block's callee-summary
// table — the contributions calls made from this block have already
// folded back (spec.md §3's "Path step").
type Step struct {
	Block      string
	YieldIndex *int
	CalleeSum  policy.Table
}

// FunctionPath is an ordered sequence of Steps from a function's entry
// block to the block currently being visited (spec.md §3's
// "Function-scoped path").
type FunctionPath []Step

// Clone deep-copies a function-scoped path, including independent
// copies of every step's callee-summary table. This is what makes an
// exit-path snapshot immune to later mutation of the live explorer
// state (spec.md §3 invariant 5).
func (fp FunctionPath) Clone() FunctionPath {
	out := make(FunctionPath, len(fp))
	for i, step := range fp {
		var idx *int
		if step.YieldIndex != nil {
			v := *step.YieldIndex
			idx = &v
		}
		out[i] = Step{
			Block:      step.Block,
			YieldIndex: idx,
			CalleeSum:  step.CalleeSum.Clone(),
		}
	}
	return out
}

// Segment pairs a function name with its function-scoped path, one
// entry per explorer on the search stack (spec.md §3's "Complete
// path" is an ordered sequence of these, root to leaf).
type Segment struct {
	Function string
	Path     FunctionPath
}

// CompletePath is the ordered sequence of Segments from the root
// explorer to the currently active one. The last segment's final step
// names the block currently being visited.
type CompletePath []Segment

// Functions returns just the function names along the path, in order —
// the Go counterpart of NeckSearch.get_function_path().
func (cp CompletePath) Functions() []string {
	out := make([]string, len(cp))
	for i, seg := range cp {
		out[i] = seg.Function
	}
	return out
}
