package pathsum

import (
	"neckminer/internal/ir"
	"neckminer/internal/neckerr"
	"neckminer/internal/policy"
)

// SummarizeExitPath computes the summary table for a single exit path
// (spec.md §4.2, operation 1): it starts from the static properties of
// the *last* step's block (the leaf the path terminates at), then folds
// in every step's callee-summary table, from last to first. Folding in
// the opposite direction yields the same result under the default (sum)
// policy, but we match the documented traversal order exactly so a
// non-commutative custom policy still behaves the way the original
// engine does.
func SummarizeExitPath(prog ir.Program, funcName string, path FunctionPath, pol policy.Policy) (policy.Table, error) {
	accumulator := policy.Table{}

	if len(path) == 0 {
		return accumulator, nil
	}

	last := path[len(path)-1]
	fn, ok := prog.Function(funcName)
	if !ok {
		return nil, neckerr.MalformedProgram("function not found while summarizing exit path", neckerr.Location{Function: funcName})
	}
	block, ok := fn.Block(last.Block)
	if !ok {
		return nil, neckerr.MalformedProgram("block not found while summarizing exit path", neckerr.Location{Function: funcName, Block: last.Block})
	}

	loc := neckerr.Location{Function: funcName, Block: last.Block}
	if err := policy.Apply(accumulator, toTable(block.Props), pol, loc); err != nil {
		return nil, err
	}

	for i := len(path) - 1; i >= 0; i-- {
		step := path[i]
		loc := neckerr.Location{Function: funcName, Block: step.Block}
		if err := policy.Apply(accumulator, step.CalleeSum, pol, loc); err != nil {
			return nil, err
		}
	}

	return accumulator, nil
}

// MergeExitPathSummaries folds a list of per-exit-path summaries into
// one table under the exit-merge policy (spec.md §4.2, operation 2). The
// default policy (max) makes iteration direction irrelevant; a custom
// non-commutative policy would see left-to-right order.
func MergeExitPathSummaries(summaries []policy.Table, pol policy.Policy, loc neckerr.Location) (policy.Table, error) {
	final := policy.Table{}
	for _, s := range summaries {
		if err := policy.Apply(final, s, pol, loc); err != nil {
			return nil, err
		}
	}
	return final, nil
}

// MergeBasicBlockContribution folds summary into summarization in place
// under the basic-block contribution policy (spec.md §4.2, operation 3).
// Used when a completed callee's final summary is attributed back to
// the call-site block that invoked it.
func MergeBasicBlockContribution(summarization, summary policy.Table, pol policy.Policy, loc neckerr.Location) error {
	return policy.Apply(summarization, summary, pol, loc)
}

// SummarizeCompletePath computes a single numeric snapshot of "what has
// been traversed so far" along a complete path (spec.md §4.2, operation
// 4): each function-scoped segment is treated as an exit path and
// summarized under the exit-summary policy, then the per-segment
// summaries are folded from leaf to root under the contribution policy.
func SummarizeCompletePath(prog ir.Program, path CompletePath, policies policy.Policies) (policy.Table, error) {
	accumulate := policy.Table{}
	contribs := make([]policy.Table, 0, len(path))

	for _, seg := range path {
		contrib, err := SummarizeExitPath(prog, seg.Function, seg.Path, policies.ExitSummary)
		if err != nil {
			return nil, err
		}
		contribs = append(contribs, contrib)
	}

	for i := len(contribs) - 1; i >= 0; i-- {
		loc := neckerr.Location{Function: path[i].Function}
		if err := policy.Apply(accumulate, contribs[i], policies.Contribution, loc); err != nil {
			return nil, err
		}
	}

	return accumulate, nil
}

func toTable(props map[string]int) policy.Table {
	t := make(policy.Table, len(props))
	for k, v := range props {
		t[k] = v
	}
	return t
}
