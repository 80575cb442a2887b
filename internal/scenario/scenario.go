// Package scenario implements the test-replay harness of spec.md §8: it
// runs a search.Engine to completion while comparing each visit's
// reconstructed path and path summary against expectations embedded in
// the program description, exactly as the Python source's test4()
// function does with its "unit-test-data" per block.
package scenario

import (
	"fmt"

	"neckminer/internal/ir"
	"neckminer/internal/pathsum"
	"neckminer/internal/policy"
	"neckminer/internal/search"
)

// VisitExpectation is one entry in the ordered list of expectations a
// block carries, one per successive BFS visit to it (spec.md §8's
// "expected-complete-path" and "expected-complete-path-summary").
type VisitExpectation struct {
	// Path is the expected complete path rendered as "func@block"
	// segments, root to leaf. A nil Path skips the path comparison for
	// this visit (some fixtures only care about the summary).
	Path []string
	// Summary is the expected summary of the complete path, as
	// computed by pathsum.SummarizeCompletePath.
	Summary map[string]int
}

// Scenario is a full set of per-block visit expectations, keyed by
// "function@block".
type Scenario struct {
	Expectations map[string][]VisitExpectation
}

// VisitCounter tracks how many times each "function@block" key has been
// visited so far, indexing into a Scenario's expectation lists — the Go
// counterpart of the Python test4() visit_count dict.
type VisitCounter struct {
	counts map[string]int
}

func NewVisitCounter() *VisitCounter {
	return &VisitCounter{counts: map[string]int{}}
}

// Next returns the current visit index for key and advances it.
func (c *VisitCounter) Next(key string) int {
	idx := c.counts[key]
	c.counts[key]++
	return idx
}

// Mismatch describes one expectation that did not hold during a replay.
type Mismatch struct {
	Key      string
	VisitIdx int
	Reason   string
}

func (m Mismatch) Error() string {
	return fmt.Sprintf("at %s visit %d: %s", m.Key, m.VisitIdx, m.Reason)
}

func pathKey(funcName, block string) string {
	return funcName + "@" + block
}

func renderPath(cp pathsum.CompletePath) []string {
	out := make([]string, 0, len(cp))
	for _, seg := range cp {
		if len(seg.Path) == 0 {
			continue
		}
		last := seg.Path[len(seg.Path)-1]
		out = append(out, pathKey(seg.Function, last.Block))
	}
	return out
}

func summaryEqual(got policy.Table, want map[string]int) bool {
	if len(got) != len(want) {
		return false
	}
	for k, v := range want {
		if got[k] != v {
			return false
		}
	}
	return true
}

func pathEqual(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// Replay drives eng to completion, comparing each visit's reconstructed
// complete path and complete-path summary against sc. It returns the
// first Mismatch encountered, if any, or nil if every expectation held
// (or a (function,block) had no expectations recorded, which is not a
// failure — fixtures may only annotate the visits they care about).
func Replay(prog ir.Program, eng *search.Engine, policies policy.Policies, sc *Scenario) error {
	counter := NewVisitCounter()
	var mismatch error

	visitor := func(funcName, block string, chokep, forbidden bool, path pathsum.CompletePath) bool {
		key := pathKey(funcName, block)
		idx := counter.Next(key)

		exps, ok := sc.Expectations[key]
		if !ok || idx >= len(exps) {
			return true
		}
		exp := exps[idx]

		summary, err := pathsum.SummarizeCompletePath(prog, path, policies)
		if err != nil {
			mismatch = err
			return false
		}

		if exp.Summary != nil && !summaryEqual(summary, exp.Summary) {
			mismatch = Mismatch{Key: key, VisitIdx: idx, Reason: fmt.Sprintf("summary mismatch: got %v want %v", summary, exp.Summary)}
			return false
		}

		if exp.Path != nil {
			got := renderPath(path)
			if !pathEqual(got, exp.Path) {
				mismatch = Mismatch{Key: key, VisitIdx: idx, Reason: fmt.Sprintf("path mismatch: got %v want %v", got, exp.Path)}
				return false
			}
		}

		return true
	}

	if _, _, err := eng.VisitAll(visitor); err != nil {
		return err
	}
	return mismatch
}
