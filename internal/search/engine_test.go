package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neckminer/internal/ir"
	"neckminer/internal/pathsum"
	"neckminer/internal/policy"
)

func defaultPolicies(props ...string) policy.Policies {
	return policy.Policies{
		ExitSummary:  policy.SameDefault(policy.Sum, props...),
		ExitMerge:    policy.SameDefault(policy.Max, props...),
		Contribution: policy.SameDefault(policy.Sum, props...),
	}
}

type visitRecord struct {
	funcName  string
	block     string
	chokep    bool
	forbidden bool
	summary   policy.Table
}

func runToCompletion(t *testing.T, prog ir.Program, participation ir.ParticipationSet, start string) []visitRecord {
	t.Helper()
	policies := defaultPolicies("numSucceededLoopHeads")
	eng, err := NewEngine(prog, participation, policies, start, nil)
	require.NoError(t, err)

	var records []visitRecord
	visitor := func(funcName, block string, chokep, forbidden bool, path pathsum.CompletePath) bool {
		summary, err := pathsum.SummarizeCompletePath(prog, path, policies)
		require.NoError(t, err)
		records = append(records, visitRecord{funcName: funcName, block: block, chokep: chokep, forbidden: forbidden, summary: summary})
		return true
	}

	_, _, err = eng.VisitAll(visitor)
	require.NoError(t, err)
	return records
}

func findVisit(records []visitRecord, funcName, block string) (visitRecord, bool) {
	for _, r := range records {
		if r.funcName == funcName && r.block == block {
			return r, true
		}
	}
	return visitRecord{}, false
}

// S1 — trivial entry.
func TestScenarioTrivialEntry(t *testing.T) {
	prog := ir.Program{
		"main": &ir.Function{
			Entry: "b0",
			Bbs: map[string]*ir.Block{
				"b0": {Chokep: true},
			},
		},
	}
	records := runToCompletion(t, prog, ir.ParticipationSet{}, "main")

	require.Len(t, records, 1)
	assert.Equal(t, "main", records[0].funcName)
	assert.Equal(t, "b0", records[0].block)
	assert.Empty(t, records[0].summary)
}

// S2 — straight line, all choke-points except the last block.
func TestScenarioStraightLine(t *testing.T) {
	prog := ir.Program{
		"main": &ir.Function{
			Entry: "b0",
			Bbs: map[string]*ir.Block{
				"b0": {Succ: []string{"b1"}, Chokep: true},
				"b1": {Succ: []string{"b2"}, Chokep: true},
				"b2": {Chokep: false},
			},
		},
	}
	records := runToCompletion(t, prog, ir.ParticipationSet{}, "main")

	require.Len(t, records, 3)
	assert.Equal(t, []string{"b0", "b1", "b2"}, []string{records[0].block, records[1].block, records[2].block})
	for _, r := range records {
		assert.Empty(t, r.summary)
	}
}

// S3 — single call without recursion: the callee's block visit must be
// interleaved between the caller's blocks.
func TestScenarioSingleCallNoRecursion(t *testing.T) {
	prog := ir.Program{
		"main": &ir.Function{
			Entry: "b0",
			Bbs: map[string]*ir.Block{
				"b0": {Succ: []string{"b1"}},
				"b1": {Inst: []string{"call f0"}, Succ: []string{"b2"}},
				"b2": {},
			},
		},
		"f0": &ir.Function{
			Entry: "c0",
			Bbs: map[string]*ir.Block{
				"c0": {},
			},
		},
	}
	participation := ir.ParticipationSet{"f0": true}
	records := runToCompletion(t, prog, participation, "main")

	var order []string
	for _, r := range records {
		order = append(order, r.funcName+"@"+r.block)
	}
	assert.Equal(t, []string{"main@b0", "main@b1", "f0@c0", "main@b2"}, order)
}

// S4 — loop inside callee raises the loop count seen at the resumed
// caller block.
func TestScenarioLoopInsideCalleeRaisesCount(t *testing.T) {
	prog := ir.Program{
		"main": &ir.Function{
			Entry: "b0",
			Bbs: map[string]*ir.Block{
				"b0": {Succ: []string{"b1"}},
				"b1": {Inst: []string{"call f0"}, Succ: []string{"b2"}},
				"b2": {},
			},
		},
		"f0": &ir.Function{
			Entry: "h0",
			Bbs: map[string]*ir.Block{
				"h0": {Succ: []string{"h1"}},
				"h1": {Props: map[string]int{"numSucceededLoopHeads": 1}},
			},
		},
	}
	participation := ir.ParticipationSet{"f0": true}
	records := runToCompletion(t, prog, participation, "main")

	var last visitRecord
	for _, r := range records {
		if r.funcName == "main" && r.block == "b2" {
			last = r
		}
	}
	assert.Equal(t, 1, last.summary["numSucceededLoopHeads"])
}

// S5 — refused self-recursion: the inner call is ignored, the search
// still terminates, and the final summary is all zero.
func TestScenarioRefusedSelfRecursion(t *testing.T) {
	prog := ir.Program{
		"main": &ir.Function{
			Entry: "b0",
			Bbs: map[string]*ir.Block{
				"b0": {Succ: []string{"b1"}},
				"b1": {Inst: []string{"call f0"}, Succ: []string{"b2"}},
				"b2": {},
			},
		},
		"f0": &ir.Function{
			Entry: "c0",
			Bbs: map[string]*ir.Block{
				"c0": {Inst: []string{"call f0"}},
			},
		},
	}
	participation := ir.ParticipationSet{"f0": true}
	records := runToCompletion(t, prog, participation, "main")

	var funcs []string
	for _, r := range records {
		funcs = append(funcs, r.funcName)
	}
	assert.Contains(t, funcs, "f0")
	assert.Equal(t, 1, countOccurrences(funcs, "f0"), "recursion into f0 from inside f0 must be refused")

	last := records[len(records)-1]
	assert.Equal(t, "main", last.funcName)
	assert.Equal(t, "b2", last.block)
	assert.Empty(t, last.summary)
}

// S6 — back-chain recursion refused: main -> f0 -> f1 -> f2 -> f0, the
// final call is refused and the search backtracks cleanly.
func TestScenarioBackChainRecursionRefused(t *testing.T) {
	prog := ir.Program{
		"main": &ir.Function{
			Entry: "b0",
			Bbs: map[string]*ir.Block{
				"b0": {Succ: []string{"b1"}},
				"b1": {Inst: []string{"call f0"}, Succ: []string{"b2"}, Chokep: true},
				"b2": {},
			},
		},
		"f0": &ir.Function{
			Entry: "x0",
			Bbs: map[string]*ir.Block{
				"x0": {Inst: []string{"call f1"}},
			},
		},
		"f1": &ir.Function{
			Entry: "y0",
			Bbs: map[string]*ir.Block{
				"y0": {Inst: []string{"call f2"}},
			},
		},
		"f2": &ir.Function{
			Entry: "z0",
			Bbs: map[string]*ir.Block{
				"z0": {Inst: []string{"call f0"}},
			},
		},
	}
	participation := ir.ParticipationSet{"f0": true, "f1": true, "f2": true}
	records := runToCompletion(t, prog, participation, "main")

	var funcs []string
	for _, r := range records {
		funcs = append(funcs, r.funcName)
	}
	assert.Equal(t, []string{"main", "main", "f0", "f1", "f2", "main"}, funcs)

	last := records[len(records)-1]
	assert.Equal(t, "b2", last.block)

	// Choke-points-forbidden propagation (spec.md §8 testable property
	// 5): main@b1 is itself a choke point, so the push into f0 carries
	// forbidChoke=false (!Chokep() is false, and main's own explorer was
	// never forbidden). f0's call site is not a choke point, so the push
	// into f1 carries forbidChoke=true; once true it latches and stays
	// true for f2, since forbidChoke ORs in the parent's own flag.
	main0, ok := findVisit(records, "main", "b0")
	require.True(t, ok)
	assert.False(t, main0.forbidden)

	f0Visit, ok := findVisit(records, "f0", "x0")
	require.True(t, ok)
	assert.False(t, f0Visit.forbidden, "f0 is pushed from a choke-point call site, so it must not be forbidden")

	f1Visit, ok := findVisit(records, "f1", "y0")
	require.True(t, ok)
	assert.True(t, f1Visit.forbidden, "f1 is pushed from a non-choke-point call site, so it must be forbidden")

	f2Visit, ok := findVisit(records, "f2", "z0")
	require.True(t, ok)
	assert.True(t, f2Visit.forbidden, "forbidden must latch true once set, regardless of f2's own call site")

	mainFinal, ok := findVisit(records, "main", "b2")
	require.True(t, ok)
	assert.False(t, mainFinal.forbidden, "backtracking to the root explorer must not carry a callee's forbidden flag")
}

func countOccurrences(list []string, s string) int {
	n := 0
	for _, v := range list {
		if v == s {
			n++
		}
	}
	return n
}

func TestEngineReinitializeUnknownStartFunction(t *testing.T) {
	prog := ir.Program{}
	_, err := NewEngine(prog, ir.ParticipationSet{}, policy.Policies{}, "ghost", nil)
	assert.Error(t, err)
}

func TestEngineFunctionPathRefusesRecursion(t *testing.T) {
	prog := ir.Program{
		"main": &ir.Function{
			Entry: "b0",
			Bbs: map[string]*ir.Block{
				"b0": {Inst: []string{"call main"}},
			},
		},
	}
	participation := ir.ParticipationSet{"main": true}
	records := runToCompletion(t, prog, participation, "main")
	require.Len(t, records, 1)
	assert.Equal(t, "main", records[0].funcName)
}
