package search

import (
	"neckminer/internal/ir"
	"neckminer/internal/neckerr"
	"neckminer/internal/pathsum"
	"neckminer/internal/policy"
)

// ExpandKind distinguishes the three outcomes Explorer.Expand can
// produce, matching the ["yield"|"expanded", ...] return tuples of the
// Python BB_BFS_Q.expand().
type ExpandKind int

const (
	// ExpandIdle means the explorer is already Finished; there was
	// nothing to do.
	ExpandIdle ExpandKind = iota
	// ExpandYield means a participating call was found; the explorer
	// is now in the Yielded state and the driver must decide whether
	// to descend into Callee.
	ExpandYield
	// ExpandDone means the visiting block's instructions were fully
	// scanned with no (further) yield; successors were enqueued, or
	// (if the block is terminal) an exit path was recorded.
	ExpandDone
)

// ExpandResult reports the outcome of one Explorer.Expand call.
type ExpandResult struct {
	Kind     ExpandKind
	Callee   string
	InstIdx  int
	Enqueued []string
}

// Explorer is a per-function breadth-first walk over one function's
// block graph, with yield/resume at call instructions to participating
// functions (spec.md §4.3's "Per-function explorer", the Go
// counterpart of the Python BB_BFS_Q).
//
// Per spec.md §9's design notes, the yield/resume mechanism is an
// explicit saved cursor (yieldInsts/yieldNextIdx) rather than a host
// coroutine: the driver needs to introspect this cursor across calls to
// Expand.
type Explorer struct {
	FuncName            string
	ChokePointsForbidden bool

	queue    []string
	observed map[string]bool
	parent   map[string]string

	visiting      string
	visitingValid bool
	instProcessed bool
	chokep        bool

	yielded      bool
	yieldInsts   []string
	yieldNextIdx int
	yieldCallee  string
	yieldInstIdx int

	// exitPaths holds, in BFS discovery order, one deep-copied
	// function-scoped path per no-successor block reached. Only the
	// first BFS arrival at each terminal is captured — spec.md §9's
	// documented, known limitation, preserved here rather than fixed.
	exitPaths []pathsum.FunctionPath

	calleeSummaries map[string]policy.Table

	log Logger
}

// NewExplorer creates an explorer rooted at entry, matching
// BB_BFS_Q.__init__.
func NewExplorer(funcName, entry string, chokePointsForbidden bool, log Logger) *Explorer {
	if log == nil {
		log = NopLogger
	}
	return &Explorer{
		FuncName:             funcName,
		ChokePointsForbidden: chokePointsForbidden,
		queue:                []string{entry},
		observed:             map[string]bool{entry: true},
		parent:               map[string]string{},
		calleeSummaries:      map[string]policy.Table{},
		log:                  log,
	}
}

// Len reports how many blocks remain queued to visit.
func (e *Explorer) Len() int { return len(e.queue) }

// Chokep reports the choke-point flag observed at the most recent
// Visit call.
func (e *Explorer) Chokep() bool { return e.chokep }

// Finished reports whether this explorer has no more work: its queue is
// empty and the currently visiting block's instructions have been fully
// processed. Checks the invariant that an explorer cannot be both
// yielded and have its instructions processed (spec.md §3 invariant 1)
// and panics if violated, since that is a programmer error rather than
// a recoverable condition (spec.md §7).
func (e *Explorer) Finished() bool {
	if e.yielded && e.instProcessed {
		panic(neckerr.InvariantViolation(
			"explorer cannot be yielded and have processed instructions at the same time",
			neckerr.Location{Function: e.FuncName}))
	}
	return !e.yielded && len(e.queue) == 0 && e.instProcessed
}

// GetCalleeSummary returns the live callee-summary table for a block,
// creating an empty one on first reference. The returned table is a
// map and thus a reference: merges into it mutate the explorer's state.
func (e *Explorer) GetCalleeSummary(block string) policy.Table {
	t, ok := e.calleeSummaries[block]
	if !ok {
		t = policy.Table{}
		e.calleeSummaries[block] = t
	}
	return t
}

// AccumulateCalleeContribution folds a completed callee's final
// contribution into the currently visiting block's callee-summary
// table (spec.md §3 invariant 6). Called by the driver once a pushed
// explorer finishes and is popped.
func (e *Explorer) AccumulateCalleeContribution(finalContrib policy.Table, pol policy.Policy) error {
	csum := e.GetCalleeSummary(e.visiting)
	loc := neckerr.Location{Function: e.FuncName, Block: e.visiting}
	return pathsum.MergeBasicBlockContribution(csum, finalContrib, pol, loc)
}

// ComputeFinalContribution summarizes every captured exit path and
// merges the results into one summary table, handed to the parent
// explorer once this one finishes (spec.md §4.3).
func (e *Explorer) ComputeFinalContribution(prog ir.Program, policies policy.Policies) (policy.Table, error) {
	results := make([]policy.Table, 0, len(e.exitPaths))
	for _, ep := range e.exitPaths {
		contrib, err := pathsum.SummarizeExitPath(prog, e.FuncName, ep, policies.ExitSummary)
		if err != nil {
			return nil, err
		}
		results = append(results, contrib)
	}
	loc := neckerr.Location{Function: e.FuncName}
	return pathsum.MergeExitPathSummaries(results, policies.ExitMerge, loc)
}

// Visit dequeues the next pending block, observes its choke-point flag
// exactly once (spec.md §3 invariant 7, before any instruction-level
// expansion), and returns (block name, choke-point flag). Visiting while
// yielded or with an empty queue is a programmer error, not a data
// error (spec.md §7): both panic, matching Finished.
func (e *Explorer) Visit(prog ir.Program) (string, bool, error) {
	if e.yielded {
		panic(neckerr.InvariantViolation("cannot visit while yielded", neckerr.Location{Function: e.FuncName}))
	}
	if len(e.queue) == 0 {
		panic(neckerr.InvariantViolation("visit called with an empty queue", neckerr.Location{Function: e.FuncName}))
	}

	e.visiting, e.queue = e.queue[0], e.queue[1:]
	e.visitingValid = true

	block, err := e.lookupBlock(prog, e.visiting)
	if err != nil {
		return "", false, err
	}
	e.chokep = block.Chokep
	e.instProcessed = false

	e.log.Debugf("visit: F[%s]@%s chokep=%v", e.FuncName, e.visiting, e.chokep)
	return e.visiting, e.chokep, nil
}

// CurrentPath reconstructs the function-scoped path from entry to the
// block currently being visited by walking the parent map, attaching
// each block's live callee-summary table reference (spec.md §4.3).
func (e *Explorer) CurrentPath() pathsum.FunctionPath {
	if !e.visitingValid {
		return pathsum.FunctionPath{}
	}

	var path pathsum.FunctionPath
	if e.yielded {
		idx := e.yieldInstIdx
		path = pathsum.FunctionPath{{Block: e.visiting, YieldIndex: &idx, CalleeSum: e.GetCalleeSummary(e.visiting)}}
	} else {
		path = pathsum.FunctionPath{{Block: e.visiting, YieldIndex: nil, CalleeSum: e.GetCalleeSummary(e.visiting)}}
	}

	cur := e.visiting
	for {
		parent, ok := e.parent[cur]
		if !ok {
			break
		}
		path = append(path, pathsum.Step{Block: parent, YieldIndex: nil, CalleeSum: e.GetCalleeSummary(parent)})
		cur = parent
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Expand scans the visiting block's instructions (resuming a saved
// cursor if yielded), yields at the first call to a participating
// function, and otherwise marks the instructions processed and either
// enqueues unobserved successors or records an exit path for a
// terminal block (spec.md §4.3).
func (e *Explorer) Expand(prog ir.Program, participation ir.ParticipationSet) (ExpandResult, error) {
	if e.Finished() {
		return ExpandResult{Kind: ExpandIdle}, nil
	}

	var insts []string
	var startIdx int

	if e.yielded {
		e.log.Debugf("expand: resume F[%s]@%s", e.FuncName, e.visiting)
		insts = e.yieldInsts
		startIdx = e.yieldNextIdx
		e.yielded = false
		e.yieldInsts = nil
	} else {
		e.log.Debugf("expand: start F[%s]@%s", e.FuncName, e.visiting)
		block, err := e.lookupBlock(prog, e.visiting)
		if err != nil {
			return ExpandResult{}, err
		}
		insts = block.Inst
		startIdx = 0
	}

	for idx := startIdx; idx < len(insts); idx++ {
		callee, isCall := ir.CalleeOf(insts[idx])
		if !isCall {
			continue
		}
		if !participation[callee] {
			e.log.Debugf("expand: no_yield F[%s]@%s:[%d] %s", e.FuncName, e.visiting, idx, insts[idx])
			continue
		}

		e.yielded = true
		e.yieldInsts = insts
		e.yieldNextIdx = idx + 1
		e.yieldCallee = callee
		e.yieldInstIdx = idx

		e.log.Debugf("expand: yield F[%s]@%s:[%d] -> %s", e.FuncName, e.visiting, idx, callee)
		return ExpandResult{Kind: ExpandYield, Callee: callee, InstIdx: idx}, nil
	}

	if e.instProcessed {
		// Programmer error, not a data error (spec.md §7): panics,
		// matching Finished and Visit.
		panic(neckerr.InvariantViolation(
			"attempted to expand a block whose instructions were already processed",
			neckerr.Location{Function: e.FuncName, Block: e.visiting}))
	}
	e.instProcessed = true

	block, err := e.lookupBlock(prog, e.visiting)
	if err != nil {
		return ExpandResult{}, err
	}

	var enqueued []string
	if block.Succ != nil {
		for _, succ := range block.Succ {
			if !e.observed[succ] {
				e.observed[succ] = true
				e.parent[succ] = e.visiting
				e.queue = append(e.queue, succ)
				enqueued = append(enqueued, succ)
			}
		}
	} else {
		e.exitPaths = append(e.exitPaths, e.CurrentPath().Clone())
	}

	e.log.Debugf("expand: end F[%s]@%s enqueued=%v", e.FuncName, e.visiting, enqueued)
	return ExpandResult{Kind: ExpandDone, Enqueued: enqueued}, nil
}

func (e *Explorer) lookupBlock(prog ir.Program, name string) (*ir.Block, error) {
	fn, ok := prog.Function(e.FuncName)
	if !ok {
		return nil, neckerr.MalformedProgram("function not found", neckerr.Location{Function: e.FuncName})
	}
	block, ok := fn.Block(name)
	if !ok {
		return nil, neckerr.MalformedProgram("block not found", neckerr.Location{Function: e.FuncName, Block: name})
	}
	return block, nil
}
