package search

import (
	"neckminer/internal/ir"
	"neckminer/internal/neckerr"
	"neckminer/internal/pathsum"
	"neckminer/internal/policy"
)

// Visitor is the caller-supplied callback invoked once per visited
// block (spec.md §4.5). Its return value is the continuation signal
// VisitAll uses to decide whether to keep searching; the engine imposes
// no other semantics on it.
type Visitor func(funcName, block string, chokep, forbidden bool, path pathsum.CompletePath) bool

// Engine is the cross-function driver of spec.md §4.4 (the Go
// counterpart of the Python NeckSearch): it owns the search stack of
// per-function explorers and interleaves them into a single
// depth-first-over-calls, breadth-first-within-function traversal.
type Engine struct {
	prog          ir.Program
	participation ir.ParticipationSet
	policies      policy.Policies
	startFunc     string
	stack         []*Explorer
	log           Logger
}

// NewEngine constructs a driver rooted at startFunc and initializes its
// search stack (spec.md §6's constructor).
func NewEngine(prog ir.Program, participation ir.ParticipationSet, policies policy.Policies, startFunc string, log Logger) (*Engine, error) {
	if log == nil {
		log = NopLogger
	}
	e := &Engine{
		prog:          prog,
		participation: participation,
		policies:      policies,
		startFunc:     startFunc,
		log:           log,
	}
	if err := e.Reinitialize(); err != nil {
		return nil, err
	}
	return e, nil
}

// Reinitialize resets the driver's state back to the entry of its start
// function, discarding all search progress.
func (e *Engine) Reinitialize() error {
	fn, ok := e.prog.Function(e.startFunc)
	if !ok {
		return neckerr.MalformedProgram("start function not found in program", neckerr.Location{Function: e.startFunc})
	}
	e.stack = []*Explorer{NewExplorer(e.startFunc, fn.Entry, false, e.log)}
	return nil
}

func (e *Engine) active() *Explorer { return e.stack[len(e.stack)-1] }

// Finished reports whether the whole search is complete: the stack has
// unwound to the root explorer and the root has no more work.
func (e *Engine) Finished() bool {
	return len(e.stack) == 1 && e.stack[0].Finished()
}

// CompletePath returns the per-function path segments along the entire
// current search stack, root to leaf (spec.md §6's get_complete_path).
func (e *Engine) CompletePath() pathsum.CompletePath {
	cp := make(pathsum.CompletePath, len(e.stack))
	for i, ex := range e.stack {
		cp[i] = pathsum.Segment{Function: ex.FuncName, Path: ex.CurrentPath()}
	}
	return cp
}

// FunctionPath returns just the function names along the search stack,
// root to leaf (spec.md §6's get_function_path). It is also how the
// driver refuses recursion: a callee already present in this list is
// never descended into again.
func (e *Engine) FunctionPath() []string {
	out := make([]string, len(e.stack))
	for i, ex := range e.stack {
		out[i] = ex.FuncName
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// VisitNext performs one visit and then expands the active explorer
// until the next visit is ready, backtracking through finished
// explorers and descending into callees as needed (spec.md §4.4).
func (e *Engine) VisitNext(visitor Visitor) (moreWork bool, visitorCalled bool, visitorReturn any, err error) {
	active := e.active()
	if active.Len() == 0 {
		return !e.Finished(), false, nil, nil
	}

	v, chokep, err := active.Visit(e.prog)
	if err != nil {
		return false, false, nil, err
	}

	completePath := e.CompletePath()
	ret := visitor(active.FuncName, v, chokep, active.ChokePointsForbidden, completePath)

	for {
		outcome, err := active.Expand(e.prog, e.participation)
		if err != nil {
			return false, true, ret, err
		}

		if active.Finished() {
			if len(e.stack) == 1 {
				break
			}

			finalContrib, err := active.ComputeFinalContribution(e.prog, e.policies)
			if err != nil {
				return false, true, ret, err
			}

			e.stack = e.stack[:len(e.stack)-1]
			active = e.active()
			if err := active.AccumulateCalleeContribution(finalContrib, e.policies.Contribution); err != nil {
				return false, true, ret, err
			}
			e.log.Debugf("backtrack: F[%s]@%s", active.FuncName, active.visiting)
			continue
		}

		if outcome.Kind == ExpandYield {
			fpath := e.FunctionPath()
			callee := outcome.Callee

			if containsString(fpath, callee) {
				e.log.Debugf("yield: ignore recursion into %s", callee)
				continue
			}

			calleeFn, ok := e.prog.Function(callee)
			if !ok {
				return false, true, ret, neckerr.UnknownCallee(callee, neckerr.Location{Function: active.FuncName, Block: active.visiting})
			}

			forbidChoke := !active.Chokep() || active.ChokePointsForbidden
			e.log.Debugf("yield: recurse into %s@%s forbid=%v", callee, calleeFn.Entry, forbidChoke)

			child := NewExplorer(callee, calleeFn.Entry, forbidChoke, e.log)
			e.stack = append(e.stack, child)
			active = child
			break
		}

		break
	}

	return !e.Finished(), true, ret, nil
}

// VisitAll repeatedly calls VisitNext until either the search finishes
// or the visitor returns a false-y continuation value (spec.md §4.4).
func (e *Engine) VisitAll(visitor Visitor) (moreWork bool, lastReturn any, err error) {
	var ret any
	for !e.Finished() {
		more, _, r, err := e.VisitNext(visitor)
		if err != nil {
			return more, r, err
		}
		ret = r
		if !more {
			return more, ret, nil
		}
		if b, ok := ret.(bool); ok && !b {
			return more, ret, nil
		}
	}
	return false, ret, nil
}
