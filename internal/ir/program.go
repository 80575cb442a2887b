// Package ir holds the opaque program representation the neck-search
// engine walks: a function table keyed by name, each function a block
// graph keyed by block name. The engine never inspects instructions
// beyond the "call" substring test described in CalleeOf.
package ir

import (
	"fmt"

	"neckminer/internal/neckerr"
)

// Program is a function table keyed by function name. Keys are unique
// by construction (Go maps enforce that); callers build one from a
// parsed or unmarshaled source.
type Program map[string]*Function

// Function is one entry in the call graph: an entry block name and the
// block graph reachable from it.
type Function struct {
	Entry string           `yaml:"entry"`
	Bbs   map[string]*Block `yaml:"bbs"`
}

// Block is one basic block: its instruction stream, successor list (nil
// means terminal/no-successor), externally supplied choke-point flag,
// and static per-property contribution counts.
type Block struct {
	Inst   []string       `yaml:"inst"`
	Succ   []string       `yaml:"succ,omitempty"`
	Chokep bool           `yaml:"chokep"`
	Props  map[string]int `yaml:"props"`
}

// IsTerminal reports whether this block has no successors, i.e. it is a
// leaf of the function's intraprocedural control flow graph.
func (b *Block) IsTerminal() bool {
	return b.Succ == nil
}

// ParticipationSet is the closed set of function names the search may
// descend into. Calls to names outside this set are ignored (spec.md
// §9, Open Question 2 — preserved as-is: no summary folding happens for
// skipped calls).
type ParticipationSet map[string]bool

// Function looks up a function by name, reporting whether it exists.
func (p Program) Function(name string) (*Function, bool) {
	f, ok := p[name]
	return f, ok
}

// Block looks up a block inside a named function.
func (f *Function) Block(name string) (*Block, bool) {
	b, ok := f.Bbs[name]
	return b, ok
}

// Validate checks the structural invariants a Program must hold before
// a search can run over it: every function's entry block must exist,
// and every successor a block names must exist in the same function.
// Both violations are E1202 MalformedProgram (SPEC_FULL.md §2.1) — data
// errors in a program description, not programmer errors.
func (p Program) Validate() error {
	for fname, fn := range p {
		if _, ok := fn.Bbs[fn.Entry]; !ok {
			return neckerr.MalformedProgram(
				fmt.Sprintf("entry block %q not found", fn.Entry),
				neckerr.Location{Function: fname})
		}
		for bname, b := range fn.Bbs {
			for _, s := range b.Succ {
				if _, ok := fn.Bbs[s]; !ok {
					return neckerr.MalformedProgram(
						fmt.Sprintf("block %q names successor %q which does not exist", bname, s),
						neckerr.Location{Function: fname, Block: bname})
				}
			}
		}
	}
	return nil
}
