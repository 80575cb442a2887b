// Package policy implements the property-policy engine of spec.md §4.1:
// applying a named binary integer operator to merge one summary table
// into another, property by property. Confining accumulation to this
// single pluggable-operator mechanism lets callers add new per-block
// properties without touching the search engine itself.
package policy

import "neckminer/internal/neckerr"

// Operator merges a property's accumulated left value (nil when the
// property has not been seen yet on this accumulator, matching the
// Python source's Option<int>) with an incoming right value, producing
// the new accumulated value.
//
// Operators must be commutative enough that BFS discovery order and
// exit-path merge order never change the result — spec.md §4.1 notes
// that sum and max over non-negative integers satisfy this.
type Operator func(left *int, right int) int

// Policy is a single named-operator table: one of the three distinct
// policies spec.md §3 requires (exit-path summary, exit-path merge,
// basic-block contribution).
type Policy map[string]Operator

// Table is a summary table: a mapping from property name to
// accumulated integer value. The identity element is the empty table.
type Table map[string]int

// Clone returns an independent deep copy of the table. Used whenever an
// exit path snapshot is captured (spec.md §3 invariant 5): later
// mutation of a live callee-summary table must never leak into an
// already-captured path.
func (t Table) Clone() Table {
	if t == nil {
		return Table{}
	}
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Policies bundles the three policies a program uses together, as
// spec.md §3 requires all three to be defined for every property a
// program touches.
type Policies struct {
	ExitSummary  Policy
	ExitMerge    Policy
	Contribution Policy
}

// ApplyToProperty looks up propName's operator in p and applies it to
// dst[propName] and src[propName], storing and returning the result. It
// fails loudly (spec.md §7) if the policy has no operator registered
// for propName — this is treated as a programmer/configuration fault,
// not a recoverable runtime condition.
func ApplyToProperty(dst, src Table, propName string, p Policy, loc neckerr.Location) (int, error) {
	op, ok := p[propName]
	if !ok {
		return 0, neckerr.MissingPolicy(propName, loc)
	}
	var left *int
	if v, ok := dst[propName]; ok {
		vv := v
		left = &vv
	}
	result := op(left, src[propName])
	dst[propName] = result
	return result, nil
}

// Apply merges every property in src into dst under policy p. It is the
// Go counterpart of the Python apply_policy(dst, src, policy) utility.
func Apply(dst, src Table, p Policy, loc neckerr.Location) error {
	for propName := range src {
		if _, err := ApplyToProperty(dst, src, propName, p, loc); err != nil {
			return err
		}
	}
	return nil
}
