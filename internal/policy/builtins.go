package policy

// Sum treats a missing left operand as the right operand (spec.md §3's
// default exit-path summary and basic-block contribution policy).
func Sum(left *int, right int) int {
	if left == nil {
		return right
	}
	return *left + right
}

// Max is the default exit-path merge policy of spec.md §3.
func Max(left *int, right int) int {
	if left == nil {
		return right
	}
	if *left > right {
		return *left
	}
	return right
}

// Min keeps the smaller of the two values, for properties where a
// lower count along a path is preferable.
func Min(left *int, right int) int {
	if left == nil {
		return right
	}
	if *left < right {
		return *left
	}
	return right
}

// First keeps whichever value arrived first and ignores later
// contributions entirely.
func First(left *int, right int) int {
	if left == nil {
		return right
	}
	return *left
}

// Last always takes the most recently folded-in value, discarding any
// earlier accumulation.
func Last(left *int, right int) int {
	return right
}

// Builtins names the operators the policy DSL (dsl.go) can reference by
// name, and the set a caller assembling Policies by hand can draw from
// without writing closures themselves.
var Builtins = map[string]Operator{
	"sum":   Sum,
	"max":   Max,
	"min":   Min,
	"first": First,
	"last":  Last,
}

// SameDefault builds a Policy where every property in names uses the
// given builtin operator. Useful for tests and for filling in a
// uniform default policy over a known property set.
func SameDefault(op Operator, names ...string) Policy {
	p := make(Policy, len(names))
	for _, n := range names {
		p[n] = op
	}
	return p
}
