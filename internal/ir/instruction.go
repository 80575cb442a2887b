package ir

import "strings"

// CalleeOf inspects a single instruction string and, if it is a call
// instruction, returns the callee function name and true. The contract
// (spec.md §4.3, §6) is deliberately loose: an instruction is a call iff
// the literal substring "call" appears anywhere in it, and the callee
// name is the last whitespace-separated token. Anything else is not
// semantically examined by the engine.
func CalleeOf(inst string) (string, bool) {
	if !strings.Contains(inst, "call") {
		return "", false
	}
	fields := strings.Fields(inst)
	if len(fields) == 0 {
		return "", false
	}
	return fields[len(fields)-1], true
}
