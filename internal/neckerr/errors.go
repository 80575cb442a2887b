package neckerr

import "fmt"

// Location names the (function, block) pair an engine error occurred
// at, standing in for the source ast.Position the teacher's errors
// package uses — the engine has no source text, only call-graph
// coordinates.
type Location struct {
	Function string
	Block    string
}

func (l Location) String() string {
	if l.Block == "" {
		return l.Function
	}
	return fmt.Sprintf("%s@%s", l.Function, l.Block)
}

// EngineError is a coded, structured error raised by the search engine
// or its supporting packages.
type EngineError struct {
	Code     string
	Message  string
	Loc      Location
	Notes    []string
	HelpText string
}

func (e *EngineError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Loc, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Loc, e.Message)
}

// Builder provides the same fluent construction style as the teacher's
// SemanticErrorBuilder.
type Builder struct {
	err EngineError
}

func New(code, message string, loc Location) *Builder {
	return &Builder{err: EngineError{Code: code, Message: message, Loc: loc}}
}

func (b *Builder) WithNote(note string) *Builder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

func (b *Builder) WithHelp(help string) *Builder {
	b.err.HelpText = help
	return b
}

func (b *Builder) Build() *EngineError {
	err := b.err
	return &err
}

// MissingPolicy builds the error for spec.md §7's "missing policy for
// property" fault.
func MissingPolicy(property string, loc Location) *EngineError {
	return New(ErrorMissingPolicy,
		fmt.Sprintf("property %q has no merge operator in this policy", property), loc).
		WithHelp("register the property in all three policies (exit-path summary, exit-path merge, basic-block contribution) before using it in a program").
		Build()
}

// InvariantViolation builds the error for an impossible engine state.
// Callers of the search package that hit this should treat it as an
// assertion failure (spec.md §7): something upstream built the explorer
// or driver into a state the state machine forbids.
func InvariantViolation(message string, loc Location) *EngineError {
	return New(ErrorInvariantViolation, message, loc).Build()
}

// UnknownCallee builds the error for a participating call target that
// is not present in the program's function table.
func UnknownCallee(callee string, loc Location) *EngineError {
	return New(ErrorUnknownCallee,
		fmt.Sprintf("callee %q is in the participation set but not defined in the program", callee), loc).
		WithHelp("either add the function to the program or remove it from the participation set").
		Build()
}

// MalformedProgram builds the error for a structurally invalid program
// (missing entry block, dangling successor reference).
func MalformedProgram(message string, loc Location) *EngineError {
	return New(ErrorMalformedProgram, message, loc).Build()
}
