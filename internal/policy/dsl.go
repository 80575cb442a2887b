package policy

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// The policy configuration DSL lets an operator declare, per property,
// which builtin operator each of the three named policies should use —
// without recompiling the engine (spec.md §3's extensibility note).
// Grammar:
//
//	property numSucceededLoopHeads {
//	    exit: sum
//	    merge: max
//	    contribution: sum
//	}
var policyLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `//[^\n]*`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Punctuation", `[{}:]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})

type policyFile struct {
	Properties []*propertyDecl `@@*`
}

type propertyDecl struct {
	Name         string `"property" @Ident "{"`
	Exit         string `"exit" ":" @Ident`
	Merge        string `"merge" ":" @Ident`
	Contribution string `"contribution" ":" @Ident "}"`
}

var policyParser = participle.MustBuild[policyFile](
	participle.Lexer(policyLexer),
	participle.Elide("Whitespace", "Comment"),
)

// ParseDSL parses a policy configuration document and resolves each
// declared property's operator names against Builtins, returning the
// assembled Policies. Unknown operator names fail with a descriptive
// error rather than silently falling back to a default.
func ParseDSL(filename, source string) (Policies, error) {
	file, err := policyParser.ParseString(filename, source)
	if err != nil {
		return Policies{}, fmt.Errorf("policy: %w", err)
	}

	policies := Policies{
		ExitSummary:  Policy{},
		ExitMerge:    Policy{},
		Contribution: Policy{},
	}

	for _, decl := range file.Properties {
		exitOp, ok := Builtins[decl.Exit]
		if !ok {
			return Policies{}, fmt.Errorf("policy: property %q: unknown exit operator %q", decl.Name, decl.Exit)
		}
		mergeOp, ok := Builtins[decl.Merge]
		if !ok {
			return Policies{}, fmt.Errorf("policy: property %q: unknown merge operator %q", decl.Name, decl.Merge)
		}
		contribOp, ok := Builtins[decl.Contribution]
		if !ok {
			return Policies{}, fmt.Errorf("policy: property %q: unknown contribution operator %q", decl.Name, decl.Contribution)
		}
		policies.ExitSummary[decl.Name] = exitOp
		policies.ExitMerge[decl.Name] = mergeOp
		policies.Contribution[decl.Name] = contribOp
	}

	return policies, nil
}
