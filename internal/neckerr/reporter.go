package neckerr

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Reporter renders EngineErrors the way internal/errors.ErrorReporter
// renders CompilerErrors: a colorized header naming the code and the
// location, followed by notes and help text. There is no source text to
// quote here, only a call-graph coordinate.
type Reporter struct{}

func NewReporter() *Reporter {
	return &Reporter{}
}

func (r *Reporter) Format(err *EngineError) string {
	var out strings.Builder

	bold := color.New(color.Bold).SprintFunc()
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	help := color.New(color.FgGreen).SprintFunc()
	note := color.New(color.FgBlue).SprintFunc()

	if err.Code != "" {
		out.WriteString(fmt.Sprintf("%s[%s]: %s\n", red("error"), err.Code, bold(err.Message)))
	} else {
		out.WriteString(fmt.Sprintf("%s: %s\n", red("error"), bold(err.Message)))
	}
	out.WriteString(fmt.Sprintf("  %s %s\n", dim("-->"), err.Loc))

	for _, n := range err.Notes {
		out.WriteString(fmt.Sprintf("  %s %s\n", note("note:"), n))
	}
	if err.HelpText != "" {
		out.WriteString(fmt.Sprintf("  %s %s\n", help("help:"), err.HelpText))
	}
	return out.String()
}
