package main

import (
	"github.com/tliron/commonlog"

	"neckminer/internal/search"
)

// commonLogAdapter wires search.Logger to github.com/tliron/commonlog,
// the way cmd/kanso-lsp/main.go configures commonlog for the teacher's
// own verbose output.
type commonLogAdapter struct {
	log commonlog.Logger
}

func (c commonLogAdapter) Debugf(format string, args ...any) {
	c.log.Debugf(format, args...)
}

// newLogger returns a no-op logger unless verbose is set, in which case
// it configures commonlog at debug verbosity and returns a scoped
// logger named "neck-miner".
func newLogger(verbose bool) search.Logger {
	if !verbose {
		return search.NopLogger
	}
	commonlog.Configure(1, nil)
	return commonLogAdapter{log: commonlog.GetLogger("neck-miner")}
}
