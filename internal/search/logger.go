package search

// Logger is the minimal tracing surface the explorer and driver use to
// report state transitions when verbose mode is enabled (spec.md §7:
// "Logging is optional and off by default"). cmd/neck-miner wires this
// to github.com/tliron/commonlog; tests and library callers that don't
// care about tracing use NopLogger.
type Logger interface {
	Debugf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}

// NopLogger discards every message. It is the default when a caller
// does not supply a Logger.
var NopLogger Logger = nopLogger{}
