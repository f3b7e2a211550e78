package otel

import (
	"os"
	"sync/atomic"
)

// traceEnabled is set once at package init. Atomic so tests can flip it
// while the UI goroutine reads it.
var traceEnabled atomic.Bool

func init() {
	traceEnabled.Store(os.Getenv("STORYBROWSER_TRACE") != "")
}

// TraceEnabled reports whether STORYBROWSER_TRACE is set.
func TraceEnabled() bool {
	return traceEnabled.Load()
}

// setTraceEnabled overrides the flag for testing.
func setTraceEnabled(v bool) {
	traceEnabled.Store(v)
}
