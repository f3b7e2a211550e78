// Package otel provides structured observability for storybrowser.
//
// Events are typed structs written as JSONL lines. The Logger encodes events
// with zerolog on a background drain goroutine so callers on the UI goroutine
// never block on disk. An optional RingBuffer keeps recent events in memory
// for the debug overlay.
package otel

import "time"

// Level defines event severity for filtering.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EventKind identifies the category of an observability event.
// Dot-delimited: "<subsystem>.<action>".
type EventKind string

const (
	// Identifier listing
	KindIDsStart    EventKind = "ids.start"
	KindIDsComplete EventKind = "ids.complete"
	KindIDsError    EventKind = "ids.error"

	// Page loads
	KindPageStart    EventKind = "page.start"
	KindPageComplete EventKind = "page.complete"
	KindPageError    EventKind = "page.error"
	KindPageStale    EventKind = "page.stale"

	// UI events
	KindKeyPress EventKind = "ui.key"
	KindNavigate EventKind = "ui.navigate"

	// System events
	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
	KindError    EventKind = "sys.error"

	// Trace events, only emitted when STORYBROWSER_TRACE is set
	KindMsgReceived EventKind = "trace.msg_received"
)

// Event is the universal observability record. Every field except Kind and
// Time is optional; zero values are omitted from the JSONL line.
type Event struct {
	Time      time.Time
	Level     Level
	Kind      EventKind
	Comp      string // component: "browser", "loader", "ui", "main"
	SessionID string // random hex, same for entire app run
	Gen       uint64 // page request generation
	Page      int    // page index (0-based); written for page.* and ui.navigate events
	Dur       time.Duration
	Count     int
	Err       string
	Msg       string
	Extra     map[string]any
}
