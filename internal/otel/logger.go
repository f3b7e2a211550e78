package otel

// Goroutine safety:
// The drain goroutine is the sole reader of l.ch and the sole user of l.zl.
// Logger.mu protects only the l.buf pointer (read by drain, written by SetRingBuffer).
// The ring buffer's own mu handles concurrent Push/Last/Stats calls.

import (
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// writerChanSize is the capacity of the async write channel.
const writerChanSize = 1024

// Logger writes events as JSONL via an async background writer.
// Goroutine-safe. All emitted events flow through a buffered channel
// to a drain goroutine that encodes them and pushes to the ring buffer.
type Logger struct {
	mu        sync.Mutex
	buf       *RingBuffer // nil until SetRingBuffer
	sessionID string
	ch        chan Event
	zl        zerolog.Logger
	dropped   atomic.Uint64 // full channel or failed write
	closed    atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

// NewLogger creates a Logger writing JSONL to w asynchronously.
// Starts a background drain goroutine. Call Close() to flush and stop.
func NewLogger(w io.Writer) *Logger {
	var sid [8]byte
	_, _ = rand.Read(sid[:])

	l := &Logger{
		sessionID: fmt.Sprintf("%x", sid[:]),
		ch:        make(chan Event, writerChanSize),
		done:      make(chan struct{}),
	}
	// Write errors are counted as drops instead of going to zerolog's
	// ErrorHandler, which prints to stderr underneath the TUI.
	l.zl = zerolog.New(dropWriter{w: w, dropped: &l.dropped}).Level(zerolog.DebugLevel)
	go l.drain()
	return l
}

// NewNullLogger creates a Logger that discards output.
// Callers should still call Close() to stop the drain goroutine.
func NewNullLogger() *Logger {
	return NewLogger(io.Discard)
}

// SessionID returns the random id stamped on every event of this run.
func (l *Logger) SessionID() string {
	return l.sessionID
}

func (l *Logger) drain() {
	defer close(l.done)
	for e := range l.ch {
		l.write(e)

		l.mu.Lock()
		rb := l.buf
		l.mu.Unlock()

		if rb != nil {
			rb.Push(e)
		}
	}
}

func (l *Logger) write(e Event) {
	zev := l.zl.WithLevel(zerologLevel(e.Level)).
		Str("t", e.Time.Format(time.RFC3339Nano)).
		Str("kind", string(e.Kind)).
		Str("session_id", e.SessionID)

	if e.Comp != "" {
		zev = zev.Str("comp", e.Comp)
	}
	if e.Gen > 0 {
		zev = zev.Uint64("gen", e.Gen)
	}
	if hasPage(e.Kind) {
		zev = zev.Int("page", e.Page)
	}
	if e.Dur > 0 {
		zev = zev.Float64("dur_ms", float64(e.Dur)/float64(time.Millisecond))
	}
	if e.Count > 0 {
		zev = zev.Int("count", e.Count)
	}
	if e.Err != "" {
		zev = zev.Str("err", e.Err)
	}
	if len(e.Extra) > 0 {
		zev = zev.Interface("extra", e.Extra)
	}
	zev.Msg(e.Msg)
}

func hasPage(kind EventKind) bool {
	return kind == KindNavigate || strings.HasPrefix(string(kind), "page.")
}

func zerologLevel(level Level) zerolog.Level {
	switch level {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.NoLevel
	}
}

// Emit queues an event for the JSONL log (and ring buffer if attached).
// Sets Time (if zero) and SessionID. Goroutine-safe. Non-blocking: if the
// channel is full or the logger is closed, the event is dropped and the
// drop counter is incremented.
//
// Safe to call concurrently with Close(). If Close() races between the
// closed-flag check and the channel send, the resulting panic is recovered
// and the event is counted as dropped.
func (l *Logger) Emit(e Event) {
	if l == nil {
		return
	}
	defer func() {
		if recover() != nil {
			l.dropped.Add(1)
		}
	}()

	if l.closed.Load() {
		l.dropped.Add(1)
		return
	}

	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	e.SessionID = l.sessionID

	select {
	case l.ch <- e:
	default:
		l.dropped.Add(1)
	}
}

// Info emits an info-level event.
func (l *Logger) Info(kind EventKind, comp string, msg string) {
	l.Emit(Event{Level: LevelInfo, Kind: kind, Comp: comp, Msg: msg})
}

// Warn emits a warn-level event.
func (l *Logger) Warn(kind EventKind, comp string, msg string) {
	l.Emit(Event{Level: LevelWarn, Kind: kind, Comp: comp, Msg: msg})
}

// Error emits an error-level event. Nil err is safe (logged as empty string).
func (l *Logger) Error(kind EventKind, comp string, err error) {
	errStr := ""
	if err != nil {
		errStr = err.Error()
	}
	l.Emit(Event{Level: LevelError, Kind: kind, Comp: comp, Err: errStr})
}

// SetRingBuffer attaches a ring buffer for live inspection.
func (l *Logger) SetRingBuffer(buf *RingBuffer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf = buf
}

// Dropped returns the number of events dropped since creation.
func (l *Logger) Dropped() uint64 {
	return l.dropped.Load()
}

// Close flushes pending events, stops the drain goroutine, and reports
// any dropped events to stderr. Idempotent.
func (l *Logger) Close() {
	if l == nil {
		return
	}
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		close(l.ch)
		<-l.done

		if d := l.dropped.Load(); d > 0 {
			fmt.Fprintf(os.Stderr, "storybrowser: %d events dropped during session %s\n", d, l.sessionID)
		}
	})
}

type dropWriter struct {
	w       io.Writer
	dropped *atomic.Uint64
}

func (d dropWriter) Write(p []byte) (int, error) {
	if _, err := d.w.Write(p); err != nil {
		d.dropped.Add(1)
	}
	return len(p), nil
}
