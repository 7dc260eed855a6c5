// Package diag provides the diagnostics sink that plan building reports to.
//
// Levels follow a verbosity scale: lower numbers are more important.
// Level 1-2 is informational, 3 traces descriptor creation, 4 and above
// traces per-method decisions.
package diag

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Sink accepts diagnostic messages. Record must not block.
type Sink interface {
	Record(level int, msg string)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(level int, msg string)

// Record calls f(level, msg).
func (f SinkFunc) Record(level int, msg string) {
	f(level, msg)
}

// Discard is a Sink that drops every message.
var Discard Sink = SinkFunc(func(int, string) {})

// SlogSink forwards diagnostics to a slog logger tagged with a subsystem.
type SlogSink struct {
	logger    *slog.Logger
	subsystem string
}

// NewSlogSink returns a sink writing to logger. A nil logger uses slog.Default().
func NewSlogSink(logger *slog.Logger, subsystem string) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger, subsystem: subsystem}
}

// Record logs msg at the slog level matching the verbosity.
func (s *SlogSink) Record(level int, msg string) {
	attrs := []slog.Attr{
		slog.String("subsystem", s.subsystem),
		slog.Int("verbosity", level),
	}
	s.logger.LogAttrs(context.Background(), SlogLevel(level), msg, attrs...)
}

// SlogLevel maps a verbosity level to a slog level.
func SlogLevel(level int) slog.Level {
	if level <= 2 {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

// Entry is one recorded diagnostic.
type Entry struct {
	Level   int
	Message string
}

// String renders the entry as "[level] message".
func (e Entry) String() string {
	return fmt.Sprintf("[%d] %s", e.Level, e.Message)
}

// Recorder keeps diagnostics in memory. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// Record appends an entry.
func (r *Recorder) Record(level int, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: msg})
}

// Entries returns a copy of the recorded entries in arrival order.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Messages returns the recorded messages at or below maxLevel.
func (r *Recorder) Messages(maxLevel int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for _, e := range r.entries {
		if e.Level <= maxLevel {
			out = append(out, e.Message)
		}
	}
	return out
}
