package monitor

import (
	"slices"
	"sync"
	"time"
)

// Level classifies a monitor log entry.
type Level string

// Monitor log levels. Notification marks entries describing messages
// sent to employees.
const (
	LevelInfo         Level = "INFO"
	LevelWarning      Level = "WARNING"
	LevelError        Level = "ERROR"
	LevelNotification Level = "NOTIFICATION"
)

// LogEntry is one line of monitor activity. Details carries the
// structured audit payload for entries about a specific message; its
// key set is stable for external tooling.
type LogEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     Level          `json:"level"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
}

// logBuffer is a fixed-capacity ring of recent entries. The newest
// entry evicts the oldest once capacity is reached.
type logBuffer struct {
	mu      sync.Mutex
	entries []LogEntry
	start   int
	count   int
}

// defaultLogCapacity bounds the in-memory activity log.
const defaultLogCapacity = 1000

func newLogBuffer(capacity int) *logBuffer {
	if capacity <= 0 {
		capacity = defaultLogCapacity
	}
	return &logBuffer{
		entries: make([]LogEntry, capacity),
	}
}

func (b *logBuffer) append(entry LogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := (b.start + b.count) % len(b.entries)
	b.entries[idx] = entry

	if b.count < len(b.entries) {
		b.count++
		return
	}
	b.start = (b.start + 1) % len(b.entries)
}

// recent returns up to limit entries, newest first, optionally filtered
// by level. A non-positive limit returns everything buffered.
func (b *logBuffer) recent(limit int, level Level) []LogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]LogEntry, 0, b.count)
	for i := b.count - 1; i >= 0; i-- {
		entry := b.entries[(b.start+i)%len(b.entries)]
		if level != "" && entry.Level != level {
			continue
		}
		out = append(out, entry)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// ParseLevel validates a string as a known log level.
func ParseLevel(s string) (Level, bool) {
	v := Level(s)
	ok := slices.Contains([]Level{
		LevelInfo, LevelWarning, LevelError, LevelNotification,
	}, v)
	return v, ok
}
