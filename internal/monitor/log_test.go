package monitor

import (
	"fmt"
	"testing"
	"time"
)

func entry(level Level, msg string) LogEntry {
	return LogEntry{Timestamp: time.Now(), Level: level, Message: msg}
}

func TestLogBufferNewestFirst(t *testing.T) {
	b := newLogBuffer(10)
	b.append(entry(LevelInfo, "first"))
	b.append(entry(LevelInfo, "second"))
	b.append(entry(LevelInfo, "third"))

	got := b.recent(0, "")
	if len(got) != 3 {
		t.Fatalf("entries: got %d, want 3", len(got))
	}
	if got[0].Message != "third" || got[2].Message != "first" {
		t.Errorf("order: got [%s %s %s], want newest first", got[0].Message, got[1].Message, got[2].Message)
	}
}

func TestLogBufferEvictsOldest(t *testing.T) {
	b := newLogBuffer(3)
	for i := 1; i <= 5; i++ {
		b.append(entry(LevelInfo, fmt.Sprintf("msg-%d", i)))
	}

	got := b.recent(0, "")
	if len(got) != 3 {
		t.Fatalf("entries: got %d, want 3", len(got))
	}
	if got[0].Message != "msg-5" {
		t.Errorf("newest = %s, want msg-5", got[0].Message)
	}
	if got[2].Message != "msg-3" {
		t.Errorf("oldest retained = %s, want msg-3", got[2].Message)
	}
}

func TestLogBufferLevelFilter(t *testing.T) {
	b := newLogBuffer(10)
	b.append(entry(LevelInfo, "processed"))
	b.append(entry(LevelWarning, "unresolved"))
	b.append(entry(LevelNotification, "follow-up sent"))
	b.append(entry(LevelInfo, "processed again"))

	got := b.recent(0, LevelWarning)
	if len(got) != 1 {
		t.Fatalf("entries: got %d, want 1", len(got))
	}
	if got[0].Message != "unresolved" {
		t.Errorf("message = %s", got[0].Message)
	}
}

func TestLogBufferLimit(t *testing.T) {
	b := newLogBuffer(10)
	for i := range 6 {
		b.append(entry(LevelInfo, fmt.Sprintf("msg-%d", i)))
	}

	got := b.recent(2, "")
	if len(got) != 2 {
		t.Fatalf("entries: got %d, want 2", len(got))
	}
	if got[0].Message != "msg-5" {
		t.Errorf("newest = %s, want msg-5", got[0].Message)
	}
}

func TestLogBufferZeroCapacityUsesDefault(t *testing.T) {
	b := newLogBuffer(0)
	if len(b.entries) != defaultLogCapacity {
		t.Errorf("capacity = %d, want %d", len(b.entries), defaultLogCapacity)
	}
}

func TestParseLevel(t *testing.T) {
	if _, ok := ParseLevel("NOTIFICATION"); !ok {
		t.Error("NOTIFICATION should parse")
	}
	if _, ok := ParseLevel("DEBUG"); ok {
		t.Error("DEBUG should not parse")
	}
}
