package monitor

import (
	"testing"
	"time"
)

func TestDedupMark(t *testing.T) {
	d := newDedup(time.Hour)

	if d.mark("msg-1") {
		t.Error("first mark should not be a duplicate")
	}
	if !d.mark("msg-1") {
		t.Error("second mark should be a duplicate")
	}
	if d.mark("msg-2") {
		t.Error("distinct ID should not be a duplicate")
	}
	if d.size() != 2 {
		t.Errorf("size = %d, want 2", d.size())
	}
}

func TestDedupPrune(t *testing.T) {
	d := newDedup(time.Hour)
	d.mark("old")
	d.mark("fresh")
	d.seen["old"] = time.Now().Add(-2 * time.Hour)

	removed := d.prune()
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if d.size() != 1 {
		t.Errorf("size = %d, want 1", d.size())
	}

	// A pruned ID may be processed again.
	if d.mark("old") {
		t.Error("pruned ID should not count as duplicate")
	}
}
