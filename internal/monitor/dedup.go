package monitor

import (
	"sync"
	"time"
)

// dedup tracks processed message IDs so a message fetched twice is
// handled once. Entries older than maxAge are pruned on each sweep to
// keep the set bounded.
type dedup struct {
	mu     sync.Mutex
	seen   map[string]time.Time
	maxAge time.Duration
}

func newDedup(maxAge time.Duration) *dedup {
	return &dedup{
		seen:   make(map[string]time.Time),
		maxAge: maxAge,
	}
}

// mark records a message ID and reports whether it was already present.
func (d *dedup) mark(messageID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[messageID]; ok {
		return true
	}
	d.seen[messageID] = time.Now()
	return false
}

// prune drops entries older than maxAge and returns how many were removed.
func (d *dedup) prune() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	cutoff := time.Now().Add(-d.maxAge)
	removed := 0
	for id, at := range d.seen {
		if at.Before(cutoff) {
			delete(d.seen, id)
			removed++
		}
	}
	return removed
}

func (d *dedup) size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
