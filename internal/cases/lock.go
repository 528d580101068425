package cases

import (
	"sync"

	"github.com/google/uuid"
)

// Locker serializes operations per case so that a reply, a follow-up, and
// an escalation racing on the same case resolve one at a time. Distinct
// cases proceed concurrently.
type Locker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*caseLock
}

type caseLock struct {
	mu   sync.Mutex
	refs int
}

// NewLocker creates an empty case locker.
func NewLocker() *Locker {
	return &Locker{
		locks: make(map[uuid.UUID]*caseLock),
	}
}

// Lock acquires the mutex for the given case, creating it on first use.
func (l *Locker) Lock(id uuid.UUID) {
	l.mu.Lock()
	cl, ok := l.locks[id]
	if !ok {
		cl = &caseLock{}
		l.locks[id] = cl
	}
	cl.refs++
	l.mu.Unlock()

	cl.mu.Lock()
}

// Unlock releases the mutex for the given case and removes it from the
// map once no other goroutine is waiting on it.
func (l *Locker) Unlock(id uuid.UUID) {
	l.mu.Lock()
	cl, ok := l.locks[id]
	if !ok {
		l.mu.Unlock()
		return
	}
	cl.refs--
	if cl.refs == 0 {
		delete(l.locks, id)
	}
	l.mu.Unlock()

	cl.mu.Unlock()
}
