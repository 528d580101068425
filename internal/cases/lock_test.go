package cases_test

import (
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/clickchain/engage/internal/cases"
)

func TestLockerSerializesSameCase(t *testing.T) {
	locker := cases.NewLocker()
	id := uuid.New()

	var wg sync.WaitGroup
	counter := 0

	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locker.Lock(id)
			defer locker.Unlock(id)
			counter++
		}()
	}

	wg.Wait()

	if counter != 50 {
		t.Errorf("counter = %d, want 50", counter)
	}
}

func TestLockerDistinctCasesIndependent(t *testing.T) {
	locker := cases.NewLocker()
	a, b := uuid.New(), uuid.New()

	locker.Lock(a)
	defer locker.Unlock(a)

	done := make(chan struct{})
	go func() {
		locker.Lock(b)
		locker.Unlock(b)
		close(done)
	}()

	// Holding a must not block b.
	<-done
}

func TestLockerUnlockUnknownIsNoop(t *testing.T) {
	locker := cases.NewLocker()
	locker.Unlock(uuid.New())
}
