package lock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockUnlockBalancedLeavesNoEntry(t *testing.T) {
	m := NewManager()

	m.Lock("k", "owner-1")
	assert.Equal(t, 1, m.Size())
	m.Unlock("k", "owner-1")
	assert.Equal(t, 0, m.Size())
}

func TestLockIsReentrant(t *testing.T) {
	m := NewManager()

	m.Lock("k", "owner-1")
	m.Lock("k", "owner-1") // same owner, must not deadlock
	m.Unlock("k", "owner-1")
	assert.Equal(t, 1, m.Size())
	m.Unlock("k", "owner-1")
	assert.Equal(t, 0, m.Size())
}

func TestLockExcludesOtherOwners(t *testing.T) {
	m := NewManager()
	m.Lock("k", "owner-1")

	acquired := make(chan struct{})
	go func() {
		m.Lock("k", "owner-2")
		close(acquired)
		m.Unlock("k", "owner-2")
	}()

	select {
	case <-acquired:
		t.Fatal("owner-2 should not have acquired the lock while owner-1 holds it")
	case <-time.After(50 * time.Millisecond):
	}

	m.Unlock("k", "owner-1")

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("owner-2 never acquired the lock after owner-1 released it")
	}
}

func TestTryLockFailsWhenHeld(t *testing.T) {
	m := NewManager()
	m.Lock("k", "owner-1")

	ok := m.TryLock("k", "owner-2")
	assert.False(t, ok)
	assert.Equal(t, 1, m.Size(), "failed TryLock must not leak the map entry")

	m.Unlock("k", "owner-1")
}

func TestTryLockTimeoutGivesUp(t *testing.T) {
	m := NewManager()
	m.Lock("k", "owner-1")
	defer m.Unlock("k", "owner-1")

	start := time.Now()
	ok := m.TryLockTimeout("k", "owner-2", 30*time.Millisecond)
	elapsed := time.Since(start)

	assert.False(t, ok)
	assert.GreaterOrEqual(t, elapsed, 30*time.Millisecond)
}

func TestUnlockWithoutLockPanics(t *testing.T) {
	m := NewManager()
	assert.Panics(t, func() {
		m.Unlock("never-locked", "owner-1")
	})
}

func TestManagerNoLeaksUnderConcurrency(t *testing.T) {
	m := NewManager()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			owner := i
			m.Lock("shared", owner)
			m.Unlock("shared", owner)
		}(i)
	}
	wg.Wait()

	require.Equal(t, 0, m.Size())
}
