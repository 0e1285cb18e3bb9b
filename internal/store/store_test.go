package store

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closeRecorder struct {
	name   string
	log    *[]string
	failOn bool
}

func (c *closeRecorder) Close() error {
	*c.log = append(*c.log, c.name)
	if c.failOn {
		return errors.New(c.name + " close failed")
	}
	return nil
}

func TestStorePutGet(t *testing.T) {
	s := New()
	s.Put("a", 1)

	v, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestStoreGetAsTypedMismatch(t *testing.T) {
	s := New()
	s.Put("a", "not-an-int")

	_, ok := GetAs[int](s, "a")
	assert.False(t, ok)
}

func TestStoreKeySetInsertionOrder(t *testing.T) {
	s := New()
	s.Put("c", 3)
	s.Put("a", 1)
	s.Put("b", 2)

	assert.Equal(t, []any{"c", "a", "b"}, s.KeySet())

	// overwriting an existing key must not move it
	s.Put("c", 30)
	assert.Equal(t, []any{"c", "a", "b"}, s.KeySet())
}

func TestStoreComputeIfAbsentAtomic(t *testing.T) {
	s := New()
	var calls int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.ComputeIfAbsent("key", func() any {
				mu.Lock()
				calls++
				mu.Unlock()
				return "value"
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, calls)
	v, _ := s.Get("key")
	assert.Equal(t, "value", v)
}

func TestStoreRemoveAs(t *testing.T) {
	s := New()
	s.Put("k", 42)

	v, ok := RemoveAs[int](s, "k")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = s.Get("k")
	assert.False(t, ok)
}

func TestStoreCloseReverseInsertionOrder(t *testing.T) {
	var log []string
	s := New()
	s.Put("a", &closeRecorder{name: "a", log: &log})
	s.Put("b", &closeRecorder{name: "b", log: &log})
	s.Put("c", &closeRecorder{name: "c", log: &log})

	errs := s.Close()

	assert.Empty(t, errs)
	assert.Equal(t, []string{"c", "b", "a"}, log)
	assert.Equal(t, 0, s.Size())
}

func TestStoreCloseContinuesAfterFailure(t *testing.T) {
	var log []string
	s := New()
	s.Put("a", &closeRecorder{name: "a", log: &log})
	s.Put("b", &closeRecorder{name: "b", log: &log, failOn: true})
	s.Put("c", &closeRecorder{name: "c", log: &log})

	errs := s.Close()

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "b close failed")
	// all three still got a Close call despite b failing
	assert.Equal(t, []string{"c", "b", "a"}, log)
}

func TestMapNoAutoClose(t *testing.T) {
	m := NewMap()
	m.Put("a", 1)
	m.Put("b", 2)

	assert.Equal(t, []any{"a", "b"}, m.KeySet())

	v, ok := m.Remove("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, []any{"b"}, m.KeySet())
}
