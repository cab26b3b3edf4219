package mailbox

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatestWins(t *testing.T) {
	m := New[int]()
	m.Put(1)
	m.Put(2)
	m.Put(3)

	require.True(t, m.HasPending())
	v, ok := m.TryTake()
	require.True(t, ok)
	assert.Equal(t, 3, v)

	_, ok = m.TryTake()
	assert.False(t, ok)
	assert.False(t, m.HasPending())
}

func TestTakeBlocksUntilPut(t *testing.T) {
	m := New[string]()
	done := make(chan string)

	go func() {
		v, _ := m.Take(context.Background())
		done <- v
	}()

	time.Sleep(10 * time.Millisecond)
	m.Put("run")

	select {
	case v := <-done:
		assert.Equal(t, "run", v)
	case <-time.After(time.Second):
		t.Fatal("Take did not return")
	}
}

func TestTakeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := New[int]().Take(ctx)
	assert.False(t, ok)
}

func TestConcurrentPutsNeverBlock(t *testing.T) {
	m := New[int]()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Put(i)
		}()
	}
	wg.Wait()

	_, ok := m.TryTake()
	assert.True(t, ok)
	assert.False(t, m.HasPending())
}
