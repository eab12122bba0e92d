package dialogue

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	k := newKeyedMutex()

	var (
		inside  atomic.Int32
		maxSeen atomic.Int32
		wg      sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := k.Lock(context.Background(), "a")
			assert.NoError(t, err)
			defer unlock()
			n := inside.Add(1)
			if n > maxSeen.Load() {
				maxSeen.Store(n)
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, maxSeen.Load())
	assert.Zero(t, k.len())
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	k := newKeyedMutex()

	unlockA, err := k.Lock(context.Background(), "a")
	require.NoError(t, err)
	done := make(chan struct{})
	go func() {
		unlock, _ := k.Lock(context.Background(), "b")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on b blocked behind a")
	}
	assert.Equal(t, 1, k.len())
	unlockA()
	assert.Zero(t, k.len())
}
