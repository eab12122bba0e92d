package repo

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damsole-chat/server/internal/agent/model"
)

func TestMemorySessionStoreLoadSave(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(0, 0)
	defer store.Close()

	s, err := store.Load(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, model.ModeSupport, s.Mode)
	assert.Empty(t, s.History)
	assert.Zero(t, store.Len())

	s.BeginCollection()
	s.Fields.Set(model.FullName, "Jane Doe")
	require.NoError(t, store.Save(ctx, s))

	// mutating the caller's copy must not leak into the store
	s.Fields.Set(model.Email, "jane@example.com")

	got, err := store.Load(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, model.ModeCollecting, got.Mode)
	assert.True(t, got.Fields.Has(model.FullName))
	assert.False(t, got.Fields.Has(model.Email))

	got.Reset()
	require.NoError(t, store.Save(ctx, got))
	got, err = store.Load(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, model.ModeSupport, got.Mode)
	assert.Equal(t, uint64(1), got.Generation)
}

func TestMemorySessionStoreTTL(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(time.Minute, 0)
	defer store.Close()

	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	s := model.NewSession("v1")
	s.AppendTurn(model.RoleUser, "hello")
	require.NoError(t, store.Save(ctx, s))

	now = now.Add(30 * time.Second)
	got, err := store.Load(ctx, "v1")
	require.NoError(t, err)
	assert.Len(t, got.History, 1)

	now = now.Add(time.Minute)
	got, err = store.Load(ctx, "v1")
	require.NoError(t, err)
	assert.Empty(t, got.History)
	assert.Zero(t, store.Len())
}

func TestMemorySessionStoreSweeper(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(10*time.Millisecond, 5*time.Millisecond)
	defer store.Close()

	require.NoError(t, store.Save(ctx, model.NewSession("a")))
	require.NoError(t, store.Save(ctx, model.NewSession("b")))

	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestMemorySessionStoreCloseTwice(t *testing.T) {
	store := NewMemorySessionStore(time.Minute, time.Second)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}

func TestMemorySessionStoreConcurrent(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(time.Minute, 10*time.Millisecond)
	defer store.Close()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := string(rune('a' + n))
			for j := 0; j < 50; j++ {
				s, err := store.Load(ctx, id)
				assert.NoError(t, err)
				s.AppendTurn(model.RoleUser, "x")
				assert.NoError(t, store.Save(ctx, s))
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 16; i++ {
		s, err := store.Load(ctx, string(rune('a'+i)))
		require.NoError(t, err)
		assert.Len(t, s.History, 50)
	}
}
