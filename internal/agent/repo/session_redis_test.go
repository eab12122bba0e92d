package repo

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damsole-chat/server/internal/agent/model"
	errx "github.com/damsole-chat/server/internal/core/error"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisSessionStore(rdb, ttl), mr
}

func TestRedisSessionStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Hour)

	s, err := store.Load(ctx, "visitor-1")
	require.NoError(t, err)
	assert.Equal(t, model.ModeSupport, s.Mode)
	assert.NotNil(t, s.History)

	s.BeginCollection()
	s.Fields.Set(model.FullName, "Jane Doe")
	f := model.Email
	s.CurrentField = &f
	s.AppendTurn(model.RoleUser, "hi")
	require.NoError(t, store.Save(ctx, s))

	assert.True(t, mr.Exists("session:visitor-1"))
	assert.Equal(t, time.Hour, mr.TTL("session:visitor-1"))

	got, err := store.Load(ctx, "visitor-1")
	require.NoError(t, err)
	assert.Equal(t, model.ModeCollecting, got.Mode)
	assert.Equal(t, "Jane Doe", got.Fields.Value(model.FullName))
	require.NotNil(t, got.CurrentField)
	assert.Equal(t, model.Email, *got.CurrentField)
	assert.Equal(t, []model.Turn{{Role: model.RoleUser, Text: "hi"}}, got.History)
}

func TestRedisSessionStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Minute)

	s := model.NewSession("v")
	s.AppendTurn(model.RoleUser, "hello")
	require.NoError(t, store.Save(ctx, s))

	mr.FastForward(2 * time.Minute)

	got, err := store.Load(ctx, "v")
	require.NoError(t, err)
	assert.Empty(t, got.History)
}

func TestRedisSessionStoreKeepsGeneration(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, 0)

	s := model.NewSession("v")
	s.AppendTurn(model.RoleUser, "hello")
	s.Reset()
	require.NoError(t, store.Save(ctx, s))
	assert.True(t, mr.Exists("session:v"))

	got, err := store.Load(ctx, "v")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.Generation)
	assert.Empty(t, got.History)
}

func TestRedisSessionStoreErrors(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Minute)

	require.NoError(t, mr.Set("session:broken", "{not json"))
	_, err := store.Load(ctx, "broken")
	assert.Error(t, err)

	mr.Close()
	_, err = store.Load(ctx, "v")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, errx.StatusOf(err))
}
