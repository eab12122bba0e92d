package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/damsole-chat/server/internal/agent/model"
	errx "github.com/damsole-chat/server/internal/core/error"
	logx "github.com/damsole-chat/server/pkg/logger"
)

// RedisSessionStore keeps one JSON-encoded session per key. Every save
// refreshes the key TTL, so idle sessions expire on their own.
type RedisSessionStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisSessionStore(rdb redis.Cmdable, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

func (r *RedisSessionStore) sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

func (r *RedisSessionStore) Load(ctx context.Context, id string) (*model.Session, error) {
	key := r.sessionKey(id)

	b, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.NewSession(id), nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load session from redis")
		return nil, errx.WrapRedis(err)
	}

	var s model.Session
	if err := json.Unmarshal(b, &s); err != nil {
		logx.Error().Err(err).Str("session_id", id).Msg("failed to unmarshal session")
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	s.ID = id
	if s.History == nil {
		s.History = []model.Turn{}
	}
	return &s, nil
}

func (r *RedisSessionStore) Save(ctx context.Context, s *model.Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		logx.Error().Err(err).Str("session_id", s.ID).Msg("failed to marshal session")
		return fmt.Errorf("marshal session: %w", err)
	}
	key := r.sessionKey(s.ID)

	// zero ttl keeps the key forever
	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to save session to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ model.SessionRepository = (*RedisSessionStore)(nil)
