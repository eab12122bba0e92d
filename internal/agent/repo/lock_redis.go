package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	errx "github.com/damsole-chat/server/internal/core/error"
	logx "github.com/damsole-chat/server/pkg/logger"
)

const (
	defaultLeaseTTL   = 10 * time.Second
	defaultLeaseRetry = 25 * time.Millisecond
	releaseTimeout    = 2 * time.Second
)

// releaseScript deletes the lease only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisSessionLocker is a per-session lease shared by every replica talking to
// the same Redis. A lease expires after ttl even if its holder dies.
type RedisSessionLocker struct {
	rdb   redis.Cmdable
	ttl   time.Duration
	retry time.Duration
}

func NewRedisSessionLocker(rdb redis.Cmdable, ttl time.Duration) *RedisSessionLocker {
	if ttl <= 0 {
		ttl = defaultLeaseTTL
	}
	return &RedisSessionLocker{rdb: rdb, ttl: ttl, retry: defaultLeaseRetry}
}

func (l *RedisSessionLocker) lockKey(id string) string {
	return fmt.Sprintf("session-lock:%s", id)
}

// Lock polls until the lease for id is free or ctx is done.
func (l *RedisSessionLocker) Lock(ctx context.Context, id string) (func(), error) {
	key := l.lockKey(id)
	token := uuid.NewString()

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()
	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			logx.Error().Err(err).Str("key", key).Msg("failed to acquire session lease")
			return nil, errx.WrapRedis(err)
		}
		if ok {
			return func() { l.release(key, token) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *RedisSessionLocker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()
	if err := releaseScript.Run(ctx, l.rdb, []string{key}, token).Err(); err != nil {
		logx.Warn().Err(err).Str("key", key).Msg("failed to release session lease")
	}
}
