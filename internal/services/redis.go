package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisWindows backs AttemptStore with one sorted set per key: members are
// unique per attempt, scores are unix nanoseconds, so range counts give exact
// sliding windows.
type RedisWindows struct {
	client *redis.Client
}

func NewRedisWindows(client *redis.Client) *RedisWindows {
	return &RedisWindows{client: client}
}

func (w *RedisWindows) Record(ctx context.Context, key string, now time.Time, retention time.Duration) error {
	cutoff := now.Add(-retention).UnixNano()
	pipe := w.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(cutoff, 10))
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: fmt.Sprintf("%d-%s", now.UnixNano(), uuid.NewString()),
	})
	pipe.Expire(ctx, key, retention)
	_, err := pipe.Exec(ctx)
	return err
}

func (w *RedisWindows) CountSince(ctx context.Context, key string, cutoff time.Time) (int64, error) {
	return w.client.ZCount(ctx, key, strconv.FormatInt(cutoff.UnixNano(), 10), "+inf").Result()
}

// RedisKarmaThrottle backs KarmaThrottle with SET NX for cooldown locks and
// INCR-with-expiry for the rolling negative-signal counter.
type RedisKarmaThrottle struct {
	client *redis.Client
}

func NewRedisKarmaThrottle(client *redis.Client) *RedisKarmaThrottle {
	return &RedisKarmaThrottle{client: client}
}

func (t *RedisKarmaThrottle) AcquireCooldown(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return t.client.SetNX(ctx, key, 1, ttl).Result()
}

func (t *RedisKarmaThrottle) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := t.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}
