package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces rate-limit keys in a shared Redis database.
const keyPrefix = "ratelimit:"

// takeScript implements the sliding window as a single atomic operation:
// prune expired members, count, and either record the new timestamp or
// report the score of the oldest member so the caller can compute the reset
// time. Scores and the window are in microseconds.
var takeScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)

local count = redis.call('ZCARD', key)
if count >= limit then
	local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
	return {0, count, oldest[2]}
end

redis.call('ZADD', key, now, member)
redis.call('PEXPIRE', key, math.ceil(window / 1000))
return {1, count + 1, tostring(now)}
`)

// RedisStore is the distributed sliding-window backend. Each key is a
// sorted set of request timestamps; check-and-record runs as one script so
// concurrent callers across all process instances observe atomic
// increment-and-check semantics.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Take implements Store.
func (s *RedisStore) Take(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	if key == "" {
		return Result{}, ErrKeyRequired
	}
	if limit <= 0 {
		return Result{}, ErrInvalidLimit
	}
	if window <= 0 {
		return Result{}, ErrInvalidWindow
	}

	now := time.Now()
	raw, err := takeScript.Run(ctx, s.client,
		[]string{keyPrefix + key},
		now.UnixMicro(),
		window.Microseconds(),
		limit,
		uuid.NewString(),
	).Result()
	if err != nil {
		return Result{}, errors.Join(ErrBackendUnavailable, err)
	}

	reply, ok := raw.([]any)
	if !ok || len(reply) != 3 {
		return Result{}, fmt.Errorf("%w: unexpected script reply %T", ErrBackendUnavailable, raw)
	}

	allowed := toInt64(reply[0]) == 1
	count := int(toInt64(reply[1]))
	oldestMicro := toInt64(reply[2])

	resetAt := time.UnixMicro(oldestMicro).Add(window)

	if !allowed {
		return Result{
			Allowed:   false,
			Limit:     limit,
			Remaining: 0,
			ResetAt:   resetAt,
		}, nil
	}

	return Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: max(0, limit-count),
		ResetAt:   resetAt,
	}, nil
}

// Reset implements Store.
func (s *RedisStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, keyPrefix+key).Err()
}

// toInt64 normalizes script reply entries; redis returns Lua numbers as
// int64 and strings as string.
func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case string:
		parsed, _ := strconv.ParseInt(n, 10, 64)
		return parsed
	default:
		return 0
	}
}
