package idgen

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/anthanhphan/gosdk/logger"
	"github.com/redis/go-redis/v9"
)

// Clock abstracts the time source for the ID generator.
type Clock interface {
	// Now returns the current timestamp in milliseconds.
	Now() int64
}

// SystemClock uses the local system time.
type SystemClock struct{}

func (s *SystemClock) Now() int64 {
	return time.Now().UnixMilli()
}

// RedisClock reads time from Redis TIME so every coordinator replica shares one
// time source. It falls back to the local clock when Redis is unreachable.
type RedisClock struct {
	client    redis.UniversalClient
	timeout   time.Duration
	fallbacks atomic.Int64
}

func NewRedisClock(client redis.UniversalClient, timeout time.Duration) *RedisClock {
	if timeout <= 0 {
		timeout = 50 * time.Millisecond
	}
	return &RedisClock{
		client:  client,
		timeout: timeout,
	}
}

func (r *RedisClock) Now() int64 {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	res, err := r.client.Time(ctx).Result()
	if err != nil {
		// Log the first fallback and then every thousandth to avoid flooding.
		if n := r.fallbacks.Add(1); n == 1 || n%1000 == 0 {
			logger.Warnw("Redis clock unavailable, using local time", "fallbacks", n, "error", err.Error())
		}
		return time.Now().UnixMilli()
	}
	return res.UnixMilli()
}

// Fallbacks reports how many reads used the local clock.
func (r *RedisClock) Fallbacks() int64 {
	return r.fallbacks.Load()
}

// LeaseNodeID hands out a distinct Snowflake node ID per process by
// incrementing a shared Redis counter.
func LeaseNodeID(ctx context.Context, client redis.UniversalClient, key string) (int64, error) {
	n, err := client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("lease node id: %w", err)
	}
	return (n - 1) & int64(MaxNodeID), nil
}
