package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitCache implements a fixed-window request counter in Redis
type RateLimitCache interface {
	// Allow increments the counter for key and reports whether the
	// request fits within max requests per window.
	Allow(ctx context.Context, key string) (bool, error)
}

type rateLimitCache struct {
	client *redis.Client
	max    int64
	window time.Duration
}

// NewRateLimitCache creates a rate limiter allowing max requests per window
func NewRateLimitCache(client *redis.Client, max int64, window time.Duration) RateLimitCache {
	return &rateLimitCache{
		client: client,
		max:    max,
		window: window,
	}
}

func (c *rateLimitCache) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := "ratelimit:" + key

	count, err := c.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		// First hit in this window starts the expiry clock
		if err := c.client.Expire(ctx, redisKey, c.window).Err(); err != nil {
			return false, err
		}
	}
	return count <= c.max, nil
}
