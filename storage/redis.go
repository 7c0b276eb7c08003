package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// ResponseCache stores fetched responses in Redis for a fixed TTL
type ResponseCache struct {
	client redisKV
	closer func() error
	ttl    time.Duration
}

// NewResponseCache creates a cache backed by the Redis server at addr
func NewResponseCache(addr string, ttl time.Duration) *ResponseCache {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	return &ResponseCache{client: rdb, closer: rdb.Close, ttl: ttl}
}

func (c *ResponseCache) Ping(ctx context.Context) error {
	p, ok := c.client.(interface {
		Ping(ctx context.Context) *redis.StatusCmd
	})
	if !ok {
		return nil
	}
	return p.Ping(ctx).Err()
}

// Get reports a miss as (nil, false, nil).
func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, "resp:"+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Set stores val under key with the cache TTL
func (c *ResponseCache) Set(ctx context.Context, key string, val []byte) error {
	return c.client.Set(ctx, "resp:"+key, val, c.ttl).Err()
}

func (c *ResponseCache) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}
