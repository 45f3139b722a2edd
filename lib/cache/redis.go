package cache

import (
	"context"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix is prepended to every key stored in redis
const DefaultRedisPrefix = "serjs:render:"

// RedisCache is an IRenderCache backed by redis, shared by all instances using the same server and prefix
type RedisCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisCache wraps an existing redis client. A ttl <= 0 keeps entries forever.
func NewRedisCache(client redis.UniversalClient, prefix string, ttl time.Duration) (*RedisCache, error) {
	if client == nil {
		return nil, errors.New("cache: redis client is nil")
	}
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}, nil
}

// NewRedisCacheWithOptions creates the redis client from opts and wraps it
func NewRedisCacheWithOptions(opts *redis.Options, prefix string, ttl time.Duration) (*RedisCache, error) {
	if opts == nil {
		return nil, errors.New("cache: redis options are required")
	}
	return NewRedisCache(redis.NewClient(opts), prefix, ttl)
}

// Ping checks the connection to the server
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Get implements IRenderCache
func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	js, err := c.client.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		countLookup(TypeRedis, false)
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	countLookup(TypeRedis, true)
	return js, true, nil
}

// Set implements IRenderCache
func (c *RedisCache) Set(ctx context.Context, key string, js string) error {
	ttl := c.ttl
	if ttl < 0 {
		ttl = 0
	}
	return c.client.Set(ctx, c.prefix+key, js, ttl).Err()
}

// Close closes the underlying client
func (c *RedisCache) Close() error {
	return c.client.Close()
}
