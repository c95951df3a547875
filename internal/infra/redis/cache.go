// Package redis implements the domain.Cache port for analysis results.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache stores opaque byte values under prefixed keys with a TTL.
// Analysis results are serialized to JSON by the analysis service before
// they reach this layer; the cache never inspects the payload.
type Cache struct {
	client    *redis.Client
	logger    *zap.Logger
	keyPrefix string
}

// NewCache wraps an existing Redis client. keyPrefix namespaces every key
// so the instance can share a Redis with other applications.
func NewCache(client *redis.Client, logger *zap.Logger, keyPrefix string) *Cache {
	return &Cache{client: client, logger: logger, keyPrefix: keyPrefix}
}

// Get returns the cached value, or (nil, nil) on a miss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, c.qualify(key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		c.logger.Error("cache get failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	c.logger.Debug("cache hit", zap.String("key", key), zap.Int("bytes", len(data)))
	return data, nil
}

// Set stores value under key for ttl.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.qualify(key), value, ttl).Err(); err != nil {
		c.logger.Error("cache set failed",
			zap.String("key", key),
			zap.Duration("ttl", ttl),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.qualify(key)).Err(); err != nil {
		c.logger.Error("cache delete failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// Clear removes every key under this cache's prefix. Keys are collected
// with SCAN so the call stays non-blocking on large keyspaces; entries
// written by other applications on the same Redis are untouched.
func (c *Cache) Clear(ctx context.Context) error {
	pattern := c.keyPrefix + ":*"
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Error("cache clear scan failed", zap.String("pattern", pattern), zap.Error(err))
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Error("cache clear delete failed", zap.Int("keys", len(keys)), zap.Error(err))
		return err
	}

	c.logger.Info("cache cleared", zap.Int("keys", len(keys)))
	return nil
}

// Healthy reports whether the Redis backend answers a ping.
// The readiness probe calls this when caching is enabled.
func (c *Cache) Healthy(ctx context.Context) bool {
	return c.client.Ping(ctx).Err() == nil
}

func (c *Cache) qualify(key string) string {
	return c.keyPrefix + ":" + key
}
