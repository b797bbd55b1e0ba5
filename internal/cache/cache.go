// Package cache is a small read-through JSON cache on redis for the HTTP
// read endpoints.
//
// Redis is optional. A nil *Cache, a nil client or any redis error falls
// back to loading straight from Cassandra; cache problems are logged and
// never returned to callers.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// KeyPrefix namespaces every key written by this package.
const KeyPrefix = "cassandra-sample:"

type Cache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// New returns a cache on client. A nil client yields a cache that always
// loads.
func New(client *redis.Client, ttl time.Duration, logger *zerolog.Logger) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
		log:    logger.With().Str("component", "cache").Logger(),
	}
}

// Enabled reports whether a redis client is attached.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// GetOrLoad returns the cached value for key, or calls load, stores the
// result for the cache TTL and returns it. Errors from load are returned
// untouched and nothing is cached.
func GetOrLoad[T any](ctx context.Context, c *Cache, key string, load func(ctx context.Context) (T, error)) (T, error) {
	if !c.Enabled() {
		return load(ctx)
	}

	fullKey := KeyPrefix + key

	raw, err := c.client.Get(ctx, fullKey).Bytes()
	switch {
	case err == nil:
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			c.log.Debug().Str("key", fullKey).Msg("cache hit")
			return cached, nil
		}
		c.log.Warn().Err(err).Str("key", fullKey).Msg("discarding undecodable cache entry")
	case errors.Is(err, redis.Nil):
		c.log.Debug().Str("key", fullKey).Msg("cache miss")
	default:
		c.log.Warn().Err(err).Str("key", fullKey).Msg("cache read failed")
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		c.log.Warn().Err(err).Str("key", fullKey).Msg("cache encode failed")
		return value, nil
	}
	if err := c.client.Set(ctx, fullKey, encoded, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", fullKey).Msg("cache write failed")
	}

	return value, nil
}

// Flush deletes every key under KeyPrefix. Used after the data set is
// rewritten so readers never see rows from a previous run.
func (c *Cache) Flush(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}

	iter := c.client.Scan(ctx, 0, KeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
