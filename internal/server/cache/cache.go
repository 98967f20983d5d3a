// Package cache is a read-through cache for recipe queries backed by Redis.
// Every failure talking to Redis is logged and treated as a miss.
package cache

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/dmitrijs2005/flava/internal/logging"
	"github.com/fxamacker/cbor/v2"
	"github.com/redis/go-redis/v9"
)

// Cache wraps a Redis client. A Cache with a nil client always misses.
type Cache struct {
	rdb    redis.UniversalClient
	logger logging.Logger
	enc    cbor.EncMode
}

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// New connects to Redis. An unreachable server is logged but still yields a
// usable Cache, since the client reconnects on demand.
func New(ctx context.Context, opts Options, logger logging.Logger) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn(ctx, "cache unreachable, serving from store", "addr", opts.Addr, "error", err)
	}
	return NewWithClient(rdb, logger)
}

// NewWithClient builds a Cache over an existing client. rdb may be nil.
func NewWithClient(rdb redis.UniversalClient, logger logging.Logger) *Cache {
	enc, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano, Sort: cbor.SortCoreDeterministic}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("cache: cbor enc mode: %v", err))
	}
	return &Cache{rdb: rdb, logger: logger, enc: enc}
}

// Disabled returns a Cache that never stores anything.
func Disabled(logger logging.Logger) *Cache {
	return NewWithClient(nil, logger)
}

// Enabled reports whether a Redis client is attached.
func (c *Cache) Enabled() bool { return c != nil && c.rdb != nil }

// Get decodes the value stored at key into dst. It reports false on a miss
// or on any error.
func (c *Cache) Get(ctx context.Context, key string, dst any) bool {
	if !c.Enabled() {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn(ctx, "cache get failed", "key", key, "error", err)
		}
		return false
	}
	if err := cbor.Unmarshal(raw, dst); err != nil {
		c.logger.Warn(ctx, "cache entry undecodable, dropping", "key", key, "error", err)
		c.Invalidate(ctx, key)
		return false
	}
	return true
}

// Set stores v at key for ttl.
func (c *Cache) Set(ctx context.Context, key string, v any, ttl time.Duration) {
	if !c.Enabled() {
		return
	}
	raw, err := c.enc.Marshal(v)
	if err != nil {
		c.logger.Error(ctx, "cache encode failed", "key", key, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.logger.Warn(ctx, "cache set failed", "key", key, "error", err)
	}
}

// Invalidate deletes keys. Missing keys are ignored.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn(ctx, "cache invalidate failed", "keys", keys, "error", err)
	}
}

// InvalidatePrefix deletes every key starting with prefix. Keys are
// collected before anything is deleted so the scan cursor stays valid.
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix string) {
	if !c.Enabled() {
		return
	}
	var keys []string
	iter := c.rdb.Scan(ctx, 0, prefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn(ctx, "cache scan failed", "prefix", prefix, "error", err)
	}
	for len(keys) > 0 {
		n := min(len(keys), scanBatch)
		c.Invalidate(ctx, keys[:n]...)
		keys = keys[n:]
	}
}

const scanBatch = 100

// Close releases the Redis client.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Close()
}

// GetOrLoad returns the cached value for key, or calls load, caches its
// result for ttl and returns it. Errors and empty results are never cached.
func GetOrLoad[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var v T
	if c.Get(ctx, key, &v) {
		return v, nil
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if !isEmpty(v) {
		c.Set(ctx, key, v, ttl)
	}
	return v, nil
}

func isEmpty(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Invalid:
		return true
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
