// Package cache keeps query results between commands.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"osintranet/internal/bus"
	"osintranet/pkg/logger"
)

const (
	// Namespace prefixes every cached query result.
	Namespace = "osintranet:query:"
	// GenerationKey counts invalidations. Result keys carry the generation
	// they were computed in, so a result computed before a command finished
	// is never served after it.
	GenerationKey = "osintranet:generation"
)

// Store is a byte oriented key/value store with expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
	DeletePrefix(ctx context.Context, prefix string) error
}

func generation(ctx context.Context, store Store) (int64, error) {
	data, found, err := store.Get(ctx, GenerationKey)
	if err != nil || !found {
		return 0, err
	}
	return strconv.ParseInt(string(data), 10, 64)
}

// Keyer is implemented by queries whose results may be cached.
type Keyer interface {
	CacheKey() string
}

// Query wraps a query handler so results of Keyer queries are served from
// store while fresh. Store failures degrade to calling fn.
func Query[Q, R any](store Store, ttl time.Duration, fn func(ctx context.Context, query Q) (R, error)) func(ctx context.Context, query Q) (R, error) {
	return func(ctx context.Context, query Q) (R, error) {
		keyer, ok := interface{}(query).(Keyer)
		if !ok || store == nil {
			return fn(ctx, query)
		}
		gen, err := generation(ctx, store)
		if err != nil {
			logger.GetLogger().WithError(err).Warn("Cache generation unavailable")
			return fn(ctx, query)
		}
		key := fmt.Sprintf("%s%d:%s:%s", Namespace, gen, bus.MessageName(query), keyer.CacheKey())

		if data, found, err := store.Get(ctx, key); err != nil {
			logger.GetLogger().WithError(err).WithField("key", key).Warn("Cache read failed")
		} else if found {
			var cached R
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
			logger.GetLogger().WithField("key", key).Warn("Discarding undecodable cache entry")
		}

		res, err := fn(ctx, query)
		if err != nil {
			return res, err
		}

		if data, err := json.Marshal(res); err == nil {
			if err := store.Set(ctx, key, data, ttl); err != nil {
				logger.GetLogger().WithError(err).WithField("key", key).Warn("Cache write failed")
			}
		}
		return res, nil
	}
}

// Invalidate moves the cache to a new generation after a command succeeds and
// drops the results of earlier generations.
func Invalidate(store Store) bus.Middleware {
	return func(next bus.HandlerFunc) bus.HandlerFunc {
		return func(ctx context.Context, msg interface{}) (interface{}, error) {
			res, err := next(ctx, msg)
			if err != nil || store == nil {
				return res, err
			}
			if _, ierr := store.Incr(ctx, GenerationKey); ierr != nil {
				logger.GetLogger().WithError(ierr).WithField("message", bus.MessageName(msg)).Error("Cache generation bump failed")
			}
			if derr := store.DeletePrefix(ctx, Namespace); derr != nil {
				logger.GetLogger().WithError(derr).WithField("message", bus.MessageName(msg)).Error("Cache invalidation failed")
			}
			return res, nil
		}
	}
}
