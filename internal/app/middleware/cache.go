package middleware

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"time"

	"villafinder/internal/app/queries"
)

// CacheableQuery is implemented by queries whose results may be served from
// the page cache.
type CacheableQuery interface {
	queries.Query
	CacheKey() string
	// ResultPrototype returns a pointer to a zero value of the result type.
	ResultPrototype() any
}

// PageCache stores encoded query results.
type PageCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}

// CacheObserver receives hit and miss notifications per query key.
type CacheObserver interface {
	CacheHit(query string)
	CacheMiss(query string)
}

var errCachePrototype = errors.New("middleware: cacheable query requires pointer result prototype")

// Cache serves cacheable queries read-through. Cache failures degrade to a
// direct call and are logged; handler errors are never cached.
func Cache(cache PageCache, codec ResultCodec, ttl time.Duration, observer CacheObserver, logger *slog.Logger) QueryMiddleware {
	if cache == nil {
		panic("middleware: page cache required")
	}
	if codec == nil {
		codec = JSONResultCodec{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return func(next queries.Bus) queries.Bus {
		nextFn := wrapQuery(next)
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			cq, ok := q.(CacheableQuery)
			if !ok || ttl <= 0 {
				return nextFn(ctx, q)
			}
			key := cq.CacheKey()
			if key == "" {
				return nextFn(ctx, q)
			}

			payload, found, err := cache.Get(ctx, key)
			if err != nil {
				logger.WarnContext(ctx, "page cache read failed", "key", key, "error", err)
			}
			if found {
				value, decErr := decodeCached(codec, payload, cq.ResultPrototype())
				if decErr == nil {
					if observer != nil {
						observer.CacheHit(q.Key())
					}
					return value, nil
				}
				logger.WarnContext(ctx, "page cache entry undecodable", "key", key, "error", decErr)
			}
			if observer != nil {
				observer.CacheMiss(q.Key())
			}

			result, err := nextFn(ctx, q)
			if err != nil {
				return nil, err
			}
			encoded, err := codec.Encode(result)
			if err != nil {
				logger.WarnContext(ctx, "page cache encode failed", "key", key, "error", err)
				return result, nil
			}
			if err := cache.Set(ctx, key, encoded, ttl); err != nil {
				logger.WarnContext(ctx, "page cache write failed", "key", key, "error", err)
			}
			return result, nil
		})
	}
}

func decodeCached(codec ResultCodec, payload []byte, proto any) (any, error) {
	rv := reflect.ValueOf(proto)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return nil, errCachePrototype
	}
	if err := codec.Decode(payload, proto); err != nil {
		return nil, err
	}
	return rv.Elem().Interface(), nil
}
