package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"villafinder/internal/app/middleware"
)

const defaultPrefix = "villafinder:page:"

// Options configure the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// PageCache stores encoded page payloads with a TTL.
type PageCache struct {
	client *goredis.Client
	prefix string
}

func New(opts Options) *PageCache {
	client := goredis.NewClient(&goredis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	return NewFromClient(client, opts.Prefix)
}

// NewFromClient wraps an existing client.
func NewFromClient(client *goredis.Client, prefix string) *PageCache {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &PageCache{client: client, prefix: prefix}
}

func (c *PageCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

func (c *PageCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, payload, ttl).Err()
}

// Purge deletes every cached page whose key starts with keyPrefix; an empty
// prefix clears the whole page cache. It returns the number of keys removed.
func (c *PageCache) Purge(ctx context.Context, keyPrefix string) (int, error) {
	iter := c.client.Scan(ctx, 0, c.prefix+keyPrefix+"*", 200).Iterator()
	var batch []string
	removed := 0
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := c.client.Del(ctx, batch...).Result()
		removed += int(n)
		batch = batch[:0]
		return err
	}
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 200 {
			if err := flush(); err != nil {
				return removed, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("redis: scan %s: %w", keyPrefix, err)
	}
	return removed, flush()
}

func (c *PageCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *PageCache) Close() error {
	return c.client.Close()
}

var _ middleware.PageCache = (*PageCache)(nil)
