package middleware_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"villafinder/internal/app/commands"
	"villafinder/internal/app/middleware"
	"villafinder/internal/app/queries"
	"villafinder/internal/infra/storage/memory"
)

type pageResult struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}

type pageQuery struct{ slug string }

func (q pageQuery) Key() string          { return "test.page" }
func (q pageQuery) CacheKey() string     { return "page:" + q.slug }
func (q pageQuery) ResultPrototype() any { return &pageResult{} }
func (q pageQuery) Validate() error {
	if q.slug == "" {
		return errors.New("slug required")
	}
	return nil
}

type fakeCache struct {
	mu      sync.Mutex
	items   map[string][]byte
	ttls    map[string]time.Duration
	readErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return nil, false, c.readErr
	}
	v, ok := c.items[key]
	return v, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key string, payload []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = payload
	c.ttls[key] = ttl
	return nil
}

type cacheCounter struct{ hits, misses int }

func (c *cacheCounter) CacheHit(string)  { c.hits++ }
func (c *cacheCounter) CacheMiss(string) { c.misses++ }

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newPageBus(t *testing.T, cache middleware.PageCache, observer middleware.CacheObserver, calls *int, fail bool) queries.Bus {
	t.Helper()
	base := queries.NewInMemoryBus()
	queries.RegisterHandler[pageQuery, pageResult](base, "test.page", queries.HandlerFunc[pageQuery, pageResult](
		func(_ context.Context, q pageQuery) (pageResult, error) {
			*calls++
			if fail {
				return pageResult{}, errors.New("store down")
			}
			return pageResult{Title: q.slug, Count: *calls}, nil
		}))
	return middleware.ChainQueries(base,
		middleware.QueryValidation(middleware.SelfValidator{}),
		middleware.Cache(cache, nil, time.Minute, observer, quietLogger()),
	)
}

func TestCacheServesRepeatedQueries(t *testing.T) {
	cache := newFakeCache()
	counter := &cacheCounter{}
	calls := 0
	bus := newPageBus(t, cache, counter, &calls, false)
	ctx := context.Background()

	first, err := queries.Ask[pageQuery, pageResult](ctx, bus, pageQuery{slug: "phuket"})
	require.NoError(t, err)
	second, err := queries.Ask[pageQuery, pageResult](ctx, bus, pageQuery{slug: "phuket"})
	require.NoError(t, err)

	assert.Equal(t, pageResult{Title: "phuket", Count: 1}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, counter.hits)
	assert.Equal(t, 1, counter.misses)
	assert.Equal(t, time.Minute, cache.ttls["page:phuket"])
}

func TestCacheSkipsErrorsAndInvalidQueries(t *testing.T) {
	cache := newFakeCache()
	calls := 0
	bus := newPageBus(t, cache, nil, &calls, true)
	ctx := context.Background()

	_, err := queries.Ask[pageQuery, pageResult](ctx, bus, pageQuery{slug: "phuket"})
	require.Error(t, err)
	assert.Empty(t, cache.items)

	_, err = queries.Ask[pageQuery, pageResult](ctx, bus, pageQuery{})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestCacheDegradesOnReadFailure(t *testing.T) {
	cache := newFakeCache()
	cache.readErr = errors.New("redis down")
	calls := 0
	bus := newPageBus(t, cache, nil, &calls, false)

	res, err := queries.Ask[pageQuery, pageResult](context.Background(), bus, pageQuery{slug: "krabi"})
	require.NoError(t, err)
	assert.Equal(t, "krabi", res.Title)
}

func TestCacheIgnoresUndecodableEntries(t *testing.T) {
	cache := newFakeCache()
	cache.items["page:krabi"] = []byte("not json")
	counter := &cacheCounter{}
	calls := 0
	bus := newPageBus(t, cache, counter, &calls, false)

	res, err := queries.Ask[pageQuery, pageResult](context.Background(), bus, pageQuery{slug: "krabi"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, 1, counter.misses)
	assert.JSONEq(t, `{"title":"krabi","count":1}`, string(cache.items["page:krabi"]))
}

type ack struct {
	N int `json:"n"`
}

type countCommand struct{ key string }

func (c countCommand) Key() string            { return "test.count" }
func (c countCommand) IdempotencyKey() string { return c.key }
func (c countCommand) ResultPrototype() any   { return &ack{} }

func TestIdempotencyReplaysStoredResult(t *testing.T) {
	store := memory.NewIdempotencyStore()
	calls := 0
	base := commands.NewInMemoryBus()
	commands.RegisterHandler[countCommand, *ack](base, "test.count", commands.HandlerFunc[countCommand, *ack](
		func(context.Context, countCommand) (*ack, error) {
			calls++
			return &ack{N: calls}, nil
		}))
	bus := middleware.ChainCommands(base, middleware.Idempotency(store, nil))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := commands.Dispatch[countCommand, *ack](ctx, bus, countCommand{key: "k1"})
		require.NoError(t, err)
		assert.Equal(t, 1, res.N)
	}
	res, err := commands.Dispatch[countCommand, *ack](ctx, bus, countCommand{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.N)
	assert.Equal(t, 1, store.Len())
}

func TestIdempotencyRetriesFailures(t *testing.T) {
	store := memory.NewIdempotencyStore()
	fail := true
	base := commands.NewInMemoryBus()
	commands.RegisterHandler[countCommand, *ack](base, "test.count", commands.HandlerFunc[countCommand, *ack](
		func(context.Context, countCommand) (*ack, error) {
			if fail {
				return nil, errors.New("transient")
			}
			return &ack{N: 7}, nil
		}))
	bus := middleware.ChainCommands(base, middleware.Idempotency(store, nil))
	ctx := context.Background()

	_, err := commands.Dispatch[countCommand, *ack](ctx, bus, countCommand{key: "k"})
	require.Error(t, err)
	assert.Zero(t, store.Len())

	fail = false
	res, err := commands.Dispatch[countCommand, *ack](ctx, bus, countCommand{key: "k"})
	require.NoError(t, err)
	assert.Equal(t, 7, res.N)
}

func TestTransactionRollsBackOnError(t *testing.T) {
	factory := memory.Factory{VillasRepo: memory.NewVillaRepository(), ScoopsRepo: memory.NewScoopRepository()}
	base := commands.NewInMemoryBus()
	commands.RegisterHandler[countCommand, *ack](base, "test.count", commands.HandlerFunc[countCommand, *ack](
		func(ctx context.Context, _ countCommand) (*ack, error) {
			return nil, errors.New("boom")
		}))
	var flushed bool
	box := memory.NewOutbox(nil)
	bus := middleware.ChainCommands(base,
		middleware.CommandLogging(quietLogger(), nil),
		middleware.OutboxFlush(flushRecorder{box, &flushed}),
		middleware.Transaction(factory, nil),
	)

	_, err := commands.Dispatch[countCommand, *ack](context.Background(), bus, countCommand{})
	require.EqualError(t, err, "boom")
	assert.False(t, flushed)
}

type flushRecorder struct {
	*memory.Outbox
	flushed *bool
}

func (f flushRecorder) Flush(ctx context.Context) error {
	*f.flushed = true
	return f.Outbox.Flush(ctx)
}
