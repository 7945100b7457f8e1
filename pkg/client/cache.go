package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Tag groups cached queries so mutations can invalidate them together.
type Tag string

// TagMovies is carried by every list query and invalidated by every mutation.
const TagMovies Tag = "Movies"

// Cache holds query results keyed by operation and arguments. Build one per
// process and share it between clients; it is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	states  map[string]*queryState
	// epochs counts invalidations per tag so a fetch that started before an
	// invalidation does not store its now stale result.
	epochs map[Tag]uint64
	group  singleflight.Group
}

type entry struct {
	value any
	tags  []Tag
}

type queryState struct {
	inFlight int
	lastErr  error
}

func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		states:  make(map[string]*queryState),
		epochs:  make(map[Tag]uint64),
	}
}

// Key builds the cache key for op called with args. Args are encoded as JSON,
// which sorts map keys, so equal arguments always give the same key.
func Key(op string, args any) (string, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("cache key %s: %w", op, err)
	}
	return op + ":" + string(raw), nil
}

// Invalidate drops every entry carrying any of tags.
func (c *Cache) Invalidate(tags ...Tag) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, t := range tags {
		c.epochs[t]++
	}
	for key, e := range c.entries {
		if hasAny(e.tags, tags) {
			delete(c.entries, key)
		}
	}
}

// Loading reports whether a fetch for key is in flight.
func (c *Cache) Loading(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.states[key]
	return ok && s.inFlight > 0
}

// LastError returns the error of the most recent fetch for key, or nil when
// it succeeded.
func (c *Cache) LastError(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.states[key]; ok {
		return s.lastErr
	}
	return nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) lookup(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return e.value, ok
}

// do returns the cached value for key, or runs fetch once for all concurrent
// callers asking for the same key. The shared fetch is detached from any one
// caller's cancellation; each caller stops waiting when its own ctx is done.
func (c *Cache) do(ctx context.Context, key string, tags []Tag, fetch func(context.Context) (any, error)) (any, error) {
	if v, ok := c.lookup(key); ok {
		return v, nil
	}

	flightCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		// a flight that finished since the lookup above may have filled it
		if v, ok := c.lookup(key); ok {
			return v, nil
		}
		epochs := c.begin(key, tags)
		v, err := fetch(flightCtx)
		c.finish(key, tags, epochs, v, err)
		return v, err
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) begin(key string, tags []Tag) []uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.states[key]
	if !ok {
		s = &queryState{}
		c.states[key] = s
	}
	s.inFlight++

	epochs := make([]uint64, len(tags))
	for i, t := range tags {
		epochs[i] = c.epochs[t]
	}
	return epochs
}

func (c *Cache) finish(key string, tags []Tag, epochs []uint64, v any, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.states[key]
	s.inFlight--
	s.lastErr = err
	if err != nil {
		return
	}
	for i, t := range tags {
		if c.epochs[t] != epochs[i] {
			return
		}
	}
	c.entries[key] = entry{value: v, tags: tags}
}

func hasAny(have, want []Tag) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}

// query is the typed front of Cache.do.
func query[T any](ctx context.Context, c *Cache, op string, args any, tags []Tag, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	key, err := Key(op, args)
	if err != nil {
		return zero, err
	}

	v, err := c.do(ctx, key, tags, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}
