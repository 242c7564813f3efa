// Package cache provides a fixed-capacity response cache for squad builds.
package cache

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultCapacity is the number of results kept before the oldest is evicted.
const DefaultCapacity = 100

// Observer receives cache events. metrics.Manager satisfies it.
type Observer interface {
	CacheHit()
	CacheMiss()
	CacheEviction()
	CacheSize(n int)
}

type nopObserver struct{}

func (nopObserver) CacheHit()      {}
func (nopObserver) CacheMiss()     {}
func (nopObserver) CacheEviction() {}
func (nopObserver) CacheSize(int)  {}

// Cache maps fingerprints to computed results with insertion-order eviction.
// Entries are never updated in place and never expire; only capacity pressure
// removes them.
type Cache[V any] struct {
	mu       sync.Mutex
	entries  *orderedMap[V]
	capacity int
	flights  singleflight.Group
	observer Observer
	logger   *zap.Logger
}

// Option configures a Cache.
type Option[V any] func(*Cache[V])

// WithObserver reports hits, misses and evictions.
func WithObserver[V any](o Observer) Option[V] {
	return func(c *Cache[V]) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithLogger sets the logger.
func WithLogger[V any](l *zap.Logger) Option[V] {
	return func(c *Cache[V]) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a cache holding at most capacity entries.
func New[V any](capacity int, opts ...Option[V]) *Cache[V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &Cache[V]{
		entries:  newOrderedMap[V](),
		capacity: capacity,
		observer: nopObserver{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached value for a fingerprint.
func (c *Cache[V]) Get(fingerprint string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.get(fingerprint)
}

// Put stores a value, evicting the oldest entry when full. An existing entry
// for the same fingerprint is kept as is.
func (c *Cache[V]) Put(fingerprint string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.putLocked(fingerprint, value)
}

func (c *Cache[V]) putLocked(fingerprint string, value V) {
	if _, ok := c.entries.get(fingerprint); ok {
		return
	}
	for c.entries.len() >= c.capacity {
		evicted, ok := c.entries.evictOldest()
		if !ok {
			break
		}
		c.observer.CacheEviction()
		c.logger.Debug("cache eviction", zap.String("fingerprint", evicted))
	}
	c.entries.insert(fingerprint, value)
	c.observer.CacheSize(c.entries.len())
}

// GetOrCompute returns the cached value for the fingerprint, or runs compute and
// caches its result. Concurrent calls for the same fingerprint share a single
// compute. Errors are returned to every waiter and never cached. The bool
// result reports whether the value came from the cache.
//
// The shared compute keeps the first caller's deadline but not its
// cancellation, so one caller going away does not fail the others. Each caller
// still stops waiting when its own context is done.
func (c *Cache[V]) GetOrCompute(ctx context.Context, fingerprint string, compute func(context.Context) (V, error)) (V, bool, error) {
	if v, ok := c.Get(fingerprint); ok {
		c.observer.CacheHit()
		return v, true, nil
	}

	var computed bool
	flight := c.flights.DoChan(fingerprint, func() (any, error) {
		// A flight that finished between our lookup and now already stored it.
		if v, ok := c.Get(fingerprint); ok {
			return v, nil
		}
		computed = true
		c.observer.CacheMiss()

		fctx := context.WithoutCancel(ctx)
		if deadline, ok := ctx.Deadline(); ok {
			var cancel context.CancelFunc
			fctx, cancel = context.WithDeadline(fctx, deadline)
			defer cancel()
		}
		v, err := compute(fctx)
		if err != nil {
			return v, err
		}
		c.Put(fingerprint, v)
		return v, nil
	})

	var zero V
	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	case res := <-flight:
		if res.Err != nil {
			return zero, false, res.Err
		}
		if !computed {
			c.observer.CacheHit()
		}
		return res.Val.(V), !computed, nil
	}
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.len()
}

// Keys returns fingerprints from oldest to newest.
func (c *Cache[V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.keys()
}
