// Package cache implements the promise-memoizing page cache.
//
// The cache is keyed by URL and stores futures, not markup: a hover-time
// prefetch and a later click for the same URL share one in-flight fetch.
// At most one entry exists per URL; a failed entry is evicted by the
// caller so a retry is possible. There is no expiry and no size bound.
package cache

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aretw0/pergola/internal/logging"
	"github.com/aretw0/pergola/pkg/ports"
)

// Cache is a future-memoizing store keyed by URL.
// Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Entry

	store  ports.MarkupStore
	logger *slog.Logger
}

// Option configures the Cache.
type Option func(*Cache)

// WithStore attaches a second-level markup store. Resolved markup is
// written through with Persist and read back with Warm; futures never
// leave the process.
func WithStore(store ports.MarkupStore) Option {
	return func(c *Cache) {
		c.store = store
	}
}

// WithLogger configures a logger for store errors.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]*Entry),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Has reports whether an entry exists for url.
func (c *Cache) Has(url string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[url]
	return ok
}

// Get returns the entry for url, or nil when absent.
// Callers must check Has first or use the return value of Set.
func (c *Cache) Get(url string) *Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[url]
}

// Set stores entry under url, overwriting any prior entry, and returns it.
func (c *Cache) Set(url string, entry *Entry) *Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[url] = entry
	return entry
}

// SetIfAbsent stores entry only when url has no entry yet. It returns the
// entry now in the cache and whether the given one was stored. A second
// hover or click racing the first reuses the in-flight future instead of
// orphaning it.
func (c *Cache) SetIfAbsent(url string, entry *Entry) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[url]; ok {
		return existing, false
	}
	c.entries[url] = entry
	return entry, true
}

// Delete evicts url.
func (c *Cache) Delete(url string) {
	c.mu.Lock()
	delete(c.entries, url)
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Delete(context.Background(), url); err != nil {
			c.logger.Warn("markup store delete failed", "url", url, "err", err)
		}
	}
}

// Warm checks the second-level store for url and, on a hit, installs and
// returns a resolved entry. Returns nil when no store is attached or the
// store misses.
func (c *Cache) Warm(ctx context.Context, url string) *Entry {
	if c.store == nil {
		return nil
	}
	markup, err := c.store.Get(ctx, url)
	if err != nil {
		return nil
	}
	entry, _ := c.SetIfAbsent(url, Resolved(url, markup))
	return entry
}

// Persist writes resolved markup through to the second-level store.
// Best effort: failures are logged, not returned.
func (c *Cache) Persist(ctx context.Context, url, markup string) {
	if c.store == nil {
		return
	}
	if err := c.store.Set(ctx, url, markup); err != nil {
		c.logger.Warn("markup store set failed", "url", url, "err", err)
	}
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear drops all entries. Used by engine teardown.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*Entry)
	c.mu.Unlock()
}
