package cache_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pergola/pkg/cache"
	"github.com/aretw0/pergola/pkg/adapters/memory"
)

func TestCache_SetAndGet(t *testing.T) {
	c := cache.New()

	entry := cache.NewEntry("/about")
	stored := c.Set("/about", entry)

	assert.Same(t, entry, stored)
	assert.True(t, c.Has("/about"))
	assert.Same(t, entry, c.Get("/about"))
	assert.Equal(t, 1, c.Len())
}

func TestCache_GetMissing(t *testing.T) {
	c := cache.New()

	assert.False(t, c.Has("/nope"))
	assert.Nil(t, c.Get("/nope"))
}

func TestCache_SetIfAbsent(t *testing.T) {
	c := cache.New()

	first := cache.NewEntry("/page")
	got, created := c.SetIfAbsent("/page", first)
	require.True(t, created)
	assert.Same(t, first, got)

	second := cache.NewEntry("/page")
	got, created = c.SetIfAbsent("/page", second)
	assert.False(t, created)
	assert.Same(t, first, got, "racing callers must share the in-flight future")
	assert.Equal(t, 1, c.Len())
}

func TestCache_Delete(t *testing.T) {
	c := cache.New()
	c.Set("/gone", cache.NewEntry("/gone"))

	c.Delete("/gone")

	assert.False(t, c.Has("/gone"))
	assert.Equal(t, 0, c.Len())
}

func TestCache_Clear(t *testing.T) {
	c := cache.New()
	c.Set("/a", cache.NewEntry("/a"))
	c.Set("/b", cache.NewEntry("/b"))

	c.Clear()

	assert.Equal(t, 0, c.Len())
}

func TestCache_WarmAndPersist(t *testing.T) {
	store := memory.NewMarkupStore()
	c := cache.New(cache.WithStore(store))
	ctx := context.Background()

	// Cold store: Warm misses.
	assert.Nil(t, c.Warm(ctx, "/docs"))

	c.Persist(ctx, "/docs", "<html>docs</html>")

	entry := c.Warm(ctx, "/docs")
	require.NotNil(t, entry)
	assert.True(t, entry.Settled())

	markup, err := entry.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, "<html>docs</html>", markup)
}

func TestCache_DeleteEvictsStore(t *testing.T) {
	store := memory.NewMarkupStore()
	c := cache.New(cache.WithStore(store))
	ctx := context.Background()

	c.Persist(ctx, "/docs", "<html>docs</html>")
	c.Delete("/docs")

	assert.Nil(t, c.Warm(ctx, "/docs"))
}

func TestEntry_ResolveOnce(t *testing.T) {
	entry := cache.NewEntry("/page")
	assert.False(t, entry.Settled())
	assert.Equal(t, "/page", entry.URL())

	entry.Resolve("first")
	entry.Resolve("second")
	entry.Fail(errors.New("late failure"))

	markup, err := entry.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", markup)
}

func TestEntry_Fail(t *testing.T) {
	entry := cache.NewEntry("/broken")
	boom := errors.New("boom")
	entry.Fail(boom)

	_, err := entry.Wait(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestEntry_WaitHonorsContext(t *testing.T) {
	entry := cache.NewEntry("/pending")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := entry.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEntry_ConcurrentWaiters(t *testing.T) {
	entry := cache.NewEntry("/shared")

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			markup, err := entry.Wait(context.Background())
			if err == nil {
				results[i] = markup
			}
		}(i)
	}

	entry.Resolve("<html>shared</html>")
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, "<html>shared</html>", r)
	}
}
