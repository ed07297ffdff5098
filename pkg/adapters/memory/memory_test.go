package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pergola/pkg/adapters/memory"
	"github.com/aretw0/pergola/pkg/domain"
)

func TestMarkupStore(t *testing.T) {
	store := memory.NewMarkupStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "/missing")
	assert.ErrorIs(t, err, domain.ErrNotCached)

	require.NoError(t, store.Set(ctx, "/about", "<html>about</html>"))
	markup, err := store.Get(ctx, "/about")
	require.NoError(t, err)
	assert.Equal(t, "<html>about</html>", markup)
	assert.Equal(t, 1, store.Len())

	require.NoError(t, store.Delete(ctx, "/about"))
	_, err = store.Get(ctx, "/about")
	assert.ErrorIs(t, err, domain.ErrNotCached)
}

func TestHistoryStore(t *testing.T) {
	store := memory.NewHistoryStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, domain.HistoryEntry{URL: "/a", Index: 0}))
	require.NoError(t, store.Append(ctx, domain.HistoryEntry{URL: "/b", Index: 1}))
	require.NoError(t, store.RemoveLast(ctx))

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "/a", entries[0].URL)
}

func TestBrowser(t *testing.T) {
	b := memory.NewBrowser("http://site/")

	assert.Equal(t, "http://site/", b.Location())

	require.NoError(t, b.PushState("http://site/about"))
	assert.Equal(t, "http://site/about", b.Location())
	assert.Equal(t, []string{"http://site/about"}, b.Pushes())

	require.NoError(t, b.SetTitle("About"))
	assert.Equal(t, "About", b.Title())

	require.NoError(t, b.Reload("http://site/blog"))
	assert.Equal(t, "http://site/blog", b.Location())
	assert.Equal(t, []string{"http://site/blog"}, b.Reloads())

	b.SetLocation("http://site/back")
	assert.Equal(t, "http://site/back", b.Location())
}
