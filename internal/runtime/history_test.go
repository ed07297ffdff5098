package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pergola/pkg/adapters/memory"
)

func TestHistory_AddAndGo(t *testing.T) {
	browser := memory.NewBrowser("http://site/")
	h := NewHistory(browser)
	ctx := context.Background()

	h.Add(ctx, "http://site/", "home")
	h.Go(ctx, "http://site/about", "about")

	assert.Equal(t, 2, h.Len())
	require.NotNil(t, h.Current())
	assert.Equal(t, "http://site/about", h.Current().URL)
	assert.Equal(t, 1, h.Current().Index)
	require.NotNil(t, h.Previous())
	assert.Equal(t, "http://site/", h.Previous().URL)

	// Only Go pushes browser state.
	assert.Equal(t, []string{"http://site/about"}, browser.Pushes())
}

func TestHistory_Cancel(t *testing.T) {
	browser := memory.NewBrowser("http://site/")
	h := NewHistory(browser)
	ctx := context.Background()

	h.Add(ctx, "http://site/", "home")
	h.Go(ctx, "http://site/about", "about")
	h.Cancel(ctx)

	assert.Equal(t, 1, h.Len())
	assert.Equal(t, "http://site/", h.Current().URL)

	// Cancel on an empty log is a no-op.
	h.Cancel(ctx)
	h.Cancel(ctx)
	assert.Equal(t, 0, h.Len())
	assert.Nil(t, h.Current())
	assert.Nil(t, h.Previous())
}

func TestHistory_Direction(t *testing.T) {
	browser := memory.NewBrowser("http://site/")
	h := NewHistory(browser)
	ctx := context.Background()

	h.Add(ctx, "http://site/", "home")
	h.Go(ctx, "http://site/about", "about")

	assert.Equal(t, "back", h.Direction("http://site/"))
	assert.Equal(t, "forward", h.Direction("http://site/contact"))
}

func TestHistory_Store(t *testing.T) {
	browser := memory.NewBrowser("http://site/")
	store := memory.NewHistoryStore()
	h := NewHistory(browser, WithHistoryStore(store))
	ctx := context.Background()

	h.Go(ctx, "http://site/a", "a")
	h.Go(ctx, "http://site/b", "b")
	h.Cancel(ctx)

	persisted, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, "http://site/a", persisted[0].URL)
}

func TestHistory_Entries(t *testing.T) {
	h := NewHistory(memory.NewBrowser("http://site/"))
	ctx := context.Background()

	h.Add(ctx, "http://site/a", "a")
	entries := h.Entries()
	entries[0].URL = "mutated"

	assert.Equal(t, "http://site/a", h.Entries()[0].URL)
}
