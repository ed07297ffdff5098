package runtime

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pergola/pkg/cache"
	"github.com/aretw0/pergola/pkg/domain"
	"github.com/aretw0/pergola/pkg/ports"
)

// fakeDOM parses "ns:title:container" pseudo-markup and records swaps.
type fakeDOM struct {
	swaps    int32
	parseErr error
}

func (d *fakeDOM) Parse(markup string) (*ports.ParsedPage, error) {
	if d.parseErr != nil {
		return nil, d.parseErr
	}
	parts := strings.SplitN(markup, ":", 3)
	page := &ports.ParsedPage{Container: markup}
	if len(parts) == 3 {
		page.Namespace = parts[0]
		page.Title = parts[1]
		page.Container = parts[2]
	}
	return page, nil
}

func (d *fakeDOM) Swap(wrapper, current, next domain.Container) error {
	atomic.AddInt32(&d.swaps, 1)
	return nil
}

func pageData(fromNS, toURL string) *domain.Context {
	return &domain.Context{
		Current: &domain.Page{URL: "/", Namespace: fromNS, Container: "cur"},
		Next:    &domain.Page{URL: toURL},
		Trigger: domain.LinkTrigger(domain.Link{Href: toURL}),
	}
}

func TestManager_DoPageSequential(t *testing.T) {
	d := &fakeDOM{}
	var order []string
	tr := &domain.Transition{
		Name:  "fade",
		Leave: func(ctx context.Context, data *domain.Context) error { order = append(order, "leave"); return nil },
		Enter: func(ctx context.Context, data *domain.Context) error {
			order = append(order, "enter")
			// The next page is installed before enter runs.
			assert.Equal(t, "about", data.Next.Namespace)
			return nil
		},
		After: func(ctx context.Context, data *domain.Context) error { order = append(order, "after"); return nil },
	}
	m := NewManager(d)

	data := pageData("home", "/about")
	entry := cache.Resolved("/about", "about:About:c2")

	err := m.DoPage(context.Background(), tr, data, entry, "wrapper")
	require.NoError(t, err)

	assert.Equal(t, []string{"leave", "enter", "after"}, order)
	assert.Equal(t, int32(1), atomic.LoadInt32(&d.swaps))
	assert.Equal(t, "About", data.Next.Title)
	assert.False(t, m.Running())
}

func TestManager_DoPageOnce(t *testing.T) {
	d := &fakeDOM{}
	phases := []string{}
	tr := &domain.Transition{
		Name: "combined",
		Once: func(ctx context.Context, data *domain.Context) error { phases = append(phases, "once"); return nil },
		// Leave/Enter must not run when Once is present.
		Leave: func(ctx context.Context, data *domain.Context) error { phases = append(phases, "leave"); return nil },
		Enter: func(ctx context.Context, data *domain.Context) error { phases = append(phases, "enter"); return nil },
	}
	m := NewManager(d)

	data := pageData("home", "/about")
	err := m.DoPage(context.Background(), tr, data, cache.Resolved("/about", "about:About:c2"), "wrapper")
	require.NoError(t, err)

	assert.Equal(t, []string{"once"}, phases)
	assert.Equal(t, int32(1), atomic.LoadInt32(&d.swaps), "swap still happens on the once path")
}

func TestManager_DoPageSync(t *testing.T) {
	d := &fakeDOM{}
	leaveStarted := make(chan struct{})
	enterRan := make(chan struct{})
	tr := &domain.Transition{
		Name: "cross-fade",
		Sync: true,
		Leave: func(ctx context.Context, data *domain.Context) error {
			close(leaveStarted)
			// Block until enter has run, proving concurrency.
			<-enterRan
			return nil
		},
		Enter: func(ctx context.Context, data *domain.Context) error {
			<-leaveStarted
			close(enterRan)
			return nil
		},
	}
	m := NewManager(d)

	data := pageData("home", "/about")
	err := m.DoPage(context.Background(), tr, data, cache.Resolved("/about", "about:About:c2"), "wrapper")
	require.NoError(t, err)
}

func TestManager_DoPageRejectsConcurrentEntry(t *testing.T) {
	d := &fakeDOM{}
	m := NewManager(d)

	release := make(chan struct{})
	started := make(chan struct{})
	tr := &domain.Transition{
		Name: "slow",
		Leave: func(ctx context.Context, data *domain.Context) error {
			close(started)
			<-release
			return nil
		},
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- m.DoPage(context.Background(), tr, pageData("home", "/a"), cache.Resolved("/a", "a:A:c"), "wrapper")
	}()

	<-started
	assert.True(t, m.Running())
	err := m.DoPage(context.Background(), DefaultTransition(), pageData("home", "/b"), cache.Resolved("/b", "b:B:c"), "wrapper")
	assert.ErrorIs(t, err, domain.ErrTransitionRunning)

	close(release)
	require.NoError(t, <-errCh)
	assert.False(t, m.Running())
}

func TestManager_DoPagePhaseFailure(t *testing.T) {
	d := &fakeDOM{}
	boom := errors.New("animation crashed")
	tr := &domain.Transition{
		Name:  "broken",
		Enter: func(ctx context.Context, data *domain.Context) error { return boom },
	}
	m := NewManager(d)

	err := m.DoPage(context.Background(), tr, pageData("home", "/a"), cache.Resolved("/a", "a:A:c"), "wrapper")

	var terr *domain.TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "broken", terr.Transition)
	assert.Equal(t, "enter", terr.Phase)
	assert.ErrorIs(t, err, boom)
	assert.False(t, m.Running(), "running flag must clear on failure")
	assert.Equal(t, int32(0), atomic.LoadInt32(&d.swaps))
}

func TestManager_DoPageFetchFailure(t *testing.T) {
	d := &fakeDOM{}
	m := NewManager(d)

	entry := cache.NewEntry("/a")
	entry.Fail(errors.New("network down"))

	err := m.DoPage(context.Background(), DefaultTransition(), pageData("home", "/a"), entry, "wrapper")

	// Transport failures carry their class so the orchestrator can tell
	// them apart from parse and phase errors.
	var ferr *domain.FetchError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "/a", ferr.URL)
	assert.False(t, m.Running())
}

func TestManager_DoPageParseFailureIsNotFetchError(t *testing.T) {
	d := &fakeDOM{parseErr: errors.New("malformed markup")}
	m := NewManager(d)

	err := m.DoPage(context.Background(), DefaultTransition(), pageData("home", "/a"), cache.Resolved("/a", "a:A:c"), "wrapper")
	require.Error(t, err)

	var ferr *domain.FetchError
	assert.False(t, errors.As(err, &ferr))
	var terr *domain.TransitionError
	assert.False(t, errors.As(err, &terr))
}

func TestManager_DoPageSkipsInstallWhenPopulated(t *testing.T) {
	d := &fakeDOM{parseErr: errors.New("must not parse")}
	m := NewManager(d)

	data := pageData("home", "/about")
	data.Next = &domain.Page{URL: "/about", Namespace: "about", Container: "ready", HTML: "<x>"}

	// Entry is unsettled; install must not block on it.
	err := m.DoPage(context.Background(), DefaultTransition(), data, cache.NewEntry("/about"), "wrapper")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&d.swaps))
}

func TestManager_DoAppear(t *testing.T) {
	d := &fakeDOM{}
	ran := []string{}
	tr := &domain.Transition{
		Name:   "intro",
		Appear: func(ctx context.Context, data *domain.Context) error { ran = append(ran, "appear"); return nil },
		After:  func(ctx context.Context, data *domain.Context) error { ran = append(ran, "after"); return nil },
	}
	m := NewManager(d)

	data := &domain.Context{Current: &domain.Page{Namespace: "home", Container: "cur"}, Next: &domain.Page{}}
	err := m.DoAppear(context.Background(), tr, data)
	require.NoError(t, err)

	assert.Equal(t, []string{"appear", "after"}, ran)
	assert.Equal(t, int32(0), atomic.LoadInt32(&d.swaps), "appear swaps nothing")
	assert.False(t, m.Running())
}

func TestManager_DoAppearFallsBackToEnter(t *testing.T) {
	d := &fakeDOM{}
	entered := false
	tr := &domain.Transition{
		Name:  "intro",
		Enter: func(ctx context.Context, data *domain.Context) error { entered = true; return nil },
	}
	m := NewManager(d)

	data := &domain.Context{Current: &domain.Page{Namespace: "home"}, Next: &domain.Page{}}
	require.NoError(t, m.DoAppear(context.Background(), tr, data))
	assert.True(t, entered)
}
