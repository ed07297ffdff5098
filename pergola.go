package pergola

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/aretw0/pergola/internal/logging"
	"github.com/aretw0/pergola/internal/runtime"
	"github.com/aretw0/pergola/pkg/cache"
	"github.com/aretw0/pergola/pkg/dom"
	"github.com/aretw0/pergola/pkg/domain"
	"github.com/aretw0/pergola/pkg/fetch"
	"github.com/aretw0/pergola/pkg/ports"
)

// Version of the engine. Overridden at release time via ldflags.
var Version = "dev"

// Action classifies what started a markup request, for the request-error
// handler.
type Action string

const (
	// ActionPrefetch marks a hover/touch-initiated fetch. Failures are
	// logged only: no navigation is in progress.
	ActionPrefetch Action = "prefetch"
	// ActionNavigate marks a fetch consumed by a navigation. Unhandled
	// failures degrade to a hard reload.
	ActionNavigate Action = "navigate"
)

// Engine is the navigation controller: the top-level orchestrator that
// owns the current/next page records, decides cache usage, sequences
// fetch, transition and history/title updates, and is the only component
// allowed to start a transition.
//
// All mutable navigation state lives on the instance; there are no
// package-level globals.
type Engine struct {
	logger  *slog.Logger
	dom     ports.DOM
	browser ports.Browser
	fetcher ports.Fetcher

	cache           *cache.Cache
	cacheEnabled    bool
	prefetchEnabled bool
	timeout         time.Duration

	store   *runtime.Store
	manager *runtime.Manager
	history *runtime.History
	prevent *runtime.Prevent

	transitions  []*domain.Transition
	views        []View
	hooks        []domain.LifecycleHooks
	customChecks []customCheck
	markupStore  ports.MarkupStore
	historyStore ports.HistoryStore

	onRequestError func(url string, action Action, err error) bool

	mu      sync.Mutex
	current *domain.Page
	next    *domain.Page
	wrapper domain.Container
	plugins []Plugin
	booted  bool
}

// New initializes an Engine. A browser port is required; everything else
// has defaults: the HTML document DOM, an HTTP fetcher with a 2 s timeout,
// caching and prefetching enabled.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		logger:          logging.NewNop(),
		cacheEnabled:    true,
		prefetchEnabled: true,
		timeout:         fetch.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.browser == nil {
		return nil, fmt.Errorf("a browser port is required (use WithBrowser)")
	}
	for _, c := range e.customChecks {
		if c.check == nil {
			return nil, fmt.Errorf("custom prevent check %q is nil", c.name)
		}
	}

	if e.dom == nil {
		e.dom = dom.New()
	}
	if e.fetcher == nil {
		e.fetcher = fetch.New(fetch.WithTimeout(e.timeout), fetch.WithLogger(e.logger))
	}

	cacheOpts := []cache.Option{cache.WithLogger(e.logger)}
	if e.markupStore != nil {
		cacheOpts = append(cacheOpts, cache.WithStore(e.markupStore))
	}
	e.cache = cache.New(cacheOpts...)

	e.store = runtime.NewStore(e.transitions, e.logger)
	e.manager = runtime.NewManager(e.dom,
		runtime.WithManagerLogger(e.logger),
		runtime.WithManagerHooks(e.hooks),
	)

	historyOpts := []runtime.HistoryOption{runtime.WithHistoryLogger(e.logger)}
	if e.historyStore != nil {
		historyOpts = append(historyOpts, runtime.WithHistoryStore(e.historyStore))
	}
	e.history = runtime.NewHistory(e.browser, historyOpts...)

	preventAttr := dom.DefaultSchema().PreventAttr()
	if doc, ok := e.dom.(*dom.Document); ok {
		preventAttr = doc.Schema().PreventAttr()
	}
	e.prevent = runtime.NewPrevent(e.browser.Location, preventAttr, e.logger)
	for _, c := range e.customChecks {
		e.prevent.Add(c.name, runtime.Check(c.check))
	}

	return e, nil
}

// Boot builds the current page record from the already-loaded document,
// seeds history, notifies views and plugins, and runs the appear
// transition when one is registered. It runs at most once per Engine.
func (e *Engine) Boot(ctx context.Context, markup string) error {
	e.mu.Lock()
	if e.booted {
		e.mu.Unlock()
		return fmt.Errorf("engine already booted")
	}
	e.mu.Unlock()

	parsed, err := e.dom.Parse(markup)
	if err != nil {
		return err
	}
	// The wrapper must come from the same parsed tree as the container, or
	// the first swap would see a detached current.
	if parsed.Wrapper == nil {
		return fmt.Errorf("boot markup: %w", domain.ErrMissingWrapper)
	}

	current := &domain.Page{
		URL:       e.browser.Location(),
		Namespace: parsed.Namespace,
		Title:     parsed.Title,
		Container: parsed.Container,
		HTML:      markup,
	}

	e.mu.Lock()
	e.wrapper = parsed.Wrapper
	e.current = current
	e.next = &domain.Page{}
	e.booted = true
	plugins := e.plugins
	e.mu.Unlock()

	e.history.Add(ctx, current.URL, current.Namespace)
	e.refreshViews(ctx, nil, current)
	e.emitRefresh(ctx, &domain.NavigationEvent{
		Timestamp: time.Now(),
		URL:       current.URL,
		Namespace: current.Namespace,
		Trigger:   domain.TriggerScript,
		Boot:      true,
	})

	for _, p := range plugins {
		if init, ok := p.(interface{ Init() }); ok {
			init.Init()
		}
	}

	if e.store.HasAppear() {
		data := &domain.Context{Current: current, Next: e.next, Trigger: domain.ScriptTrigger}
		if t := e.store.Resolve(data, true); t != nil {
			if err := e.manager.DoAppear(ctx, t, data); err != nil {
				e.logger.Error("appear transition failed", "err", err)
				return err
			}
		}
	}

	return nil
}

// Hover prefetches the link target so a later click reuses the in-flight
// fetch. Prevented links and already-cached URLs are no-ops.
func (e *Engine) Hover(ctx context.Context, link domain.Link) error {
	if !e.prefetchEnabled {
		return nil
	}
	if e.prevent.Blocked(link) {
		return nil
	}
	return e.Prefetch(ctx, link.Href)
}

// Touch is the touch-device twin of Hover.
func (e *Engine) Touch(ctx context.Context, link domain.Link) error {
	return e.Hover(ctx, link)
}

// Prefetch warms the cache for url. The entry is stored before the fetch
// is issued, so a second hover or a click before resolution reuses the
// same future rather than starting a duplicate request.
func (e *Engine) Prefetch(ctx context.Context, target string) error {
	if !e.isBooted() {
		return domain.ErrNotBooted
	}
	if !e.cacheEnabled {
		return nil
	}
	url := e.resolveURL(target)
	if e.cache.Has(url) {
		return nil
	}
	if e.cache.Warm(ctx, url) != nil {
		return nil
	}
	entry, created := e.cache.SetIfAbsent(url, cache.NewEntry(url))
	if created {
		go e.fetchInto(context.WithoutCancel(ctx), entry, url, ActionPrefetch)
	}
	return nil
}

// Click handles an intercepted link click. Prevented links return
// domain.ErrPrevented so the host knows not to suppress the default
// browser navigation. A link pointing at the current URL is never
// transitioned: it degrades to a hard reload.
func (e *Engine) Click(ctx context.Context, link domain.Link) error {
	if !e.isBooted() {
		return domain.ErrNotBooted
	}
	if e.prevent.Blocked(link) {
		return domain.ErrPrevented
	}
	url := e.resolveURL(link.Href)
	if e.prevent.SameURL(url) {
		return e.browser.Reload(url)
	}
	return e.Navigate(ctx, url, domain.LinkTrigger(link))
}

// PopState handles a back/forward traversal, reading the target from the
// current document location.
func (e *Engine) PopState(ctx context.Context) error {
	return e.Navigate(ctx, e.browser.Location(), domain.PopStateTrigger)
}

// Navigate runs one full navigation: resolve markup, select and execute a
// transition, then commit history, title and the current/next records.
//
// If a transition is already running the navigation is not queued; it
// degrades to a hard reload of the target. On a transition-phase failure
// the optimistic history entry is rolled back and the error is returned;
// the DOM is left in whatever state the failing phase produced.
func (e *Engine) Navigate(ctx context.Context, target string, trigger domain.Trigger) error {
	if !e.isBooted() {
		return domain.ErrNotBooted
	}
	url := e.resolveURL(target)

	// Overlap guard. Checked synchronously before any asynchronous work:
	// at most one transition is ever in flight.
	if e.manager.Running() {
		e.logger.Warn("navigation while transition running, falling back to hard reload", "url", url)
		return e.browser.Reload(url)
	}

	entry := e.resolveMarkup(ctx, url)

	next := &domain.Page{URL: url}
	e.mu.Lock()
	e.next = next
	current := e.current
	wrapper := e.wrapper
	e.mu.Unlock()

	event := &domain.NavigationEvent{Timestamp: time.Now(), URL: url, Trigger: trigger.Kind}
	e.emitGo(ctx, event)

	if e.store.Wait() {
		markup, err := entry.Wait(ctx)
		if err != nil {
			e.navigationFetchFailed(ctx, url, err)
			return &domain.FetchError{URL: url, Err: err}
		}
		parsed, err := e.dom.Parse(markup)
		if err != nil {
			return fmt.Errorf("parse %s: %w", url, err)
		}
		next.HTML = markup
		next.Container = parsed.Container
		next.Namespace = parsed.Namespace
		next.Title = parsed.Title
	}

	// History is updated optimistically, before the transition runs.
	if trigger.Kind == domain.TriggerPopState {
		e.history.Add(ctx, url, next.Namespace)
	} else {
		e.history.Go(ctx, url, next.Namespace)
	}

	data := &domain.Context{Current: current, Next: next, Trigger: trigger}
	transition := e.store.Resolve(data, false)

	if err := e.manager.DoPage(ctx, transition, data, entry, wrapper); err != nil {
		e.history.Cancel(ctx)

		// Only transport failures degrade to a hard reload. Phase, parse
		// and swap errors leave the current document in place.
		var fe *domain.FetchError
		if errors.As(err, &fe) {
			e.navigationFetchFailed(ctx, url, fe.Err)
			return err
		}
		e.emitError(ctx, event, err)
		return err
	}

	if next.Title != "" {
		if err := e.browser.SetTitle(next.Title); err != nil {
			e.logger.Warn("set title failed", "err", err)
		}
	}

	e.mu.Lock()
	old := e.current
	e.current = next
	e.next = &domain.Page{}
	e.mu.Unlock()

	e.refreshViews(ctx, old, next)
	event.Namespace = next.Namespace
	e.emitRefresh(ctx, event)
	return nil
}

// Destroy tears the engine down: plugins, views, page records and the
// cache are cleared. The instance must be re-created to be used again.
func (e *Engine) Destroy() {
	e.mu.Lock()
	e.plugins = nil
	e.views = nil
	e.current = nil
	e.next = nil
	e.wrapper = nil
	e.booted = false
	e.mu.Unlock()
	e.cache.Clear()
}

func (e *Engine) isBooted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.booted
}

// Running reports whether a transition is currently in flight.
func (e *Engine) Running() bool {
	return e.manager.Running()
}

// CurrentPage returns a copy of the committed page record.
func (e *Engine) CurrentPage() *domain.Page {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return nil
	}
	page := *e.current
	return &page
}

// History returns the visited-page log in append order.
func (e *Engine) History() []domain.HistoryEntry {
	return e.history.Entries()
}

// Transitions returns the registered transition descriptors.
func (e *Engine) Transitions() []*domain.Transition {
	return e.store.Transitions()
}

// Cached reports whether url has a cache entry.
func (e *Engine) Cached(target string) bool {
	return e.cache.Has(e.resolveURL(target))
}

// resolveMarkup returns the future for the target markup: a cache hit,
// a warm-store hit, or a freshly issued fetch (cached first when caching
// is enabled, so concurrent callers share it).
func (e *Engine) resolveMarkup(ctx context.Context, url string) *cache.Entry {
	if !e.cacheEnabled {
		entry := cache.NewEntry(url)
		go e.fetchInto(context.WithoutCancel(ctx), entry, url, ActionNavigate)
		return entry
	}
	if entry := e.cache.Get(url); entry != nil {
		e.emitFetch(ctx, &domain.FetchEvent{Timestamp: time.Now(), URL: url, Cached: true})
		return entry
	}
	if entry := e.cache.Warm(ctx, url); entry != nil {
		e.emitFetch(ctx, &domain.FetchEvent{Timestamp: time.Now(), URL: url, Cached: true})
		return entry
	}
	entry, created := e.cache.SetIfAbsent(url, cache.NewEntry(url))
	if created {
		go e.fetchInto(context.WithoutCancel(ctx), entry, url, ActionNavigate)
	}
	return entry
}

// fetchInto performs the request and settles the future. A failed entry is
// evicted so a retry is possible; prefetch failures also apply their
// policy here since no navigation will consume the entry.
func (e *Engine) fetchInto(ctx context.Context, entry *cache.Entry, url string, action Action) {
	markup, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		entry.Fail(err)
		e.cache.Delete(url)
		e.emitFetch(ctx, &domain.FetchEvent{
			Timestamp: time.Now(),
			URL:       url,
			Prefetch:  action == ActionPrefetch,
			Err:       err.Error(),
		})
		if action == ActionPrefetch {
			if e.onRequestError != nil && e.onRequestError(url, ActionPrefetch, err) {
				return
			}
			e.logger.Debug("prefetch failed", "url", url, "err", err)
		}
		return
	}

	entry.Resolve(markup)
	e.cache.Persist(ctx, url, markup)
	e.emitFetch(ctx, &domain.FetchEvent{
		Timestamp: time.Now(),
		URL:       url,
		Prefetch:  action == ActionPrefetch,
	})
}

// navigationFetchFailed applies the navigation-side transport failure
// policy: evict, consult the integrator handler, and degrade to a hard
// reload when unhandled.
func (e *Engine) navigationFetchFailed(ctx context.Context, url string, err error) {
	e.cache.Delete(url)
	if e.onRequestError != nil && e.onRequestError(url, ActionNavigate, err) {
		return
	}
	e.logger.Error("navigation fetch failed, falling back to hard reload", "url", url, "err", err)
	if rerr := e.browser.Reload(url); rerr != nil {
		e.logger.Error("hard reload failed", "url", url, "err", rerr)
	}
}

func (e *Engine) resolveURL(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	if u.IsAbs() {
		return u.String()
	}
	base, err := url.Parse(e.browser.Location())
	if err != nil {
		return target
	}
	return base.ResolveReference(u).String()
}

func (e *Engine) emitGo(ctx context.Context, event *domain.NavigationEvent) {
	for _, h := range e.hooks {
		if h.OnGo != nil {
			h.OnGo(ctx, event)
		}
	}
}

func (e *Engine) emitRefresh(ctx context.Context, event *domain.NavigationEvent) {
	for _, h := range e.hooks {
		if h.OnRefresh != nil {
			h.OnRefresh(ctx, event)
		}
	}
}

func (e *Engine) emitFetch(ctx context.Context, event *domain.FetchEvent) {
	for _, h := range e.hooks {
		if h.OnFetch != nil {
			h.OnFetch(ctx, event)
		}
	}
}

func (e *Engine) emitError(ctx context.Context, event *domain.NavigationEvent, err error) {
	for _, h := range e.hooks {
		if h.OnError != nil {
			h.OnError(ctx, event, err)
		}
	}
}
