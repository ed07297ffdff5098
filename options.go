package pergola

import (
	"log/slog"
	"time"

	"github.com/aretw0/pergola/pkg/domain"
	"github.com/aretw0/pergola/pkg/ports"
)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithBrowser injects the host browser port. Required.
func WithBrowser(b ports.Browser) Option {
	return func(e *Engine) {
		e.browser = b
	}
}

// WithDOM injects a custom DOM port, bypassing the default HTML document
// implementation.
func WithDOM(d ports.DOM) Option {
	return func(e *Engine) {
		e.dom = d
	}
}

// WithFetcher injects a custom markup fetcher. When set, WithTimeout has
// no effect; the fetcher owns its own deadline policy.
func WithFetcher(f ports.Fetcher) Option {
	return func(e *Engine) {
		e.fetcher = f
	}
}

// WithTransitions registers the transition descriptors, in selection order.
func WithTransitions(transitions ...*domain.Transition) Option {
	return func(e *Engine) {
		e.transitions = append(e.transitions, transitions...)
	}
}

// WithViews registers per-namespace view lifecycles.
func WithViews(views ...View) Option {
	return func(e *Engine) {
		e.views = append(e.views, views...)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks. May be given more than
// once; every registered set is notified.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = append(e.hooks, hooks)
	}
}

// WithTimeout bounds each markup request. Defaults to 2 seconds.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// WithMarkupStore attaches a second-level store for resolved markup.
func WithMarkupStore(s ports.MarkupStore) Option {
	return func(e *Engine) {
		e.markupStore = s
	}
}

// WithHistoryStore persists the visited-page log.
func WithHistoryStore(s ports.HistoryStore) Option {
	return func(e *Engine) {
		e.historyStore = s
	}
}

// WithoutCache disables the page cache: every navigation fetches.
func WithoutCache() Option {
	return func(e *Engine) {
		e.cacheEnabled = false
	}
}

// WithoutPrefetch disables hover/touch prefetching.
func WithoutPrefetch() Option {
	return func(e *Engine) {
		e.prefetchEnabled = false
	}
}

// WithPrevent registers a custom prevent predicate at the end of the
// built-in chain.
func WithPrevent(name string, check func(domain.Link) bool) Option {
	return func(e *Engine) {
		e.customChecks = append(e.customChecks, customCheck{name: name, check: check})
	}
}

// WithRequestErrorHandler registers the integrator hook consulted when a
// markup request fails. Returning true marks the failure handled and
// suppresses the engine's own fallback (hard reload for navigations, log
// for prefetches).
func WithRequestErrorHandler(h func(url string, action Action, err error) bool) Option {
	return func(e *Engine) {
		e.onRequestError = h
	}
}

type customCheck struct {
	name  string
	check func(domain.Link) bool
}
