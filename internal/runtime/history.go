package runtime

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aretw0/pergola/internal/logging"
	"github.com/aretw0/pergola/pkg/domain"
	"github.com/aretw0/pergola/pkg/ports"
)

// History is the ordered record of visited (url, namespace) pairs.
//
// Add appends unconditionally and is used for back/forward traversal,
// which the browser has already recorded. Go appends and pushes browser
// state, and is used for caller-initiated navigation. Cancel removes the
// most recent entry, keeping the log consistent with "nothing actually
// completed" when a started navigation's transition fails.
type History struct {
	mu      sync.Mutex
	entries []domain.HistoryEntry

	browser ports.Browser
	store   ports.HistoryStore
	logger  *slog.Logger
}

// HistoryOption configures the History log.
type HistoryOption func(*History)

// WithHistoryStore persists entries to a store as they are appended.
func WithHistoryStore(store ports.HistoryStore) HistoryOption {
	return func(h *History) {
		h.store = store
	}
}

// WithHistoryLogger configures a structured logger.
func WithHistoryLogger(logger *slog.Logger) HistoryOption {
	return func(h *History) {
		h.logger = logger
	}
}

// NewHistory creates an empty log bound to the browser port.
func NewHistory(browser ports.Browser, opts ...HistoryOption) *History {
	h := &History{
		browser: browser,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Add appends an entry without touching browser state.
func (h *History) Add(ctx context.Context, url, namespace string) {
	h.append(ctx, url, namespace)
}

// Go appends an entry and pushes distinguishable browser history state,
// so a later popstate can be told apart from a forward click.
func (h *History) Go(ctx context.Context, url, namespace string) {
	h.append(ctx, url, namespace)
	if err := h.browser.PushState(url); err != nil {
		h.logger.Warn("push state failed", "url", url, "err", err)
	}
}

// Cancel removes the most recent entry.
func (h *History) Cancel(ctx context.Context) {
	h.mu.Lock()
	if len(h.entries) > 0 {
		h.entries = h.entries[:len(h.entries)-1]
	}
	h.mu.Unlock()

	if h.store != nil {
		if err := h.store.RemoveLast(ctx); err != nil {
			h.logger.Warn("history store remove failed", "err", err)
		}
	}
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Current returns the newest entry, or nil when the log is empty.
func (h *History) Current() *domain.HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return nil
	}
	e := h.entries[len(h.entries)-1]
	return &e
}

// Previous returns the entry before the newest, or nil.
func (h *History) Previous() *domain.HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) < 2 {
		return nil
	}
	e := h.entries[len(h.entries)-2]
	return &e
}

// Entries returns a copy of the log in append order.
func (h *History) Entries() []domain.HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]domain.HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Direction classifies a popstate target: "back" when it matches the
// entry before the newest, "forward" otherwise. Used for hook and metric
// labeling only; the orchestrator does not branch on it.
func (h *History) Direction(url string) string {
	if prev := h.Previous(); prev != nil && prev.URL == url {
		return "back"
	}
	return "forward"
}

func (h *History) append(ctx context.Context, url, namespace string) {
	h.mu.Lock()
	entry := domain.HistoryEntry{URL: url, Namespace: namespace, Index: len(h.entries)}
	h.entries = append(h.entries, entry)
	h.mu.Unlock()

	if h.store != nil {
		if err := h.store.Append(ctx, entry); err != nil {
			h.logger.Warn("history store append failed", "url", url, "err", err)
		}
	}
}
