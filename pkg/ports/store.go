package ports

import (
	"context"

	"github.com/aretw0/pergola/pkg/domain"
)

// MarkupStore is second-level storage for resolved markup, letting a
// shared tier (e.g. Redis) pre-warm page fetches across processes.
// In-flight fetch deduplication stays in-process; stores only ever see
// settled markup.
type MarkupStore interface {
	// Get returns the stored markup for url.
	// Returns domain.ErrNotCached when absent.
	Get(ctx context.Context, url string) (string, error)

	// Set stores resolved markup for url, overwriting any prior value.
	Set(ctx context.Context, url string, markup string) error

	// Delete evicts url.
	Delete(ctx context.Context, url string) error
}

// HistoryStore persists the visited-page log.
// Append order is the order navigations were initiated; RemoveLast mirrors
// the log's explicit cancellation of the newest entry.
type HistoryStore interface {
	Append(ctx context.Context, entry domain.HistoryEntry) error
	RemoveLast(ctx context.Context) error
	List(ctx context.Context) ([]domain.HistoryEntry, error)
}
