package ports

import "context"

// Fetcher resolves a URL to its markup.
// Implementations report transport failures (timeout, non-success status)
// as errors; they do not retry. Retry is a caller decision driven by
// re-invoking Fetch.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}
