package cache

import (
	"context"
	"sync"
)

// Entry is a single in-flight-or-resolved future of page markup.
// It settles exactly once, either with markup or with an error.
type Entry struct {
	url  string
	done chan struct{}
	once sync.Once

	markup string
	err    error
}

// NewEntry creates an unsettled future for url.
func NewEntry(url string) *Entry {
	return &Entry{url: url, done: make(chan struct{})}
}

// Resolved creates an already-settled future, used when markup comes from
// a warm store rather than a live fetch.
func Resolved(url, markup string) *Entry {
	e := NewEntry(url)
	e.Resolve(markup)
	return e
}

// URL returns the key this future was created for.
func (e *Entry) URL() string {
	return e.url
}

// Resolve settles the future with markup. Later calls are no-ops.
func (e *Entry) Resolve(markup string) {
	e.once.Do(func() {
		e.markup = markup
		close(e.done)
	})
}

// Fail settles the future with an error. Later calls are no-ops.
func (e *Entry) Fail(err error) {
	e.once.Do(func() {
		e.err = err
		close(e.done)
	})
}

// Wait blocks until the future settles or ctx is done.
func (e *Entry) Wait(ctx context.Context) (string, error) {
	select {
	case <-e.done:
		return e.markup, e.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Settled reports whether the future has resolved or failed.
func (e *Entry) Settled() bool {
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}
