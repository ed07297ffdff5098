// Package memory provides in-memory adapter implementations, used as
// defaults and in tests.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/pergola/pkg/domain"
)

// MarkupStore implements ports.MarkupStore in memory.
// Safe for concurrent use.
type MarkupStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMarkupStore creates an empty store.
func NewMarkupStore() *MarkupStore {
	return &MarkupStore{data: make(map[string]string)}
}

// Get returns the stored markup, or domain.ErrNotCached.
func (s *MarkupStore) Get(ctx context.Context, url string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	markup, ok := s.data[url]
	if !ok {
		return "", domain.ErrNotCached
	}
	return markup, nil
}

// Set stores markup for url.
func (s *MarkupStore) Set(ctx context.Context, url, markup string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[url] = markup
	return nil
}

// Delete evicts url.
func (s *MarkupStore) Delete(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, url)
	return nil
}

// Len returns the number of stored pages.
func (s *MarkupStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
