package memory

import (
	"context"
	"sync"

	"github.com/aretw0/pergola/pkg/domain"
)

// HistoryStore implements ports.HistoryStore in memory.
type HistoryStore struct {
	mu      sync.Mutex
	entries []domain.HistoryEntry
}

// NewHistoryStore creates an empty store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

// Append adds an entry to the log.
func (s *HistoryStore) Append(ctx context.Context, entry domain.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

// RemoveLast drops the newest entry. A no-op on an empty log.
func (s *HistoryStore) RemoveLast(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) > 0 {
		s.entries = s.entries[:len(s.entries)-1]
	}
	return nil
}

// List returns the log in append order.
func (s *HistoryStore) List(ctx context.Context) ([]domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.HistoryEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}
