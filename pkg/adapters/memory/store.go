// Package memory provides the in-memory conversation store. Suited for
// tests and single-process deployments without durability needs.
package memory

import (
	"context"
	"sync"

	"github.com/refinehq/refine/pkg/domain"
)

// Store implements ports.ConversationStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string][]*domain.Snapshot
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string][]*domain.Snapshot),
	}
}

// Save appends a snapshot to the thread's history.
func (s *Store) Save(ctx context.Context, threadID string, snap *domain.Snapshot) error {
	// Copy on write so the caller can't mutate stored snapshots.
	copied := *snap
	copied.History = append([]domain.HistoryEntry(nil), snap.History...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[threadID] = append(s.data[threadID], &copied)
	return nil
}

// History returns up to limit snapshots, most recent first.
func (s *Store) History(ctx context.Context, threadID string, limit int) ([]*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, ok := s.data[threadID]
	if !ok {
		return nil, domain.ErrThreadNotFound
	}
	if limit <= 0 || limit > len(all) {
		limit = len(all)
	}
	out := make([]*domain.Snapshot, 0, limit)
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		copied := *all[i]
		copied.History = append([]domain.HistoryEntry(nil), all[i].History...)
		out = append(out, &copied)
	}
	return out, nil
}

// Clear removes all snapshots for the thread.
func (s *Store) Clear(ctx context.Context, threadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[threadID]; !ok {
		return domain.ErrThreadNotFound
	}
	delete(s.data, threadID)
	return nil
}

// List returns the known thread IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	threads := make([]string, 0, len(s.data))
	for id := range s.data {
		threads = append(threads, id)
	}
	return threads, nil
}
