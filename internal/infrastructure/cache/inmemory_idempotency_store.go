package cache

import (
	"context"
	"sync"
	"time"

	"github.com/derbent/backend/internal/domain/shared"
)

// sweepEvery is the number of writes between expired-entry sweeps
const sweepEvery = 256

// InMemoryIdempotencyStore keeps processed event IDs in a map. Expired
// entries are dropped on access and swept periodically on writes.
type InMemoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	writes  int
	now     func() time.Time
}

// NewInMemoryIdempotencyStore creates an empty store
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// MarkProcessed returns false when the event is already remembered
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, eventID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if exp, ok := s.entries[eventID]; ok && now.Before(exp) {
		return false, nil
	}
	s.entries[eventID] = now.Add(ttl)

	s.writes++
	if s.writes%sweepEvery == 0 {
		for id, exp := range s.entries {
			if !now.Before(exp) {
				delete(s.entries, id)
			}
		}
	}
	return true, nil
}

// IsProcessed reports whether the event is remembered and not expired
func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.entries[eventID]
	if !ok {
		return false, nil
	}
	if !s.now().Before(exp) {
		delete(s.entries, eventID)
		return false, nil
	}
	return true, nil
}

// Len returns the number of remembered IDs, expired ones included
func (s *InMemoryIdempotencyStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close releases nothing; it exists to satisfy shared.IdempotencyStore
func (s *InMemoryIdempotencyStore) Close() error {
	return nil
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
