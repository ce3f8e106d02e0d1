package memory

import (
	"context"
	"sync"

	"villafinder/internal/app/middleware"
)

// IdempotencyStore keeps handled command keys for the process lifetime.
type IdempotencyStore struct {
	mu    sync.RWMutex
	items map[string]middleware.IdempotencyRecord
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{items: make(map[string]middleware.IdempotencyRecord)}
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) (middleware.IdempotencyRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.items[key]
	return rec, ok, nil
}

// Save keeps the first record stored for a key.
func (s *IdempotencyStore) Save(ctx context.Context, rec middleware.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[rec.Key]; exists {
		return nil
	}
	s.items[rec.Key] = rec
	return nil
}

// Len reports how many keys are stored.
func (s *IdempotencyStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

var _ middleware.IdempotencyStore = (*IdempotencyStore)(nil)
