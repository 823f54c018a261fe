package store

import (
	"context"
	"sync"
	"time"

	"github.com/kamalbuilds/zkPassport/core"
	"github.com/kamalbuilds/zkPassport/ports"
)

type entry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// MemoryStore is an in-memory implementation of the Store interface,
// primarily for tests and single-process deployments.
type MemoryStore struct {
	data map[string]entry
	mu   sync.RWMutex
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]entry),
	}
}

var _ ports.Store = (*MemoryStore)(nil)

// Set stores a value under key, overwriting any previous value.
func (s *MemoryStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	s.data[key] = e
	return nil
}

// Get retrieves a value by key. Expired entries behave as absent.
func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	if !ok {
		return "", core.ErrNotFound
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		return "", core.ErrNotFound
	}
	return e.value, nil
}

// Delete removes a key. Absent keys are not an error.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

// Clear removes all data from the store. Useful to reset between tests.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string]entry)
}
