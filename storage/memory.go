package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-process Store used by tests and by the registry when
// no persistence backend is configured. FailWrites can be toggled to
// exercise the degraded-persistence paths.
type MemoryStore struct {
	mu         sync.RWMutex
	values     map[string][]byte
	FailWrites bool
}

// Compile-time check to ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

// Get returns the value stored under key, or (nil, nil) when absent.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return nil, nil
	}
	copied := make([]byte, len(value))
	copy(copied, value)
	return copied, nil
}

// Set writes a single key.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites {
		return fmt.Errorf("memory store: writes disabled")
	}
	copied := make([]byte, len(value))
	copy(copied, value)
	s.values[key] = copied
	return nil
}

// SetMulti writes all pairs under one lock, so readers never observe a
// half-applied batch.
func (s *MemoryStore) SetMulti(ctx context.Context, values map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites {
		return fmt.Errorf("memory store: writes disabled")
	}
	for key, value := range values {
		copied := make([]byte, len(value))
		copy(copied, value)
		s.values[key] = copied
	}
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
