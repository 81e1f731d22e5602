package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemStore is a mutex-guarded in-memory Store.  It backs the
// session-scoped transient keys (search context, pending booking
// drafts) and stands in for MySQL in tests.  Values are kept as
// serialized JSON so that round-trip behavior matches the durable
// backend exactly.
type MemStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{data: map[string]string{}}
}

func (s *MemStore) Get(_ context.Context, key string, dest any) (bool, error) {
	s.mu.RLock()
	payload, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(payload), dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *MemStore) Set(_ context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	s.mu.Lock()
	s.data[key] = string(payload)
	s.mu.Unlock()
	return nil
}

func (s *MemStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

func (s *MemStore) ClearAll(_ context.Context) error {
	s.mu.Lock()
	s.data = map[string]string{}
	s.mu.Unlock()
	return nil
}

// Corrupt overwrites a key with non-JSON text.  Test hook for the
// degraded-read path.
func (s *MemStore) Corrupt(key string) {
	s.mu.Lock()
	s.data[key] = "{not json"
	s.mu.Unlock()
}
