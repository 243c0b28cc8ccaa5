package database

import (
	"sync"

	"desksort/internal/desk"
)

// MemoryStore is an in-memory desk.DocumentStore. Nothing survives the process.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func (s *MemoryStore) Get(name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.docs[name]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), data...), nil
}

func (s *MemoryStore) Put(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[name] = append([]byte(nil), data...)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// Compile-time check that MemoryStore implements desk.DocumentStore.
var _ desk.DocumentStore = (*MemoryStore)(nil)
