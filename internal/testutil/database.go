package testutil

import (
	"errors"
	"sync"
	"testing"

	"desksort/internal/database"
	"desksort/internal/desk"
)

// NewTestStore creates an in-memory SQLite document store with migrations
// applied. It is closed when the test completes.
func NewTestStore(t *testing.T) desk.DocumentStore {
	t.Helper()

	store, err := database.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// FailingStore wraps a store and fails writes while FailPuts is set.
type FailingStore struct {
	desk.DocumentStore

	mu       sync.Mutex
	failPuts bool
}

func NewFailingStore(inner desk.DocumentStore) *FailingStore {
	return &FailingStore{DocumentStore: inner}
}

// FailPuts toggles write failures.
func (s *FailingStore) FailPuts(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failPuts = fail
}

func (s *FailingStore) Put(name string, data []byte) error {
	s.mu.Lock()
	fail := s.failPuts
	s.mu.Unlock()
	if fail {
		return errors.New("injected write failure")
	}
	return s.DocumentStore.Put(name, data)
}
