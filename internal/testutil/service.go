package testutil

import (
	"testing"

	"desksort/internal/desk"
)

const (
	// Desktop is the desktop directory used by NewTestService.
	Desktop = "/home/user/Desktop"
	// SharedDesktop is the shared desktop directory used by NewTestService.
	SharedDesktop = "/Users/Public/Desktop"
)

// TestService bundles a Service with the fakes behind it.
type TestService struct {
	*desk.Service
	FS       *MockFilesystemManager
	Store    desk.DocumentStore
	History  *desk.History
	Settings *desk.SettingsStore
	Clock    *TickClock
	IDs      *SequenceIDs
}

// NewTestService builds a Service over an in-memory filesystem and store,
// with Desktop and SharedDesktop already created.
func NewTestService(t *testing.T) *TestService {
	t.Helper()
	return NewTestServiceWithStore(t, NewTestStore(t))
}

// NewTestServiceWithStore is NewTestService over a caller-provided store.
func NewTestServiceWithStore(t *testing.T, store desk.DocumentStore) *TestService {
	t.Helper()

	fsmgr := NewMockFilesystemManager()
	fsmgr.AddDirectory(t, Desktop)
	fsmgr.AddDirectory(t, SharedDesktop)

	history, err := desk.NewHistory(store)
	if err != nil {
		t.Fatalf("loading history: %v", err)
	}
	settings := desk.NewSettingsStore(store)
	clock := DeskClock()
	ids := NewSequenceIDs()

	svc := desk.NewService(fsmgr, history, settings, desk.Locations{
		Desktop:       Desktop,
		SharedDesktop: SharedDesktop,
	}, desk.NewNopLogger(), clock, ids)

	return &TestService{
		Service:  svc,
		FS:       fsmgr,
		Store:    store,
		History:  history,
		Settings: settings,
		Clock:    clock,
		IDs:      ids,
	}
}
