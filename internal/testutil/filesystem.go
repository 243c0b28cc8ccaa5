package testutil

import (
	"errors"
	"sync"
	"testing"

	"github.com/spf13/afero"

	"desksort/internal/desk"
	"desksort/internal/fs"
)

// MockFilesystemManager is an in-memory filesystem with per-path fault injection.
type MockFilesystemManager struct {
	*fs.Manager

	mu         sync.Mutex
	failRename map[string]error
	failCopy   map[string]error
}

// NewMockFilesystemManager creates an empty in-memory filesystem.
func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{
		Manager:    fs.NewMemFilesystemManager(nil),
		failRename: make(map[string]error),
		failCopy:   make(map[string]error),
	}
}

// AddFile creates a file with the given content, creating parent directories.
func (m *MockFilesystemManager) AddFile(t *testing.T, path, content string) {
	t.Helper()
	if err := afero.WriteFile(m.Fs(), path, []byte(content), 0o644); err != nil {
		t.Fatalf("adding file %s: %v", path, err)
	}
}

// AddDirectory creates a directory and its parents.
func (m *MockFilesystemManager) AddDirectory(t *testing.T, path string) {
	t.Helper()
	if err := m.MkdirAll(path); err != nil {
		t.Fatalf("adding directory %s: %v", path, err)
	}
}

// Content returns a file's content and whether it exists.
func (m *MockFilesystemManager) Content(path string) (string, bool) {
	data, err := afero.ReadFile(m.Fs(), path)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Has reports whether anything exists at path.
func (m *MockFilesystemManager) Has(path string) bool {
	ok, _ := m.Exists(path)
	return ok
}

// FailRename makes every rename of src fail.
func (m *MockFilesystemManager) FailRename(src string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failRename[src] = errors.New("injected rename failure")
}

// FailCopy makes every copy of src fail.
func (m *MockFilesystemManager) FailCopy(src string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failCopy[src] = errors.New("injected copy failure")
}

func (m *MockFilesystemManager) Rename(src, dst string) error {
	m.mu.Lock()
	err := m.failRename[src]
	m.mu.Unlock()
	if err != nil {
		return err
	}
	return m.Manager.Rename(src, dst)
}

func (m *MockFilesystemManager) CopyFile(src, dst string) error {
	m.mu.Lock()
	err := m.failCopy[src]
	m.mu.Unlock()
	if err != nil {
		return err
	}
	return m.Manager.CopyFile(src, dst)
}

// Compile-time check that MockFilesystemManager implements desk.FilesystemManager.
var _ desk.FilesystemManager = (*MockFilesystemManager)(nil)
