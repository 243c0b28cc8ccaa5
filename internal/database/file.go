package database

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"

	"github.com/spf13/afero"

	"desksort/internal/desk"
)

var documentName = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// FileStore keeps each document as <dir>/<name>.json.
type FileStore struct {
	fs  afero.Fs
	dir string
}

// NewFileStore creates a store rooted at dir, creating it if needed.
func NewFileStore(fsys afero.Fs, dir string) (*FileStore, error) {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &FileStore{fs: fsys, dir: dir}, nil
}

func (s *FileStore) path(name string) (string, error) {
	if !documentName.MatchString(name) {
		return "", fmt.Errorf("invalid document name: %q", name)
	}
	return filepath.Join(s.dir, name+".json"), nil
}

// Get returns the document body, or nil if absent.
func (s *FileStore) Get(name string) ([]byte, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading document %s: %w", name, err)
	}
	return data, nil
}

// Put writes the document through a temp file and rename, so readers never
// see a partial document.
func (s *FileStore) Put(name string, data []byte) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}

	tmp, err := afero.TempFile(s.fs, s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return fmt.Errorf("writing document %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return fmt.Errorf("syncing document %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("closing document %s: %w", name, err)
	}
	if err := s.fs.Rename(tmpName, path); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("replacing document %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Compile-time check that FileStore implements desk.DocumentStore.
var _ desk.DocumentStore = (*FileStore)(nil)

