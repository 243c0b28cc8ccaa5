// Package fs implements desk.FilesystemManager over an afero filesystem, so the
// same code runs against the OS or an in-memory tree.
package fs

import (
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"syscall"

	"github.com/spf13/afero"

	"desksort/internal/desk"
)

// Manager is the afero-backed FilesystemManager.
type Manager struct {
	fs     afero.Fs
	ignore *IgnoreMatcher
}

// NewManager wraps fsys. Ignore patterns are added to the built-in defaults.
func NewManager(fsys afero.Fs, ignore []string) *Manager {
	return &Manager{fs: fsys, ignore: NewIgnoreMatcher(ignore)}
}

// NewOSFilesystemManager creates a manager that operates on the real filesystem.
func NewOSFilesystemManager(ignore []string) *Manager {
	return NewManager(afero.NewOsFs(), ignore)
}

// NewMemFilesystemManager creates a manager over an empty in-memory filesystem.
func NewMemFilesystemManager(ignore []string) *Manager {
	return NewManager(afero.NewMemMapFs(), ignore)
}

// Fs exposes the underlying filesystem.
func (m *Manager) Fs() afero.Fs { return m.fs }

// Lstat returns info without following a final symlink where the filesystem supports it.
func (m *Manager) Lstat(path string) (iofs.FileInfo, error) {
	if l, ok := m.fs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(path)
		return info, err
	}
	return m.fs.Stat(path)
}

// ReadDir lists a directory sorted by name.
func (m *Manager) ReadDir(path string) ([]iofs.FileInfo, error) {
	return afero.ReadDir(m.fs, path)
}

// Exists reports whether anything occupies path, including dangling symlinks.
func (m *Manager) Exists(path string) (bool, error) {
	_, err := m.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, iofs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (m *Manager) MkdirAll(path string) error {
	return m.fs.MkdirAll(path, 0o755)
}

// Rename moves src to dst, copying and then deleting when they live on
// different devices.
func (m *Manager) Rename(src, dst string) error {
	err := m.fs.Rename(src, dst)
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}

	if err := m.CopyFile(src, dst); err != nil {
		return fmt.Errorf("cross-device copy: %w", err)
	}
	if err := m.fs.Remove(src); err != nil {
		return fmt.Errorf("removing source after cross-device copy: %w", err)
	}
	return nil
}

// CopyFile copies src to dst, preserving the permission bits and
// modification time. dst must not exist.
func (m *Manager) CopyFile(src, dst string) (err error) {
	in, err := m.fs.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("source is a directory: %s", src)
	}

	out, err := m.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}
	defer func() {
		if err != nil {
			m.fs.Remove(dst)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying content: %w", err)
	}
	if err = out.Close(); err != nil {
		return fmt.Errorf("closing destination: %w", err)
	}
	if err = m.fs.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("preserving times: %w", err)
	}
	return nil
}

// RemoveEmptyDir removes path only if it is a directory with no entries.
func (m *Manager) RemoveEmptyDir(path string) error {
	entries, err := afero.ReadDir(m.fs, path)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return fmt.Errorf("directory not empty: %s", path)
	}
	return m.fs.Remove(path)
}

func (m *Manager) IsIgnored(name string) bool {
	return m.ignore.Match(name)
}

// Times extracts timestamps from info. Filesystems without platform stat data
// report the modification time for every field.
func (m *Manager) Times(info iofs.FileInfo) desk.FileTimes {
	mod := info.ModTime()
	t := desk.FileTimes{Created: mod, Accessed: mod, Modified: mod}
	if created, accessed, ok := statTimes(info); ok {
		t.Created = created
		t.Accessed = accessed
	}
	return t
}

// Compile-time check that Manager implements desk.FilesystemManager.
var _ desk.FilesystemManager = (*Manager)(nil)
