package desk

import (
	"io/fs"
	"time"
)

// FileTimes are the timestamps extracted from a stat result.
// Created falls back to the change or modification time where the platform
// does not record a birth time.
type FileTimes struct {
	Created  time.Time
	Accessed time.Time
	Modified time.Time
}

// FilesystemManager abstracts file access so the organizer can run against an
// in-memory filesystem in tests.
type FilesystemManager interface {
	// Lstat returns info about path without following a final symlink.
	Lstat(path string) (fs.FileInfo, error)

	// ReadDir lists the entries of a directory, sorted by name.
	ReadDir(path string) ([]fs.FileInfo, error)

	// Exists reports whether anything (file, directory or link) occupies path.
	Exists(path string) (bool, error)

	// MkdirAll creates path and any missing parents. Existing directories are fine.
	MkdirAll(path string) error

	// Rename moves src to dst. Across filesystem boundaries it falls back to a
	// non-atomic copy followed by removal of src.
	Rename(src, dst string) error

	// CopyFile duplicates src at dst. dst must not exist.
	CopyFile(src, dst string) error

	// RemoveEmptyDir removes a directory only if it has no entries.
	RemoveEmptyDir(path string) error

	// IsIgnored reports whether an entry name should be skipped by scans.
	IsIgnored(name string) bool

	// Times extracts timestamps from a stat result.
	Times(info fs.FileInfo) FileTimes
}
