package desk

import (
	"encoding/base64"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"desksort/internal/category"
	"desksort/internal/model"
)

const (
	desktopFolder       = "Desktop"
	sharedDesktopFolder = "Public Desktop"
)

// Scan lists the desktop, the shared desktop and, recursively, the organized folder.
func (s *Service) Scan() []model.FileDescriptor {
	files := s.ScanUnorganized()
	return append(files, s.scanOrganized(s.OrganizedRoot(""))...)
}

// ScanUnorganized lists the top-level files of the desktop and the shared desktop.
func (s *Service) ScanUnorganized() []model.FileDescriptor {
	files := s.scanFlat(s.loc.Desktop, model.SourceDesktop, desktopFolder)
	if s.loc.SharedDesktop != "" {
		files = append(files, s.scanFlat(s.loc.SharedDesktop, model.SourceSharedDesktop, sharedDesktopFolder)...)
	}
	return files
}

// FileStats returns metadata for a single path without following a final symlink.
func (s *Service) FileStats(path string) (*model.FileStat, error) {
	info, err := s.fsmgr.Lstat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	times := s.fsmgr.Times(info)
	ext := fileExtension(info.Name())
	return &model.FileStat{
		Name:        info.Name(),
		Path:        path,
		Extension:   ext,
		Size:        info.Size(),
		CreatedAt:   times.Created,
		ModifiedAt:  times.Modified,
		AccessedAt:  times.Accessed,
		IsFile:      info.Mode().IsRegular(),
		IsDirectory: info.IsDir(),
		IsShortcut:  isShortcut(ext, info),
	}, nil
}

func (s *Service) scanFlat(dir, source, folder string) []model.FileDescriptor {
	entries, err := s.fsmgr.ReadDir(dir)
	if err != nil {
		s.logger.Warn("scan root not readable", "path", dir, "error", err)
		return []model.FileDescriptor{}
	}

	organized := s.OrganizedRoot("")
	files := make([]model.FileDescriptor, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)
		if s.fsmgr.IsIgnored(name) || name == s.loc.OrganizedDirName || path == organized {
			continue
		}

		info, err := s.fsmgr.Lstat(path)
		if err != nil {
			s.logger.Warn("skipping entry", "path", path, "error", err)
			continue
		}
		if info.IsDir() {
			continue
		}
		files = append(files, s.describe(path, info, source, folder, false))
	}
	return files
}

func (s *Service) scanOrganized(root string) []model.FileDescriptor {
	files := []model.FileDescriptor{}
	err := s.walk(root, func(path string, info fs.FileInfo) {
		folder := filepath.Base(filepath.Dir(path))
		files = append(files, s.describe(path, info, model.SourceOrganized, folder, true))
	})
	if err != nil {
		s.logger.Debug("organized folder not readable", "path", root, "error", err)
	}
	return files
}

// walk calls fn for every non-directory entry below root, depth first.
// Ignore patterns see each entry's path relative to root, so patterns with a
// slash can target category folders. Unreadable subdirectories are logged and
// skipped; only an unreadable root is returned as an error.
func (s *Service) walk(root string, fn func(path string, info fs.FileInfo)) error {
	return s.walkDir(root, "", fn)
}

func (s *Service) walkDir(dir, rel string, fn func(path string, info fs.FileInfo)) error {
	entries, err := s.fsmgr.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		entryRel := path.Join(rel, entry.Name())
		if s.fsmgr.IsIgnored(entryRel) {
			continue
		}
		full := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if err := s.walkDir(full, entryRel, fn); err != nil {
				s.logger.Warn("skipping directory", "path", full, "error", err)
			}
			continue
		}
		fn(full, entry)
	}
	return nil
}

func (s *Service) describe(path string, info fs.FileInfo, source, folder string, organized bool) model.FileDescriptor {
	times := s.fsmgr.Times(info)
	ext := fileExtension(info.Name())
	return model.FileDescriptor{
		ID:          base64.StdEncoding.EncodeToString([]byte(path)),
		Name:        info.Name(),
		Path:        path,
		Extension:   ext,
		Size:        info.Size(),
		CreatedAt:   times.Created,
		ModifiedAt:  times.Modified,
		IsShortcut:  isShortcut(ext, info),
		Source:      source,
		Folder:      folder,
		IsOrganized: organized,
	}
}

// splitName separates name into base and extension. A dotfile such as
// ".env" is all base.
func splitName(name string) (base, ext string) {
	ext = filepath.Ext(name)
	base = strings.TrimSuffix(name, ext)
	if base == "" {
		return name, ""
	}
	return base, ext
}

// fileExtension returns the normalized extension of name, empty for dotfiles.
func fileExtension(name string) string {
	_, ext := splitName(name)
	return category.NormalizeExtension(ext)
}

func isShortcut(ext string, info fs.FileInfo) bool {
	return ext == "lnk" || ext == "url" || info.Mode()&fs.ModeSymlink != 0
}
