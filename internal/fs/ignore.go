package fs

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// IgnoreFileName is read from the desktop directory for user ignore patterns.
const IgnoreFileName = ".desksortignore"

// defaultIgnorePatterns are always applied: hidden entries and the shell's
// per-folder settings file.
var defaultIgnorePatterns = []string{".*", "desktop.ini"}

// ignorePattern is a parsed ignore pattern with its matching strategy.
type ignorePattern struct {
	pattern   string
	matchPath bool // true = match against relative path; false = match against basename only
}

// IgnoreMatcher checks names against a set of glob patterns, case-insensitively.
// Patterns without '/' match against the basename only.
// Patterns with '/' match against the path relative to the organized folder,
// e.g. "Images/*.tmp"; desktop entries are matched by name alone.
type IgnoreMatcher struct {
	patterns []ignorePattern
}

// NewIgnoreMatcher creates an IgnoreMatcher from raw pattern strings plus the defaults.
// Blank lines and lines starting with '#' are skipped.
func NewIgnoreMatcher(rawPatterns []string) *IgnoreMatcher {
	var patterns []ignorePattern
	for _, raw := range append(append([]string{}, defaultIgnorePatterns...), rawPatterns...) {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		patterns = append(patterns, ignorePattern{
			pattern:   strings.ToLower(raw),
			matchPath: strings.Contains(raw, "/"),
		})
	}
	return &IgnoreMatcher{patterns: patterns}
}

// Match reports whether the given name or relative path should be ignored.
func (m *IgnoreMatcher) Match(relativePath string) bool {
	if relativePath == "" {
		return false
	}
	normalized := strings.ToLower(filepath.ToSlash(relativePath))
	basename := strings.ToLower(filepath.Base(relativePath))

	for _, p := range m.patterns {
		target := basename
		if p.matchPath {
			target = normalized
		}
		matched, err := filepath.Match(p.pattern, target)
		if err != nil {
			// Bad pattern, skip it.
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// ParseIgnoreFile reads an ignore file and returns the raw pattern strings.
// Returns nil and no error if the file does not exist.
func ParseIgnoreFile(fsys afero.Fs, path string) ([]string, error) {
	f, err := fsys.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening ignore file: %w", err)
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		patterns = append(patterns, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ignore file: %w", err)
	}
	return patterns, nil
}
