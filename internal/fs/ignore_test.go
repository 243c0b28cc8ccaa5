package fs

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

func TestNewIgnoreMatcher(t *testing.T) {
	t.Run("skips blank lines and comments", func(t *testing.T) {
		t.Parallel()
		m := NewIgnoreMatcher([]string{"", "  ", "# comment", "*.log"})
		if len(m.patterns) != len(defaultIgnorePatterns)+1 {
			t.Fatalf("expected %d patterns, got %d", len(defaultIgnorePatterns)+1, len(m.patterns))
		}
		if last := m.patterns[len(m.patterns)-1].pattern; last != "*.log" {
			t.Errorf("expected *.log, got %s", last)
		}
	})

	t.Run("classifies path vs basename patterns", func(t *testing.T) {
		t.Parallel()
		m := NewIgnoreMatcher([]string{"*.log", "build/output"})
		n := len(defaultIgnorePatterns)
		if m.patterns[n].matchPath {
			t.Error("*.log should not be a path pattern")
		}
		if !m.patterns[n+1].matchPath {
			t.Error("build/output should be a path pattern")
		}
	})
}

func TestIgnoreMatcher_Match(t *testing.T) {
	tests := []struct {
		name         string
		patterns     []string
		relativePath string
		want         bool
	}{
		{name: "hidden file ignored by default", relativePath: ".DS_Store", want: true},
		{name: "hidden directory ignored by default", relativePath: ".git", want: true},
		{name: "desktop.ini ignored by default", relativePath: "desktop.ini", want: true},
		{name: "desktop.ini case-insensitive", relativePath: "Desktop.INI", want: true},
		{name: "regular file kept", relativePath: "notes.txt", want: false},
		{name: "empty path", relativePath: "", want: false},
		{
			name:         "basename glob matches",
			patterns:     []string{"*.tmp"},
			relativePath: "scratch.TMP",
			want:         true,
		},
		{
			name:         "basename glob matches in subdirectory",
			patterns:     []string{"*.tmp"},
			relativePath: filepath.Join("Documents", "scratch.tmp"),
			want:         true,
		},
		{
			name:         "basename glob does not match different extension",
			patterns:     []string{"*.tmp"},
			relativePath: "scratch.txt",
			want:         false,
		},
		{
			name:         "path pattern matches exact relative path",
			patterns:     []string{"Images/keep.png"},
			relativePath: filepath.Join("Images", "keep.png"),
			want:         true,
		},
		{
			name:         "path pattern does not match wrong path",
			patterns:     []string{"Images/keep.png"},
			relativePath: filepath.Join("Others", "keep.png"),
			want:         false,
		},
		{
			name:         "question mark wildcard",
			patterns:     []string{"?.txt"},
			relativePath: "a.txt",
			want:         true,
		},
		{
			name:         "bad pattern is skipped",
			patterns:     []string{"[", "*.log"},
			relativePath: "debug.log",
			want:         true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := NewIgnoreMatcher(tt.patterns)
			got := m.Match(tt.relativePath)
			if got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.relativePath, got, tt.want)
			}
		})
	}
}

func TestParseIgnoreFile(t *testing.T) {
	t.Run("reads patterns from file", func(t *testing.T) {
		t.Parallel()
		fsys := afero.NewMemMapFs()
		path := filepath.Join("/desk", IgnoreFileName)
		content := "*.log\n# comment\n\n*.tmp\nImages/raw\n"
		if err := afero.WriteFile(fsys, path, []byte(content), 0o644); err != nil {
			t.Fatalf("writing test file: %v", err)
		}

		patterns, err := ParseIgnoreFile(fsys, path)
		if err != nil {
			t.Fatalf("ParseIgnoreFile() error = %v", err)
		}
		if len(patterns) != 5 { // raw lines; filtering is NewIgnoreMatcher's job
			t.Fatalf("expected 5 raw lines, got %d", len(patterns))
		}

		m := NewIgnoreMatcher(patterns)
		if got := len(m.patterns) - len(defaultIgnorePatterns); got != 3 {
			t.Errorf("expected 3 parsed patterns, got %d", got)
		}
	})

	t.Run("returns nil for missing file", func(t *testing.T) {
		t.Parallel()
		patterns, err := ParseIgnoreFile(afero.NewMemMapFs(), "/nonexistent/"+IgnoreFileName)
		if err != nil {
			t.Fatalf("ParseIgnoreFile() error = %v", err)
		}
		if patterns != nil {
			t.Errorf("expected nil patterns, got %v", patterns)
		}
	})
}
