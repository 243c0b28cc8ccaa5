package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"desksort/internal/config"
	"desksort/internal/desk"
	"desksort/internal/model"
)

func newTestApp(t *testing.T, files ...string) (*App, string) {
	t.Helper()
	base := t.TempDir()
	desktop := filepath.Join(base, "Desktop")
	if err := os.MkdirAll(desktop, 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(desktop, name), []byte(name), 0644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := config.NewConfig(filepath.Join(base, "home"), desktop)
	cfg.Store.Type = config.StoreMemory

	a, err := New(cfg, Options{Console: io.Discard})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a, desktop
}

func mustSucceed(t *testing.T, resp Response) {
	t.Helper()
	if !resp.Success {
		t.Fatalf("expected success, got error %q", resp.Error)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.NewConfig(t.TempDir(), "")
	if _, err := New(cfg, Options{Console: io.Discard}); err == nil {
		t.Fatal("expected error for missing desktop dir")
	}
}

func TestNew_CreatesLogFile(t *testing.T) {
	a, _ := newTestApp(t)
	if _, err := os.Stat(filepath.Join(a.Config().LogDir, LogFileName)); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestApp_OrganizeThenUndo(t *testing.T) {
	a, desktop := newTestApp(t, "photo.jpg", "notes.txt", "setup.exe")
	ctx := context.Background()

	resp := a.Organize(ctx, desk.OrganizeRequest{Files: a.UnorganizedFiles()})
	mustSucceed(t, resp)

	res := resp.Data.(*model.OrganizeResult)
	if res.TotalMoved != 3 {
		t.Fatalf("TotalMoved = %d, want 3", res.TotalMoved)
	}
	if res.OperationID == "" {
		t.Error("expected an operation ID")
	}
	for _, p := range []string{
		filepath.Join(desktop, "DesktopSort", "Images", "photo.jpg"),
		filepath.Join(desktop, "DesktopSort", "Documents", "notes.txt"),
		filepath.Join(desktop, "DesktopSort", "Installers", "setup.exe"),
	} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected %s: %v", p, err)
		}
	}

	unorganized := a.ScanUnorganized().Data.([]model.FileDescriptor)
	if len(unorganized) != 0 {
		t.Errorf("ScanUnorganized() returned %d files after organize", len(unorganized))
	}

	undo := a.Undo(ctx, "")
	mustSucceed(t, undo)
	if got := len(undo.Data.(*model.UndoResult).Success); got != 3 {
		t.Errorf("undo moved %d files, want 3", got)
	}
	if _, err := os.Stat(filepath.Join(desktop, "photo.jpg")); err != nil {
		t.Errorf("photo.jpg not back on desktop: %v", err)
	}

	hist := a.History().Data.([]model.Operation)
	if len(hist) != 0 {
		t.Errorf("history has %d entries after undo, want 0", len(hist))
	}
}

func TestApp_Undo_Errors(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()

	t.Run("empty history", func(t *testing.T) {
		resp := a.Undo(ctx, "")
		if resp.Success {
			t.Fatal("expected failure")
		}
		if resp.Error != "no operations to undo" {
			t.Errorf("Error = %q", resp.Error)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		resp := a.Undo(ctx, "missing")
		if resp.Success {
			t.Fatal("expected failure")
		}
		if !strings.Contains(resp.Error, "operation not found") {
			t.Errorf("Error = %q", resp.Error)
		}
	})
}

func TestApp_Restore(t *testing.T) {
	a, desktop := newTestApp(t, "clip.mp4")
	ctx := context.Background()
	mustSucceed(t, a.Organize(ctx, desk.OrganizeRequest{Files: a.UnorganizedFiles()}))

	resp := a.Restore(ctx)
	mustSucceed(t, resp)
	if got := resp.Data.(*model.RestoreResult).TotalRestored; got != 1 {
		t.Errorf("TotalRestored = %d, want 1", got)
	}
	if _, err := os.Stat(filepath.Join(desktop, "clip.mp4")); err != nil {
		t.Errorf("clip.mp4 not restored: %v", err)
	}
	if _, err := os.Stat(filepath.Join(desktop, "DesktopSort")); !os.IsNotExist(err) {
		t.Errorf("organized folder should be removed, stat err = %v", err)
	}

	stats := a.HistoryStats().Data.(model.HistoryStats)
	if stats.TotalOperations != 2 {
		t.Errorf("TotalOperations = %d, want 2", stats.TotalOperations)
	}
}

func TestApp_Search(t *testing.T) {
	a, _ := newTestApp(t, "report.pdf", "readme.md", "zebra.png")

	resp := a.Search("re", 10)
	mustSucceed(t, resp)
	got := resp.Data.([]model.FileDescriptor)
	if len(got) != 2 {
		t.Fatalf("Search() returned %d files, want 2", len(got))
	}

	t.Run("index reflects organize", func(t *testing.T) {
		mustSucceed(t, a.Organize(context.Background(), desk.OrganizeRequest{Files: a.UnorganizedFiles()}))
		got := a.Search("zebra", 10).Data.([]model.FileDescriptor)
		if len(got) != 1 || !got[0].IsOrganized {
			t.Errorf("expected organized zebra.png, got %+v", got)
		}
	})
}

func TestApp_MoveFile(t *testing.T) {
	a, desktop := newTestApp(t, "a.txt")
	target := filepath.Join(desktop, "archive")
	if err := os.Mkdir(target, 0755); err != nil {
		t.Fatal(err)
	}

	resp := a.MoveFile(filepath.Join(desktop, "a.txt"), target)
	mustSucceed(t, resp)
	if want := filepath.Join(target, "a.txt"); resp.Data != want {
		t.Errorf("MoveFile() = %v, want %s", resp.Data, want)
	}

	missing := a.MoveFile(filepath.Join(desktop, "gone.txt"), target)
	if missing.Success {
		t.Error("expected failure for missing source")
	}
}

func TestApp_FileStats(t *testing.T) {
	a, desktop := newTestApp(t, "a.txt")

	resp := a.FileStats(filepath.Join(desktop, "a.txt"))
	mustSucceed(t, resp)
	st := resp.Data.(*model.FileStat)
	if !st.IsFile || st.Size != int64(len("a.txt")) {
		t.Errorf("unexpected stat %+v", st)
	}

	if a.FileStats(filepath.Join(desktop, "none")).Success {
		t.Error("expected failure for missing path")
	}
}

func TestApp_Categorize(t *testing.T) {
	a, _ := newTestApp(t, "a.jpg", "b.zip")

	resp := a.Categorize(a.UnorganizedFiles())
	mustSucceed(t, resp)
	if !a.Categories().Success {
		t.Error("Categories() failed")
	}
}

func TestApp_UpdateSetting(t *testing.T) {
	a, _ := newTestApp(t)

	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{name: "string field", key: "theme", value: "light"},
		{name: "bool field", key: "keepOriginals", value: "true"},
		{name: "unknown key", key: "colour", value: "red", wantErr: `unknown setting "colour"`},
		{name: "bad bool", key: "watchEnabled", value: "maybe", wantErr: "expected true or false"},
		{name: "invalid enum", key: "defaultMode", value: "link", wantErr: "defaultMode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := a.UpdateSetting(tt.key, tt.value)
			if tt.wantErr == "" {
				mustSucceed(t, resp)
				return
			}
			if resp.Success {
				t.Fatal("expected failure")
			}
			if !strings.Contains(resp.Error, tt.wantErr) {
				t.Errorf("Error = %q, want it to contain %q", resp.Error, tt.wantErr)
			}
		})
	}

	st := a.Settings().Data.(model.Settings)
	if st.Theme != "light" || !st.KeepOriginals || st.DefaultMode != model.ModeMove {
		t.Errorf("unexpected settings %+v", st)
	}

	reset := a.ResetSettings()
	mustSucceed(t, reset)
	if got := reset.Data.(model.Settings); got.Theme != "dark" {
		t.Errorf("Theme after reset = %q", got.Theme)
	}
}

func TestApp_FirstRun(t *testing.T) {
	a, _ := newTestApp(t)

	if !a.FirstRun() {
		t.Error("first call should report first run")
	}
	if a.FirstRun() {
		t.Error("second call should not report first run")
	}
}

func TestApp_Watch(t *testing.T) {
	t.Run("disabled without force", func(t *testing.T) {
		a, _ := newTestApp(t)
		err := a.Watch(context.Background(), false)
		if err == nil || !strings.Contains(err.Error(), "watching is disabled") {
			t.Errorf("Watch() error = %v", err)
		}
	})

	t.Run("forced watch stops on cancel", func(t *testing.T) {
		a, _ := newTestApp(t)
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- a.Watch(ctx, true) }()
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("Watch() did not return after cancel")
		}
	})
}

func TestApp_autoOrganize(t *testing.T) {
	images := func(desktop string) []string {
		entries, _ := os.ReadDir(filepath.Join(desktop, "DesktopSort", "Images"))
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		return names
	}
	ctx := context.Background()

	t.Run("copy mode takes each file once", func(t *testing.T) {
		a, desktop := newTestApp(t, "a.jpg")
		mustSucceed(t, a.UpdateSetting("defaultMode", "copy"))

		for i := 0; i < 3; i++ {
			a.autoOrganize(ctx)
		}

		if got := images(desktop); len(got) != 1 || got[0] != "a.jpg" {
			t.Errorf("Images = %v, want [a.jpg]", got)
		}
		if got := a.History().Data.([]model.Operation); len(got) != 1 {
			t.Errorf("history has %d entries, want 1", len(got))
		}

		t.Run("remembered across restarts through history", func(t *testing.T) {
			a.copied = nil
			a.autoOrganize(ctx)
			if got := images(desktop); len(got) != 1 {
				t.Errorf("Images = %v after restart", got)
			}
		})

		t.Run("changed file is copied again", func(t *testing.T) {
			path := filepath.Join(desktop, "a.jpg")
			if err := os.WriteFile(path, []byte("edited"), 0644); err != nil {
				t.Fatal(err)
			}
			later := time.Now().Add(time.Hour)
			if err := os.Chtimes(path, later, later); err != nil {
				t.Fatal(err)
			}

			a.autoOrganize(ctx)

			if got := images(desktop); len(got) != 2 {
				t.Errorf("Images = %v, want original and edited copy", got)
			}
		})
	})

	t.Run("keep originals behaves like copy mode", func(t *testing.T) {
		a, desktop := newTestApp(t, "b.png")
		mustSucceed(t, a.UpdateSetting("keepOriginals", "true"))

		a.autoOrganize(ctx)
		a.autoOrganize(ctx)

		if got := images(desktop); len(got) != 1 {
			t.Errorf("Images = %v, want one copy", got)
		}
	})

	t.Run("move mode empties the desktop", func(t *testing.T) {
		a, desktop := newTestApp(t, "c.gif")

		a.autoOrganize(ctx)
		a.autoOrganize(ctx)

		if got := images(desktop); len(got) != 1 {
			t.Errorf("Images = %v", got)
		}
		if got := a.History().Data.([]model.Operation); len(got) != 1 {
			t.Errorf("history has %d entries, want 1", len(got))
		}
	})
}

func TestApp_watchIgnored(t *testing.T) {
	a, _ := newTestApp(t)

	tests := []struct {
		name string
		want bool
	}{
		{"DesktopSort", true},
		{".DS_Store", true},
		{"desktop.ini", true},
		{"photo.jpg", false},
	}
	for _, tt := range tests {
		if got := a.watchIgnored(tt.name); got != tt.want {
			t.Errorf("watchIgnored(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	mustSucceed(t, a.UpdateSetting("destinationPath", filepath.Join(a.Config().DesktopDir, "Sorted")))
	if !a.watchIgnored("Sorted") {
		t.Error("configured destination folder should be ignored")
	}
}

func TestApp_ClearHistory(t *testing.T) {
	a, _ := newTestApp(t, "a.txt")
	mustSucceed(t, a.Organize(context.Background(), desk.OrganizeRequest{Files: a.UnorganizedFiles()}))

	mustSucceed(t, a.ClearHistory())
	if got := a.History().Data.([]model.Operation); len(got) != 0 {
		t.Errorf("History() = %d entries after clear", len(got))
	}
}

func TestSettingKeys(t *testing.T) {
	keys := SettingKeys()
	if len(keys) != len(settingFields) {
		t.Fatalf("SettingKeys() = %d keys, want %d", len(keys), len(settingFields))
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Errorf("keys not sorted: %q before %q", keys[i-1], keys[i])
		}
	}
}
