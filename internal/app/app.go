package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"desksort/internal/category"
	"desksort/internal/config"
	"desksort/internal/database"
	"desksort/internal/desk"
	"desksort/internal/fs"
	"desksort/internal/model"
	"desksort/internal/search"
	"desksort/internal/watch"
)

// Options adjust how the App reports progress.
type Options struct {
	// Verbose sends every log record to the console, not only warnings.
	Verbose bool
	// Console receives log output; nil means stderr.
	Console io.Writer
}

// App is the application layer between the CLI and the desk Service.
// It constructs all dependencies from config, owns the process-wide history,
// settings and search index, and converts results into Responses.
// The caller must call Close when done.
type App struct {
	cfg      *config.Config
	store    desk.DocumentStore
	fsmgr    *fs.Manager
	history  *desk.History
	settings *desk.SettingsStore
	index    *search.Index
	service  *desk.Service
	logger   desk.Logger
	logFile  *os.File

	// copied remembers, per source path, the modification time already
	// copied by the watcher.
	copied map[string]time.Time
}

// New creates a fully wired App from the given config.
func New(cfg *config.Config, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	runID := time.Now().UTC().Format("20060102T150405Z")
	sl, logFile, err := newLogger(cfg.LogDir, runID, console, level)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: sl}

	osfs := afero.NewOsFs()
	ignore := append([]string{}, cfg.Filesystem.Ignore...)
	extra, err := fs.ParseIgnoreFile(osfs, filepath.Join(cfg.DesktopDir, fs.IgnoreFileName))
	if err != nil {
		logger.Warn("ignoring unreadable ignore file", "error", err)
	}
	fsmgr := fs.NewManager(osfs, append(ignore, extra...))

	store, err := database.NewStoreFromConfig(cfg.Store)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating store: %w", err)
	}

	history, err := desk.NewHistory(store)
	if err != nil {
		store.Close()
		logFile.Close()
		return nil, err
	}
	settings := desk.NewSettingsStore(store)

	svc := desk.NewService(fsmgr, history, settings, desk.Locations{
		Desktop:          cfg.DesktopDir,
		SharedDesktop:    cfg.SharedDesktopDir,
		OrganizedDirName: cfg.OrganizedDirName,
	}, logger, desk.RealClock{}, desk.UUIDGenerator{})

	return &App{
		cfg:      cfg,
		store:    store,
		fsmgr:    fsmgr,
		history:  history,
		settings: settings,
		index:    search.New(),
		service:  svc,
		logger:   logger,
		logFile:  logFile,
	}, nil
}

// Config returns the configuration the App was built from.
func (a *App) Config() *config.Config { return a.cfg }

func (a *App) respond(op string, data any, err error) Response {
	if err != nil {
		a.logger.Error(op+" failed", "error", err)
		return fail(err)
	}
	return ok(data)
}

// refreshIndex rebuilds the search index from a full scan.
func (a *App) refreshIndex() []model.FileDescriptor {
	files := a.service.Scan()
	a.index.Rebuild(files)
	return files
}

// Scan lists every known file and rebuilds the search index.
func (a *App) Scan() Response {
	return ok(a.refreshIndex())
}

// ScanUnorganized lists files still on the desktops.
func (a *App) ScanUnorganized() Response {
	return ok(a.service.ScanUnorganized())
}

// UnorganizedFiles is ScanUnorganized without the envelope, for composing requests.
func (a *App) UnorganizedFiles() []model.FileDescriptor {
	return a.service.ScanUnorganized()
}

func (a *App) FileStats(path string) Response {
	abs, err := filepath.Abs(path)
	if err != nil {
		return a.respond("stat", nil, fmt.Errorf("resolving path: %w", err))
	}
	st, err := a.service.FileStats(abs)
	return a.respond("stat", st, err)
}

func (a *App) Categories() Response {
	return ok(category.Categories())
}

// Categorize groups files by category without touching them.
func (a *App) Categorize(files []model.FileDescriptor) Response {
	return ok(category.Categorize(files))
}

func (a *App) Organize(ctx context.Context, req desk.OrganizeRequest) Response {
	res, err := a.service.Organize(ctx, req)
	if err == nil {
		a.refreshIndex()
	}
	return a.respond("organize", res, err)
}

func (a *App) Restore(ctx context.Context) Response {
	res, err := a.service.Restore(ctx)
	if err == nil {
		a.refreshIndex()
	}
	return a.respond("restore", res, err)
}

// MoveFile moves a single file. A dest naming an existing directory receives
// the file under its own name.
func (a *App) MoveFile(src, dest string) Response {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return a.respond("move", nil, fmt.Errorf("resolving source: %w", err))
	}
	absDest, err := filepath.Abs(dest)
	if err != nil {
		return a.respond("move", nil, fmt.Errorf("resolving destination: %w", err))
	}
	if info, err := a.fsmgr.Lstat(absDest); err == nil && info.IsDir() {
		absDest = filepath.Join(absDest, filepath.Base(absSrc))
	}

	final, err := a.service.MoveFile(absSrc, absDest)
	if err == nil {
		a.refreshIndex()
	}
	return a.respond("move", final, err)
}

// Undo reverses the operation with the given ID, or the most recent one when id is empty.
func (a *App) Undo(ctx context.Context, id string) Response {
	if id == "" {
		latest, ok := a.history.Latest()
		if !ok {
			return a.respond("undo", nil, errors.New("no operations to undo"))
		}
		id = latest.ID
	}
	res, err := a.service.Undo(ctx, id)
	if err == nil {
		a.refreshIndex()
	}
	return a.respond("undo", res, err)
}

func (a *App) History() Response {
	return ok(a.history.Get())
}

func (a *App) ClearHistory() Response {
	return a.respond("clear history", nil, a.history.Clear())
}

func (a *App) HistoryStats() Response {
	return ok(a.history.Stats())
}

// Search finds files by name prefix. The index is built by a scan on first use.
func (a *App) Search(query string, limit int) Response {
	if a.index.Len() == 0 {
		a.refreshIndex()
	}
	return ok(a.index.Search(query, limit))
}

// IndexStats reports the size of the search index.
func (a *App) IndexStats() Response {
	return ok(a.index.Stats())
}

func (a *App) Settings() Response {
	st, err := a.settings.Get()
	return a.respond("settings", st, err)
}

// UpdateSetting sets one setting by its JSON name.
func (a *App) UpdateSetting(key, value string) Response {
	var applyErr error
	st, err := a.settings.Update(func(s *model.Settings) {
		applyErr = applySetting(s, key, value)
	})
	if applyErr != nil {
		return a.respond("update settings", nil, applyErr)
	}
	return a.respond("update settings", st, err)
}

func (a *App) ResetSettings() Response {
	st, err := a.settings.Reset()
	return a.respond("reset settings", st, err)
}

// FirstRun reports whether this is the first run, clearing the flag.
func (a *App) FirstRun() bool {
	st, err := a.settings.Get()
	if err != nil || !st.IsFirstRun {
		return false
	}
	if err := a.settings.CompleteFirstRun(); err != nil {
		a.logger.Warn("clearing first-run flag", "error", err)
	}
	return true
}

// Watch organizes new desktop files as they appear, until ctx is cancelled.
// It requires the watchEnabled setting unless force is set.
func (a *App) Watch(ctx context.Context, force bool) error {
	st, err := a.settings.Get()
	if err != nil {
		return err
	}
	if !st.WatchEnabled && !force {
		return errors.New("watching is disabled; run `desksort settings set watchEnabled true` or pass --force")
	}

	a.copied = a.copiedSources()
	w := watch.New(a.cfg.DesktopDir, watch.Options{
		Debounce: time.Duration(a.cfg.Watch.DebounceMillis) * time.Millisecond,
		Interval: time.Duration(a.cfg.Watch.IntervalMinutes) * time.Minute,
		Ignore:   a.watchIgnored,
	}, a.logger, a.autoOrganize)
	return w.Run(ctx)
}

// watchIgnored filters watcher events: ignored names and the organized folder,
// which organizing itself creates on the desktop.
func (a *App) watchIgnored(name string) bool {
	return a.fsmgr.IsIgnored(name) ||
		name == a.cfg.OrganizedDirName ||
		name == filepath.Base(a.service.OrganizedRoot(""))
}

// copiedSources maps each source path taken by a recorded copy operation to
// the latest time it was copied.
func (a *App) copiedSources() map[string]time.Time {
	copied := make(map[string]time.Time)
	for _, op := range a.history.Get() {
		if op.Mode != model.ModeCopy {
			continue
		}
		for _, t := range op.Transfers {
			if t.Timestamp.After(copied[t.Source]) {
				copied[t.Source] = t.Timestamp
			}
		}
	}
	return copied
}

func copyMode(st model.Settings) bool {
	return st.DefaultMode == model.ModeCopy || st.KeepOriginals
}

func (a *App) autoOrganize(ctx context.Context) {
	files := a.service.ScanUnorganized()

	st, err := a.settings.Get()
	if err != nil {
		a.logger.Error("auto-organize failed", "error", err)
		return
	}
	copying := copyMode(st)
	if copying {
		// Copies leave the sources on the desktop; take each version once.
		if a.copied == nil {
			a.copied = a.copiedSources()
		}
		fresh := files[:0]
		for _, f := range files {
			if at, ok := a.copied[f.Path]; ok && !f.ModifiedAt.After(at) {
				continue
			}
			fresh = append(fresh, f)
		}
		files = fresh
	}
	if len(files) == 0 {
		return
	}

	res, err := a.service.Organize(ctx, desk.OrganizeRequest{Files: files})
	if err != nil {
		a.logger.Error("auto-organize failed", "error", err)
		return
	}
	if copying {
		modified := make(map[string]time.Time, len(files))
		for _, f := range files {
			modified[f.Path] = f.ModifiedAt
		}
		for _, m := range res.Success {
			a.copied[m.From] = modified[m.From]
		}
	}
	a.refreshIndex()
	a.logger.Info("auto-organized", "moved", res.TotalMoved, "failed", len(res.Failed), "operation", res.OperationID)
}

// Close releases the store and the log file.
func (a *App) Close() error {
	var firstErr error
	if err := a.store.Close(); err != nil {
		firstErr = fmt.Errorf("closing store: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}
