package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LogFileName is created in the configured log directory.
const LogFileName = "desksort.log"

// dsHandler is a custom slog.Handler that formats log records as:
//
//	<timestamp>\t<level>\t<runID>\t<message>\t<key=value ...>
//
// Every record goes to file; records at or above consoleLevel also go to console.
type dsHandler struct {
	file         io.Writer
	console      io.Writer
	consoleLevel slog.Level
	runID        string
	attrs        []slog.Attr
}

func (h *dsHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *dsHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\t%s\t%s\t%s", r.Time.UTC().Format("2006-01-02T15:04:05Z"), r.Level, h.runID, r.Message)
	for _, a := range h.attrs {
		fmt.Fprintf(&b, "\t%s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, "\t%s=%v", a.Key, a.Value)
		return true
	})
	b.WriteByte('\n')
	line := b.String()

	if h.file != nil {
		if _, err := io.WriteString(h.file, line); err != nil {
			return err
		}
	}
	if h.console != nil && r.Level >= h.consoleLevel {
		if _, err := io.WriteString(h.console, line); err != nil {
			return err
		}
	}
	return nil
}

func (h *dsHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *dsHandler) WithGroup(string) slog.Handler { return h }

// newLogger creates a structured logger writing to logDir/desksort.log and,
// from consoleLevel up, to console. The returned file must be closed by the caller.
func newLogger(logDir, runID string, console io.Writer, consoleLevel slog.Level) (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(logDir, LogFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	handler := &dsHandler{file: f, console: console, consoleLevel: consoleLevel, runID: runID}
	return slog.New(handler), f, nil
}

// slogAdapter wraps *slog.Logger to satisfy the desk.Logger interface.
type slogAdapter struct {
	l *slog.Logger
}

func (a *slogAdapter) Debug(msg string, args ...any) { a.l.Debug(msg, args...) }
func (a *slogAdapter) Info(msg string, args ...any)  { a.l.Info(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.l.Warn(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }
