// Package logging configures structured logging for medikeep: slog with a
// text handler on the console and a JSON handler writing to weekly rotating
// files, plus package-level helpers that fall back to stderr before the
// logger is initialized.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// RotatingWriter writes to one log file per ISO week and deletes files older
// than the retention period on rotation.
type RotatingWriter struct {
	logDir    string
	retention time.Duration

	mu          sync.Mutex
	currentFile *os.File
	currentWeek string
}

// NewRotatingWriter creates a writer rotating weekly under logDir.
func NewRotatingWriter(logDir string, retentionWeeks int) *RotatingWriter {
	return &RotatingWriter{
		logDir:    logDir,
		retention: time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
	}
}

// weekKey returns the ISO week identifier, e.g. "2026-W35".
func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// Write appends to the current week's file, rotating when the week changes.
func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	week := weekKey(time.Now())
	if w.currentFile == nil || week != w.currentWeek {
		if err := w.rotate(week); err != nil {
			return 0, err
		}
	}
	return w.currentFile.Write(p)
}

// rotate opens the file for the given week and prunes expired files.
// Caller must hold mu.
func (w *RotatingWriter) rotate(week string) error {
	if w.currentFile != nil {
		if err := w.currentFile.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
		}
	}

	path := filepath.Join(w.logDir, fmt.Sprintf("app-%s.log", week))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	w.currentFile = file
	w.currentWeek = week
	w.prune()
	return nil
}

// prune deletes log files older than the retention period.
func (w *RotatingWriter) prune() {
	entries, err := os.ReadDir(w.logDir)
	if err != nil {
		return
	}

	cutoff := time.Now().Add(-w.retention)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "app-") || !strings.HasSuffix(name, ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			os.Remove(filepath.Join(w.logDir, name))
		}
	}
}

// Close closes the current log file.
func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.currentFile == nil {
		return nil
	}
	return w.currentFile.Close()
}

// SetupLogger builds a logger writing text to the console and JSON to a
// weekly rotating file under logDir. When the directory cannot be created
// the logger degrades to console only.
func SetupLogger(logDir string, retentionWeeks int, level slog.Level) *slog.Logger {
	console := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})

	if logDir == "" {
		return slog.New(console)
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		logger := slog.New(console)
		logger.Error("Failed to create log directory, logging to console only", "error", err)
		return logger
	}

	file := slog.NewJSONHandler(NewRotatingWriter(logDir, retentionWeeks), &slog.HandlerOptions{Level: level})
	return slog.New(&teeHandler{handlers: []slog.Handler{console, file}})
}

// teeHandler fans one record out to several slog handlers.
type teeHandler struct {
	handlers []slog.Handler
}

func (t *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t *teeHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range t.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &teeHandler{handlers: next}
}

func (t *teeHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		next[i] = h.WithGroup(name)
	}
	return &teeHandler{handlers: next}
}
