package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a config file when it changes on disk, so backend edits
// take effect without restarting the application.
type Watcher struct {
	path     string
	logger   *slog.Logger
	onChange func(*Config)
}

// NewWatcher creates a watcher for the given config file. onChange is called
// with each successfully reloaded and validated config.
func NewWatcher(path string, logger *slog.Logger, onChange func(*Config)) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{path: path, logger: logger, onChange: onChange}
}

// Run watches until the context is cancelled. The parent directory is
// watched rather than the file itself: editors that write via rename would
// otherwise silently detach the watch.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", w.path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.reload()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watch error", slog.String("error", err.Error()))
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := LoadFromFile(w.path)
	if err != nil {
		w.logger.Warn("config reload failed", slog.String("path", w.path), slog.String("error", err.Error()))
		return
	}
	if err := cfg.Validate(); err != nil {
		w.logger.Warn("reloaded config invalid", slog.String("path", w.path), slog.String("error", err.Error()))
		return
	}
	w.logger.Info("config reloaded", slog.String("path", w.path))
	w.onChange(cfg)
}
