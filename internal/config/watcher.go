package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors the configuration file and invokes onChange with the
// freshly loaded configuration whenever it is rewritten. It blocks until
// ctx is cancelled. The parent directory is watched rather than the file
// itself so editors that replace the file atomically are still seen.
func Watch(ctx context.Context, path string, logger *slog.Logger, onChange func(*Config)) error {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch config directory: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-watcher.Events:
			if event.Name != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := LoadFrom(path)
			if err != nil {
				logger.Warn("config reload failed", "path", path, "error", err)
				continue
			}
			if err := cfg.Validate(); err != nil {
				logger.Warn("reloaded config is invalid, keeping previous", "error", err)
				continue
			}
			logger.Info("configuration reloaded", "path", path)
			onChange(cfg)
		case err := <-watcher.Errors:
			logger.Warn("config watcher error", "error", err)
		}
	}
}
