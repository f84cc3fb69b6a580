package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watch reloads the settings file whenever it changes and hands valid settings to
// onChange. Invalid edits are logged and skipped. It blocks until ctx is done.
func Watch(ctx context.Context, path string, onChange func(Settings)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create settings watcher: %w", err)
	}
	defer watcher.Close()

	// Editors replace files on save, so watch the directory and filter by name.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			settings, err := Load(path)
			if err != nil {
				log.Error("Ignoring invalid settings", "path", path, "error", err)
				continue
			}
			log.Info("Settings reloaded", "path", path, "board", settings.BoardName())
			onChange(settings)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("Settings watcher error", "error", err)
		}
	}
}
