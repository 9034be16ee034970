package translations

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the catalogs in dir whenever a catalog file changes.
// It blocks until ctx is done.
func Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isCatalogEvent(event) {
				continue
			}
			currentLogger().Infof("Translation catalog changed: %s", event.Name)
			if err := LoadDir(dir); err != nil {
				currentLogger().Warnf("Failed to reload translations: %v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			currentLogger().Warnf("Translation watcher error: %v", err)
		}
	}
}

func isCatalogEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	ext := filepath.Ext(event.Name)
	return ext == ".yaml" || ext == ".yml"
}
