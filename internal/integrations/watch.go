package integrations

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads r whenever the file at path changes, until ctx is done.
// The parent directory is watched so that editors which replace the file
// by rename are picked up too.
func Watch(ctx context.Context, r *Registry, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target := filepath.Clean(path)
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
					continue
				}
				if err := r.Reload(path); err != nil {
					slog.Error("integrations reload failed, keeping previous config", "path", path, "error", err)
					continue
				}
				slog.Info("integrations reloaded", "path", path, "sources", r.Len())
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Error("integrations watcher error", "error", err)
			}
		}
	}()
	return nil
}
