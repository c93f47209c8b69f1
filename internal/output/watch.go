/*
PURPOSE:
  Follows a result CSV and reports the parsed matrix each time it changes.

REQUIREMENTS:
  User-specified:
  - Results must be observable while a long sweep runs.

  Implementation-discovered:
  - Atomic replaces swap the inode, so the parent directory is watched
    (fsnotify) and events are filtered by name.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli/watch.go
  - Uses: internal/output/csv.go (ReadMatrix)

ERROR HANDLING:
  - A missing file is silent; other read errors are logged and skipped.
  - Returns when ctx is done.

IMPLEMENTATION RULES:
  - fn runs synchronously in the event loop; keep it short.

USAGE:
  err := output.Watch(ctx, path, func(m *output.Matrix) { ... })

SELF-HEALING INSTRUCTIONS:
  - If no events arrive, check the inotify watch limit.

RELATED FILES:
  - internal/cli/watch.go

MAINTENANCE:
  - None.
*/

package output

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch calls fn with the parsed matrix at path now (if it exists) and after
// every replace, until ctx is done. The parent directory is watched because
// atomic replaces swap the file's inode.
func Watch(ctx context.Context, path string, fn func(*Matrix)) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	reload := func() {
		m, err := ReadMatrix(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				Logger.Warn("Failed to read matrix", "path", path, "error", err)
			}
			return
		}
		fn(m)
	}
	reload()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) {
				reload()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			Logger.Warn("Watcher error", "error", err)
		}
	}
}
