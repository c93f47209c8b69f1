/*
PURPOSE:
  Replaces a file so readers see either the old or the new content, never a
  partial write.

REQUIREMENTS:
  User-specified:
  - The result CSV may be opened at any time during a sweep.

  Implementation-discovered:
  - The temp file must live in the target directory for rename to be atomic.

ARCHITECTURE INTEGRATION:
  - Called by: internal/output/csv.go (MatrixWriter.Write)

ERROR HANDLING:
  - Any failure removes the temp file and leaves the previous file intact.

IMPLEMENTATION RULES:
  - fsync before rename.

USAGE:
  err := atomicWriteFile(path, data, 0644)

SELF-HEALING INSTRUCTIONS:
  - Leftover .<name>.tmp-* files mean the process was killed mid-write; they
    are safe to delete.

RELATED FILES:
  - internal/output/csv.go

MAINTENANCE:
  - None.
*/

package output

import (
	"fmt"
	"os"
	"path/filepath"
)

// atomicWriteFile writes data to a temp file next to path, fsyncs it and
// renames it over path. Readers see either the old or the new file.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create parent directory %s: %w", dir, err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := f.Name()

	success := false
	defer func() {
		if !success {
			f.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, perm); err != nil {
		return fmt.Errorf("failed to set file permissions: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	success = true
	return nil
}
