package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
)

// tmpCounter disambiguates concurrent atomic writes to different
// destinations within the same process; combined with the pid it
// matches spec.md §4.7's "<dest>.tmp.<pid>.<counter>" naming.
var tmpCounter uint64

// maxRenameAttempts bounds the Windows remove-then-rename fallback
// loop (spec.md §4.7).
const maxRenameAttempts = 1024

// AtomicWrite writes data to dest via a temp file in the same
// directory, then renames into place. On Unix the rename is atomic
// and the parent directory is fsync'd best-effort afterward. On
// Windows, a rename can fail with the destination already existing;
// AtomicWrite removes the destination first and retries, bounded to
// maxRenameAttempts, since a concurrent writer may be racing it.
func AtomicWrite(dest string, data []byte) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cache: mkdir %s: %w", dir, err)
	}

	n := atomic.AddUint64(&tmpCounter, 1)
	tmpPath := fmt.Sprintf("%s.tmp.%d.%d", dest, os.Getpid(), n)

	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("cache: write temp file %s: %w", tmpPath, err)
	}

	if err := renameIntoPlace(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return err
	}

	syncDirBestEffort(dir)
	return nil
}

func renameIntoPlace(tmpPath, dest string) error {
	err := os.Rename(tmpPath, dest)
	if err == nil {
		return nil
	}
	if runtime.GOOS != "windows" {
		return fmt.Errorf("cache: rename %s -> %s: %w", tmpPath, dest, err)
	}
	for attempt := 0; attempt < maxRenameAttempts; attempt++ {
		if removeErr := os.Remove(dest); removeErr != nil && !os.IsNotExist(removeErr) {
			return fmt.Errorf("cache: remove stale destination %s: %w", dest, removeErr)
		}
		if err = os.Rename(tmpPath, dest); err == nil {
			return nil
		}
	}
	return fmt.Errorf("cache: rename %s -> %s failed after %d attempts: %w", tmpPath, dest, maxRenameAttempts, err)
}

// syncDirBestEffort fsyncs dir on Unix; failures are ignored, matching
// spec.md §4.7's "best-effort" wording (the file itself is already
// durably renamed; a crash before the directory entry syncs only risks
// losing the rename's durability guarantee, not data correctness).
func syncDirBestEffort(dir string) {
	if runtime.GOOS == "windows" {
		return
	}
	f, err := os.Open(dir)
	if err != nil {
		return
	}
	defer f.Close()
	_ = f.Sync()
}
