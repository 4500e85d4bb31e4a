// Package cache provides background maintenance for the localized cache directory.
package cache

import (
	"os"
	"path/filepath"
	"time"

	"github.com/vidstack/elements/where"
)

// TTL bounds the age of unreferenced cache artifacts. Live entries (probe
// results, the version check) carry their own lifetimes; this sweep only
// reclaims files nothing has touched for a long time.
const TTL = 30 * 24 * time.Hour

// CollectGarbage prunes stale files from the cache directory. Runs in the
// caller's goroutine; callers that don't want to wait spawn it themselves.
func CollectGarbage() {
	_ = filepath.WalkDir(where.Cache(), func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil && time.Since(info.ModTime()) > TTL {
			_ = os.Remove(path)
		}
		return nil
	})
}
