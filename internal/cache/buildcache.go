package cache

import (
	"encoding/json"
	"fmt"
	"os"
)

// BuildCache reads and writes build-system cache entries as pretty-
// printed JSON (spec.md §6's on-disk layout), one file per fingerprint
// under a build system's own directory.
type BuildCache struct {
	layout      *Layout
	projectRoot string
	buildSystem string
}

func NewBuildCache(layout *Layout, projectRoot, buildSystem string) *BuildCache {
	return &BuildCache{layout: layout, projectRoot: projectRoot, buildSystem: buildSystem}
}

// Get returns the cached entry for fp if present, its schema/version
// still match, and re-hashing every file it recorded digests for
// reproduces the same digests — re-verified against disk rather than
// trusted from the fingerprint alone, since a build cache's own
// fingerprint only covers the build files themselves, not everything
// they in turn declare as inputs.
func (c *BuildCache) Get(fp Fingerprint, recompute func(relPath string) (Fingerprint, error)) (*BuildCacheEntry, bool) {
	path := c.layout.BuildCachePath(c.projectRoot, c.buildSystem, fp)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var entry BuildCacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false
	}
	if entry.Fingerprint != fp {
		return nil, false
	}

	recomputed := make(map[string]Fingerprint, len(entry.Digests))
	for relPath := range entry.Digests {
		digest, err := recompute(relPath)
		if err != nil {
			return nil, false
		}
		recomputed[relPath] = digest
	}
	if entry.Stale(recomputed) {
		return nil, false
	}
	return &entry, true
}

// Put atomically writes entry under its own fingerprint's path.
func (c *BuildCache) Put(entry BuildCacheEntry) error {
	path := c.layout.BuildCachePath(c.projectRoot, c.buildSystem, entry.Fingerprint)
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("cache: encode build cache entry: %w", err)
	}
	if err := AtomicWrite(path, data); err != nil {
		return fmt.Errorf("cache: write build cache entry: %w", err)
	}
	return nil
}
