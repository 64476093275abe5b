// Package cache implements Nova's persistent on-disk cache: sharded
// workspace indexes, AST metadata, and build-system caches, all keyed
// by content fingerprint and written atomically (spec.md §4.7).
package cache

import (
	"encoding/hex"
	"sort"

	"lukechampine.com/blake3"
)

// Fingerprint is a BLAKE3 digest of a set of contributing files,
// rendered as lowercase hex.
type Fingerprint string

// FileContent is one file contributing to a fingerprint: its path
// (relative to whatever root the caller fingerprints against) and raw
// bytes.
type FileContent struct {
	RelPath string
	Bytes   []byte
}

// ComputeFingerprint hashes files sorted by RelPath, each contributing
// its path, a NUL, its bytes, and a trailing NUL, exactly as spec.md
// §4.7 defines it: any file's content or the file set itself changing
// changes the fingerprint.
func ComputeFingerprint(files []FileContent) Fingerprint {
	sorted := make([]FileContent, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].RelPath < sorted[j].RelPath })

	h := blake3.New(32, nil)
	for _, f := range sorted {
		h.Write([]byte(f.RelPath))
		h.Write([]byte{0})
		h.Write(f.Bytes)
		h.Write([]byte{0})
	}
	return Fingerprint(hex.EncodeToString(h.Sum(nil)))
}

// ComputeFileFingerprint is the single-file convenience form used for
// AST artifact headers and shard-file invalidation checks.
func ComputeFileFingerprint(relPath string, bytes []byte) Fingerprint {
	return ComputeFingerprint([]FileContent{{RelPath: relPath, Bytes: bytes}})
}
