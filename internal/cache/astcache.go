package cache

import (
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// ASTCache reads and writes AST metadata + artifact pairs under a
// Layout, applying spec.md §4.7's validation rules (schema/version
// match, sibling artifact presence, fingerprint match) and never
// returning an error for a cache miss — only for genuine I/O failure.
type ASTCache struct {
	layout  *Layout
	project string
}

func NewASTCache(layout *Layout, project string) *ASTCache {
	return &ASTCache{layout: layout, project: project}
}

// Get returns the cached artifact bytes for filePath if, and only if,
// a metadata header exists, parses, and matches (filePath, fp) exactly,
// and the sibling artifact file is present. Any other outcome is a
// miss (ok=false), never an error — a corrupt or partial cache entry
// is simply recomputed.
func (c *ASTCache) Get(filePath string, fp Fingerprint) (artifact []byte, ok bool) {
	metaPath := c.layout.ASTMetadataPath(c.project, filePath)
	metaBytes, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, false
	}
	var header ASTHeader
	if err := cbor.Unmarshal(metaBytes, &header); err != nil {
		return nil, false
	}
	if !header.Matches(filePath, fp) {
		return nil, false
	}
	artifactPath := c.layout.ASTArtifactPath(c.project, filePath)
	data, err := os.ReadFile(artifactPath)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Put atomically writes both the artifact and its header, artifact
// first so a crash between the two writes never leaves a header
// pointing at a missing file (Get already treats a missing artifact as
// a plain miss, but writing artifact-then-header keeps the common case
// — a clean write — from ever producing a dangling reference).
func (c *ASTCache) Put(filePath string, fp Fingerprint, artifact []byte) error {
	artifactPath := c.layout.ASTArtifactPath(c.project, filePath)
	if err := AtomicWrite(artifactPath, artifact); err != nil {
		return fmt.Errorf("cache: write ast artifact: %w", err)
	}

	header := NewASTHeader(filePath, fp)
	encoded, err := cbor.Marshal(header)
	if err != nil {
		return fmt.Errorf("cache: encode ast header: %w", err)
	}
	metaPath := c.layout.ASTMetadataPath(c.project, filePath)
	if err := AtomicWrite(metaPath, encoded); err != nil {
		return fmt.Errorf("cache: write ast metadata: %w", err)
	}
	return nil
}
