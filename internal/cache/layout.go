package cache

import (
	"encoding/hex"
	"fmt"
	"path/filepath"

	"lukechampine.com/blake3"
)

// HashPath returns the BLAKE3 hex digest of a path string, used for the
// project/file hash components of the on-disk layout.
func HashPath(p string) string {
	sum := blake3.Sum256([]byte(p))
	return hex.EncodeToString(sum[:])
}

// Layout resolves spec.md §4.7's three on-disk shapes under a single
// cache root.
type Layout struct {
	Root string
}

func NewLayout(root string) *Layout { return &Layout{Root: root} }

// BuildCachePath is <cache_root>/<hash(project_root)>/<build_system>/<fingerprint>.json.
func (l *Layout) BuildCachePath(projectRoot, buildSystem string, fp Fingerprint) string {
	return filepath.Join(l.Root, HashPath(projectRoot), buildSystem, string(fp)+".json")
}

// ASTArtifactPath is <cache_root>/<project>/ast/<hash(file_path)>.ast.
func (l *Layout) ASTArtifactPath(project, filePath string) string {
	return filepath.Join(l.Root, project, "ast", HashPath(filePath)+".ast")
}

// ASTMetadataPath is the artifact's sibling metadata.bin.
func (l *Layout) ASTMetadataPath(project, filePath string) string {
	return filepath.Join(l.Root, project, "ast", HashPath(filePath)+".metadata.bin")
}

// ShardIndexPath is <cache_root>/<project>/indexes/shards/<shard_id>/<kind>.idx
// where kind is one of symbols, references, inheritance, annotations.
func (l *Layout) ShardIndexPath(project string, shardID uint32, kind ShardIndexKind) string {
	return filepath.Join(l.Root, project, "indexes", "shards", fmt.Sprintf("%d", shardID), string(kind)+".idx")
}

// ShardIndexKind names one of the four index files a shard directory
// holds.
type ShardIndexKind string

const (
	IndexSymbols     ShardIndexKind = "symbols"
	IndexReferences  ShardIndexKind = "references"
	IndexInheritance ShardIndexKind = "inheritance"
	IndexAnnotations ShardIndexKind = "annotations"
)

// AllShardIndexKinds lists every index file a shard directory holds,
// in the order spec.md §4.7 names them.
var AllShardIndexKinds = []ShardIndexKind{IndexSymbols, IndexReferences, IndexInheritance, IndexAnnotations}
