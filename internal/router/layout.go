package router

import (
	"path/filepath"
	"strings"
)

// ShardID identifies one worker's slice of the workspace.
type ShardID uint32

// SourceRoot is one directory tree assigned to a shard.
type SourceRoot struct {
	Path string
}

// WorkspaceLayout partitions a workspace into shards by source root,
// one shard per root in slice order.
type WorkspaceLayout struct {
	SourceRoots []SourceRoot
}

// ShardForPath returns the shard owning absPath: the first source
// root it falls under. A path under no configured root has no shard.
func (l WorkspaceLayout) ShardForPath(absPath string) (ShardID, bool) {
	for i, root := range l.SourceRoots {
		rel, err := filepath.Rel(root.Path, absPath)
		if err != nil {
			continue
		}
		if rel == "." {
			return ShardID(i), true
		}
		if !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && rel != ".." {
			return ShardID(i), true
		}
	}
	return 0, false
}
