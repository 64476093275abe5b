package router

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShardForPathMatchesOwningRoot(t *testing.T) {
	layout := WorkspaceLayout{SourceRoots: []SourceRoot{
		{Path: "/ws/shard0/src"},
		{Path: "/ws/shard1/src"},
	}}

	shard, ok := layout.ShardForPath(filepath.Join("/ws/shard1/src", "B.java"))
	assert := assert.New(t)
	assert.True(ok)
	assert.Equal(ShardID(1), shard)
}

func TestShardForPathRootItself(t *testing.T) {
	layout := WorkspaceLayout{SourceRoots: []SourceRoot{{Path: "/ws/shard0/src"}}}

	shard, ok := layout.ShardForPath("/ws/shard0/src")
	assert.True(t, ok)
	assert.Equal(t, ShardID(0), shard)
}

func TestShardForPathOutsideEveryRoot(t *testing.T) {
	layout := WorkspaceLayout{SourceRoots: []SourceRoot{{Path: "/ws/shard0/src"}}}

	_, ok := layout.ShardForPath("/elsewhere/C.java")
	assert.False(t, ok)
}

func TestShardForPathDoesNotMatchSiblingWithSharedPrefix(t *testing.T) {
	layout := WorkspaceLayout{SourceRoots: []SourceRoot{{Path: "/ws/shard0"}}}

	_, ok := layout.ShardForPath("/ws/shard00/X.java")
	assert.False(t, ok)
}
