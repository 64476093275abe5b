package cache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayoutBuildCachePathShape(t *testing.T) {
	l := NewLayout("/cache")
	p := l.BuildCachePath("/repo", "gradle", Fingerprint("deadbeef"))
	assert.True(t, strings.HasPrefix(p, "/cache/"))
	assert.True(t, strings.HasSuffix(p, "/gradle/deadbeef.json"))
}

func TestLayoutASTPathsShareHashButDifferentSuffix(t *testing.T) {
	l := NewLayout("/cache")
	artifact := l.ASTArtifactPath("proj", "src/Widget.java")
	meta := l.ASTMetadataPath("proj", "src/Widget.java")

	assert.True(t, strings.HasSuffix(artifact, ".ast"))
	assert.True(t, strings.HasSuffix(meta, ".metadata.bin"))
	assert.Equal(t, strings.TrimSuffix(artifact, ".ast"), strings.TrimSuffix(meta, ".metadata.bin"))
}

func TestLayoutShardIndexPathIncludesKind(t *testing.T) {
	l := NewLayout("/cache")
	for _, kind := range AllShardIndexKinds {
		p := l.ShardIndexPath("proj", 7, kind)
		assert.True(t, strings.Contains(p, "/shards/7/"))
		assert.True(t, strings.HasSuffix(p, string(kind)+".idx"))
	}
}

func TestHashPathIsDeterministic(t *testing.T) {
	assert.Equal(t, HashPath("/repo"), HashPath("/repo"))
	assert.NotEqual(t, HashPath("/repo"), HashPath("/other"))
}
