package cache

import (
	"hash/fnv"
)

// ShardCount is the default number of workspace index shards. Spec.md
// §4.7 allows up to 1024, power-of-two recommended; 64 is a reasonable
// default for a single-project workspace and keeps shard directories
// from outnumbering files in small projects.
const ShardCount = 64

// ShardFor assigns a workspace-relative path to its owning shard:
// hash(relative_path) mod n.
func ShardFor(relPath string, n uint32) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(relPath))
	return h.Sum32() % n
}

// ShardIndex tracks which shards are present on disk and which failed
// to load, for one project's workspace index.
type ShardIndex struct {
	N       uint32
	present map[uint32]bool
}

func NewShardIndex(n uint32) *ShardIndex {
	return &ShardIndex{N: n, present: make(map[uint32]bool)}
}

// MarkLoaded records that shardID loaded successfully.
func (s *ShardIndex) MarkLoaded(shardID uint32) {
	s.present[shardID] = true
}

// MarkCorrupt drops shardID as a whole — spec.md §4.7: "a shard with
// any corrupt/unparseable file is dropped as a whole and reported in
// missing_shards; unaffected shards still load."
func (s *ShardIndex) MarkCorrupt(shardID uint32) {
	delete(s.present, shardID)
}

// Loaded reports whether shardID is currently present and uncorrupted.
func (s *ShardIndex) Loaded(shardID uint32) bool {
	return s.present[shardID]
}

// MissingShards returns every shard ID in [0, N) not currently marked
// loaded, sorted ascending.
func (s *ShardIndex) MissingShards() []uint32 {
	var missing []uint32
	for id := uint32(0); id < s.N; id++ {
		if !s.present[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

// ShardsForInvalidatedFiles maps a set of fingerprint-drifted
// workspace-relative paths to the distinct set of shards that own
// them — those are the only shards that need recomputing on load.
func ShardsForInvalidatedFiles(relPaths []string, n uint32) []uint32 {
	seen := make(map[uint32]bool)
	var shards []uint32
	for _, p := range relPaths {
		id := ShardFor(p, n)
		if !seen[id] {
			seen[id] = true
			shards = append(shards, id)
		}
	}
	return shards
}
