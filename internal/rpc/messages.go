// Package rpc implements the router/worker wire protocol: CBOR-encoded
// frames over a length-prefixed stream (spec.md §4.8). Every enum-like
// value that the wire exposes decodes unrecognized variants to an
// Unknown case instead of failing, so a newer peer's additions never
// break an older one.
package rpc

import "github.com/fxamacker/cbor/v2"

// CompressionAlgo is the compression applied to one Packet's payload.
// An unrecognized wire string decodes to CompressionUnknown rather
// than failing — forward compatibility for algorithms introduced by a
// newer peer.
type CompressionAlgo int

const (
	CompressionNone CompressionAlgo = iota
	CompressionZstd
	CompressionUnknown
)

func (c CompressionAlgo) wireString() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	default:
		return "unknown"
	}
}

func compressionFromWire(s string) CompressionAlgo {
	switch s {
	case "none":
		return CompressionNone
	case "zstd":
		return CompressionZstd
	default:
		return CompressionUnknown
	}
}

// MarshalCBOR renders the algorithm as its wire string.
func (c CompressionAlgo) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(c.wireString())
}

// UnmarshalCBOR maps an unrecognized string to CompressionUnknown
// instead of returning an error.
func (c *CompressionAlgo) UnmarshalCBOR(data []byte) error {
	var s string
	if err := cbor.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = compressionFromWire(s)
	return nil
}

// ProtocolVersion is a single (min, max) negotiable version number.
type ProtocolVersion uint32

// CurrentProtocolVersion is the version this build of Nova speaks.
const CurrentProtocolVersion ProtocolVersion = 3

// SupportedVersions is the inclusive [Min, Max] range a peer can speak.
type SupportedVersions struct {
	Min ProtocolVersion `cbor:"min"`
	Max ProtocolVersion `cbor:"max"`
}

// Capabilities is what a worker or router advertises about frame/
// packet limits, compression, and optional features.
type Capabilities struct {
	MaxFrameLen          uint32            `cbor:"max_frame_len"`
	MaxPacketLen         uint32            `cbor:"max_packet_len"`
	SupportedCompression []CompressionAlgo `cbor:"supported_compression"`
	SupportsCancel       bool              `cbor:"supports_cancel"`
	SupportsChunking     bool              `cbor:"supports_chunking"`
}

// CachedIndexInfo is what a worker reports about the index it already
// has on disk, letting the router decide whether the shard is warm.
type CachedIndexInfo struct {
	Revision        uint64 `cbor:"revision"`
	IndexGeneration uint64 `cbor:"index_generation"`
	SymbolCount     uint64 `cbor:"symbol_count"`
}

// WorkerHello is a worker's handshake opener.
type WorkerHello struct {
	ShardID           uint32            `cbor:"shard_id"`
	AuthToken         *string           `cbor:"auth_token"`
	SupportedVersions SupportedVersions `cbor:"supported_versions"`
	Capabilities      Capabilities      `cbor:"capabilities"`
	CachedIndexInfo   *CachedIndexInfo  `cbor:"cached_index_info"`
	WorkerBuild       *string           `cbor:"worker_build"`
}

// RouterWelcome is the router's handshake reply.
type RouterWelcome struct {
	WorkerID           uint32          `cbor:"worker_id"`
	ShardID            uint32          `cbor:"shard_id"`
	Revision           uint64          `cbor:"revision"`
	ChosenVersion      ProtocolVersion `cbor:"chosen_version"`
	ChosenCapabilities Capabilities    `cbor:"chosen_capabilities"`
}

// FileText is one file's full text, sent on a shard's initial index or
// a file update.
type FileText struct {
	Path string `cbor:"path"`
	Text string `cbor:"text"`
}

// SymbolEntry is one symbol reported in a ShardIndexSnapshot.
type SymbolEntry struct {
	Name string `cbor:"name"`
	Path string `cbor:"path"`
}

// ShardIndexSnapshot is a worker's summary of its shard's current
// index contents, used to build a CachedIndexInfo on a later Hello.
type ShardIndexSnapshot struct {
	ShardID         uint32        `cbor:"shard_id"`
	Revision        uint64        `cbor:"revision"`
	IndexGeneration uint64        `cbor:"index_generation"`
	Symbols         []SymbolEntry `cbor:"symbols"`
}

// WorkerStats is a worker's periodic self-report.
type WorkerStats struct {
	ShardID         uint32 `cbor:"shard_id"`
	Revision        uint64 `cbor:"revision"`
	IndexGeneration uint64 `cbor:"index_generation"`
	FileCount       uint64 `cbor:"file_count"`
}

// IndexDigest accompanies a worker's response to IndexShard and
// UpdateFile. The router checks its shard_id against the shard of the
// connection it arrived on to detect a cross-shard protocol violation
// (spec.md §4.8); the revision is not checked.
type IndexDigest struct {
	ShardID    uint32 `cbor:"shard_id"`
	Revision   uint64 `cbor:"revision"`
	Generation uint64 `cbor:"generation"`
}
