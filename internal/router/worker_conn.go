package router

import (
	"fmt"
	"net"

	"github.com/nova-lang/nova/internal/rpc"
)

// WorkerConn is one live connection to a worker process, after a
// completed Hello/Welcome handshake.
type WorkerConn struct {
	conn     net.Conn
	ShardID  ShardID
	Revision uint64
	Caps     rpc.Capabilities
}

// AcceptHandshake reads a WorkerHello from conn, checks it against the
// shard this connection is expected to serve, negotiates a protocol
// version and capability set, and replies with RouterWelcome.
//
// expectedShard is fixed per connection rather than read off the wire
// first: the reference router dedicates one listening address per
// shard, so a worker claiming a different shard than the one it dialed
// is already a protocol violation at handshake time.
func AcceptHandshake(conn net.Conn, workerID uint32, expectedShard ShardID, revision uint64, ours rpc.Capabilities) (*WorkerConn, error) {
	frame, err := rpc.ReadFrame(conn, 0)
	if err != nil {
		return nil, fmt.Errorf("router: read hello: %w", err)
	}
	if frame.Kind != rpc.FrameHello {
		return nil, fmt.Errorf("router: expected hello frame, got kind %d", frame.Kind)
	}
	hello := frame.Hello
	if ShardID(hello.ShardID) != expectedShard {
		return nil, fmt.Errorf("router: worker claimed shard %d on shard %d's connection", hello.ShardID, expectedShard)
	}

	chosen, ok := negotiateVersion(hello.SupportedVersions, rpc.SupportedVersions{
		Min: rpc.CurrentProtocolVersion,
		Max: rpc.CurrentProtocolVersion,
	})
	if !ok {
		return nil, fmt.Errorf("router: no overlapping protocol version with worker (worker [%d,%d])",
			hello.SupportedVersions.Min, hello.SupportedVersions.Max)
	}

	chosenCaps := minCapabilities(hello.Capabilities, ours)

	welcome := rpc.WelcomeFrame(rpc.RouterWelcome{
		WorkerID:           workerID,
		ShardID:            uint32(expectedShard),
		Revision:           revision,
		ChosenVersion:      chosen,
		ChosenCapabilities: chosenCaps,
	})
	if err := rpc.WriteFrame(conn, welcome); err != nil {
		return nil, fmt.Errorf("router: write welcome: %w", err)
	}

	return &WorkerConn{conn: conn, ShardID: expectedShard, Revision: revision, Caps: chosenCaps}, nil
}

// negotiateVersion picks the overlap [max(mins), min(maxs)] and
// returns its upper bound as the chosen version; an empty overlap
// means negotiation failed and the caller must refuse the connection.
func negotiateVersion(a, b rpc.SupportedVersions) (rpc.ProtocolVersion, bool) {
	lo := a.Min
	if b.Min > lo {
		lo = b.Min
	}
	hi := a.Max
	if b.Max < hi {
		hi = b.Max
	}
	if lo > hi {
		return 0, false
	}
	return hi, true
}

func minCapabilities(a, b rpc.Capabilities) rpc.Capabilities {
	return rpc.Capabilities{
		MaxFrameLen:          minU32(a.MaxFrameLen, b.MaxFrameLen),
		MaxPacketLen:         minU32(a.MaxPacketLen, b.MaxPacketLen),
		SupportedCompression: intersectCompression(a.SupportedCompression, b.SupportedCompression),
		SupportsCancel:       a.SupportsCancel && b.SupportsCancel,
		SupportsChunking:     a.SupportsChunking && b.SupportsChunking,
	}
}

func minU32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

func intersectCompression(a, b []rpc.CompressionAlgo) []rpc.CompressionAlgo {
	inB := make(map[rpc.CompressionAlgo]bool, len(b))
	for _, c := range b {
		inB[c] = true
	}
	var out []rpc.CompressionAlgo
	for _, c := range a {
		if inB[c] {
			out = append(out, c)
		}
	}
	return out
}
