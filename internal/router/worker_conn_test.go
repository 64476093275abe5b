package router

import (
	"net"
	"testing"
	"time"

	"github.com/nova-lang/nova/internal/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNegotiateVersionPicksOverlapMax(t *testing.T) {
	v, ok := negotiateVersion(
		rpc.SupportedVersions{Min: 1, Max: 3},
		rpc.SupportedVersions{Min: 2, Max: 2},
	)
	require.True(t, ok)
	assert.Equal(t, rpc.ProtocolVersion(2), v)
}

func TestNegotiateVersionEmptyOverlapFails(t *testing.T) {
	_, ok := negotiateVersion(
		rpc.SupportedVersions{Min: 1, Max: 1},
		rpc.SupportedVersions{Min: 2, Max: 2},
	)
	assert.False(t, ok)
}

func TestMinCapabilitiesIntersectsCompressionAndClampsLimits(t *testing.T) {
	a := rpc.Capabilities{
		MaxFrameLen:          100,
		MaxPacketLen:         50,
		SupportedCompression: []rpc.CompressionAlgo{rpc.CompressionNone, rpc.CompressionZstd},
		SupportsCancel:       true,
		SupportsChunking:     true,
	}
	b := rpc.Capabilities{
		MaxFrameLen:          80,
		MaxPacketLen:         60,
		SupportedCompression: []rpc.CompressionAlgo{rpc.CompressionNone},
		SupportsCancel:       false,
		SupportsChunking:     true,
	}

	out := minCapabilities(a, b)
	assert.Equal(t, uint32(80), out.MaxFrameLen)
	assert.Equal(t, uint32(50), out.MaxPacketLen)
	assert.Equal(t, []rpc.CompressionAlgo{rpc.CompressionNone}, out.SupportedCompression)
	assert.False(t, out.SupportsCancel)
	assert.True(t, out.SupportsChunking)
}

func TestAcceptHandshakeRejectsWrongShard(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()
	defer clientConn.Close()

	done := make(chan error, 1)
	go func() {
		_, err := AcceptHandshake(serverConn, 1, ShardID(0), 5, rpc.Capabilities{MaxFrameLen: 1 << 20})
		done <- err
	}()

	hello := rpc.WorkerHello{
		ShardID:           9,
		SupportedVersions: rpc.SupportedVersions{Min: 1, Max: 3},
	}
	require.NoError(t, rpc.WriteFrame(clientConn, rpc.HelloFrame(hello)))

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for handshake rejection")
	}
}

func TestAcceptHandshakeSucceedsAndNegotiatesCapabilities(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()
	defer clientConn.Close()

	type result struct {
		wc  *WorkerConn
		err error
	}
	done := make(chan result, 1)
	go func() {
		wc, err := AcceptHandshake(serverConn, 1, ShardID(0), 7, rpc.Capabilities{MaxFrameLen: 100, MaxPacketLen: 100})
		done <- result{wc, err}
	}()

	hello := rpc.WorkerHello{
		ShardID:           0,
		SupportedVersions: rpc.SupportedVersions{Min: 1, Max: 3},
		Capabilities:      rpc.Capabilities{MaxFrameLen: 80, MaxPacketLen: 120},
	}
	require.NoError(t, rpc.WriteFrame(clientConn, rpc.HelloFrame(hello)))

	welcomeFrame, err := rpc.ReadFrame(clientConn, 0)
	require.NoError(t, err)
	require.Equal(t, rpc.FrameWelcome, welcomeFrame.Kind)
	assert.Equal(t, uint64(7), welcomeFrame.Welcome.Revision)
	assert.Equal(t, uint32(80), welcomeFrame.Welcome.ChosenCapabilities.MaxFrameLen)

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, ShardID(0), res.wc.ShardID)
}
