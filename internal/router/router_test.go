package router

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/nova-lang/nova/internal/rpc"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, root string) (*Router, *WorkerConn, net.Conn) {
	t.Helper()
	serverConn, clientConn := net.Pipe()
	t.Cleanup(func() { _ = clientConn.Close() })

	layout := WorkspaceLayout{SourceRoots: []SourceRoot{{Path: root}}}
	r := NewRouter(layout, zerolog.Nop())
	wc := &WorkerConn{conn: serverConn, ShardID: 0, Caps: rpc.Capabilities{MaxFrameLen: 1 << 20, SupportsCancel: true}}
	r.Attach(wc)
	return r, wc, clientConn
}

func TestRouterCallRoundtrip(t *testing.T) {
	root := t.TempDir()
	r, _, clientConn := newTestRouter(t, root)

	go func() {
		frame, err := rpc.ReadFrame(clientConn, 0)
		if err != nil {
			return
		}
		payload, err := rpc.DecodeRpcPayload(frame.Packet.Data)
		if err != nil || payload.Kind != rpc.PayloadRequest {
			return
		}
		resp := rpc.Response{ID: payload.Request.ID, WorkerStats: &rpc.WorkerStats{ShardID: 0, FileCount: 3}}
		data, _ := rpc.EncodeRpcPayload(rpc.ResponsePayload(resp))
		_ = rpc.WriteFrame(clientConn, rpc.PacketFrame(rpc.Packet{ID: resp.ID, Data: data}))
	}()

	resp, err := r.Call(context.Background(), filepath.Join(root, "A.java"), rpc.Request{
		Kind:  rpc.RequestQuery,
		Query: &rpc.QueryRequest{Method: "goto_definition"},
	})
	require.NoError(t, err)
	require.NotNil(t, resp.WorkerStats)
	assert.Equal(t, uint64(3), resp.WorkerStats.FileCount)
}

func TestRouterCallOutsideAnyShardFails(t *testing.T) {
	root := t.TempDir()
	r, _, _ := newTestRouter(t, root)

	_, err := r.Call(context.Background(), "/definitely/not/under/any/root/X.java", rpc.Request{Kind: rpc.RequestQuery})
	require.Error(t, err)
}

func TestRouterDisconnectsWorkerOnShardMismatchedResponse(t *testing.T) {
	root := t.TempDir()
	r, wc, clientConn := newTestRouter(t, root)

	go func() {
		frame, err := rpc.ReadFrame(clientConn, 0)
		if err != nil {
			return
		}
		payload, err := rpc.DecodeRpcPayload(frame.Packet.Data)
		if err != nil || payload.Kind != rpc.PayloadRequest {
			return
		}
		// Worker on shard 0's connection falsely reports shard 1's stats.
		resp := rpc.Response{ID: payload.Request.ID, WorkerStats: &rpc.WorkerStats{ShardID: 1}}
		data, _ := rpc.EncodeRpcPayload(rpc.ResponsePayload(resp))
		_ = rpc.WriteFrame(clientConn, rpc.PacketFrame(rpc.Packet{ID: resp.ID, Data: data}))
	}()

	_, err := r.Call(context.Background(), filepath.Join(root, "A.java"), rpc.Request{
		Kind:  rpc.RequestQuery,
		Query: &rpc.QueryRequest{Method: "goto_definition"},
	})
	require.Error(t, err)

	// The router must have dropped the worker's connection; the
	// client side observes this as a subsequent write/read failing.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		r.mu.Lock()
		_, stillAttached := r.workers[wc.ShardID]
		r.mu.Unlock()
		if !stillAttached {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("router never detached the worker after a shard violation")
}
