package router

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/nova-lang/nova/internal/rpc"
	"github.com/rs/zerolog"
)

// Router holds one live connection per shard and dispatches requests
// to the shard that owns a given file.
type Router struct {
	layout WorkspaceLayout
	logger zerolog.Logger

	mu      sync.Mutex
	workers map[ShardID]*WorkerConn
	pending map[uint64]chan rpc.Response

	nextReqID atomic.Uint64
}

// NewRouter builds a Router over layout, logging through logger (the
// teacher's zerolog convention, generalized from CLI output to
// structured request/connection events).
func NewRouter(layout WorkspaceLayout, logger zerolog.Logger) *Router {
	return &Router{
		layout:  layout,
		logger:  logger,
		workers: make(map[ShardID]*WorkerConn),
		pending: make(map[uint64]chan rpc.Response),
	}
}

// Attach registers an already-handshaken worker connection and starts
// reading its responses in the background.
func (r *Router) Attach(wc *WorkerConn) {
	r.mu.Lock()
	r.workers[wc.ShardID] = wc
	r.mu.Unlock()
	go r.readLoop(wc)
}

func (r *Router) readLoop(wc *WorkerConn) {
	for {
		frame, err := rpc.ReadFrame(wc.conn, wc.Caps.MaxFrameLen)
		if err != nil {
			r.logger.Warn().Uint32("shard_id", uint32(wc.ShardID)).Err(err).Msg("worker connection closed")
			r.detach(wc.ShardID)
			return
		}
		if frame.Kind != rpc.FramePacket {
			continue
		}
		payload, err := rpc.DecodeRpcPayload(frame.Packet.Data)
		if err != nil || payload.Kind != rpc.PayloadResponse {
			continue
		}
		resp := *payload.Response
		if violation := r.shardViolation(wc.ShardID, resp); violation != "" {
			r.logger.Error().Uint32("shard_id", uint32(wc.ShardID)).Str("reason", violation).
				Msg("protocol violation, disconnecting worker")
			r.rejectPending(resp.ID, fmt.Errorf("router: %s", violation))
			r.disconnect(wc, violation)
			return
		}
		r.deliver(resp)
	}
}

// shardViolation reports a non-empty reason when a response's embedded
// shard identifier doesn't match the connection it arrived on — a
// worker reporting another shard's index data over this connection.
func (r *Router) shardViolation(owner ShardID, resp rpc.Response) string {
	if resp.WorkerStats != nil && ShardID(resp.WorkerStats.ShardID) != owner {
		return fmt.Sprintf("worker reported stats for shard %d on shard %d's connection", resp.WorkerStats.ShardID, owner)
	}
	if resp.IndexDigest != nil && ShardID(resp.IndexDigest.ShardID) != owner {
		return fmt.Sprintf("worker reported index digest for shard %d on shard %d's connection", resp.IndexDigest.ShardID, owner)
	}
	return ""
}

// disconnect tells the worker why it's being dropped and closes the
// connection. This wire format has no dedicated Shutdown frame; an
// error Response on the reserved id 0 followed by closing the socket
// serves the same purpose, since the worker observes EOF on its next
// read and exits.
func (r *Router) disconnect(wc *WorkerConn, reason string) {
	if data, err := rpc.EncodeRpcPayload(rpc.ResponsePayload(rpc.Response{ID: 0, Err: reason})); err == nil {
		_ = rpc.WriteFrame(wc.conn, rpc.PacketFrame(rpc.Packet{ID: 0, Data: data}))
	}
	r.detach(wc.ShardID)
	_ = wc.conn.Close()
}

func (r *Router) detach(id ShardID) {
	r.mu.Lock()
	delete(r.workers, id)
	r.mu.Unlock()
}

func (r *Router) deliver(resp rpc.Response) {
	r.mu.Lock()
	ch, ok := r.pending[resp.ID]
	if ok {
		delete(r.pending, resp.ID)
	}
	r.mu.Unlock()
	if ok {
		ch <- resp
	}
}

func (r *Router) rejectPending(id uint64, err error) {
	r.mu.Lock()
	ch, ok := r.pending[id]
	if ok {
		delete(r.pending, id)
	}
	r.mu.Unlock()
	if ok {
		ch <- rpc.Response{ID: id, Err: err.Error()}
	}
}

// Call sends req to the shard owning absPath and blocks for a matching
// Response. Cancellation of ctx sends a best-effort Cancel payload
// upstream before returning ctx.Err().
func (r *Router) Call(ctx context.Context, absPath string, req rpc.Request) (rpc.Response, error) {
	shard, ok := r.layout.ShardForPath(absPath)
	if !ok {
		return rpc.Response{}, fmt.Errorf("router: %s is outside every configured source root", absPath)
	}
	r.mu.Lock()
	wc, ok := r.workers[shard]
	r.mu.Unlock()
	if !ok {
		return rpc.Response{}, fmt.Errorf("router: no worker connected for shard %d", shard)
	}

	req.ID = r.nextReqID.Add(1)
	ch := make(chan rpc.Response, 1)
	r.mu.Lock()
	r.pending[req.ID] = ch
	r.mu.Unlock()

	data, err := rpc.EncodeRpcPayload(rpc.RequestPayload(req))
	if err != nil {
		r.mu.Lock()
		delete(r.pending, req.ID)
		r.mu.Unlock()
		return rpc.Response{}, fmt.Errorf("router: encode request: %w", err)
	}
	if err := rpc.WriteFrame(wc.conn, rpc.PacketFrame(rpc.Packet{ID: req.ID, Data: data})); err != nil {
		r.mu.Lock()
		delete(r.pending, req.ID)
		r.mu.Unlock()
		return rpc.Response{}, fmt.Errorf("router: send request: %w", err)
	}

	select {
	case resp := <-ch:
		if resp.Err != "" {
			return resp, fmt.Errorf("router: worker error: %s", resp.Err)
		}
		return resp, nil
	case <-ctx.Done():
		if wc.Caps.SupportsCancel {
			if data, err := rpc.EncodeRpcPayload(rpc.CancelRpcPayload(rpc.CancelPayload{ID: req.ID})); err == nil {
				_ = rpc.WriteFrame(wc.conn, rpc.PacketFrame(rpc.Packet{Data: data}))
			}
		}
		r.mu.Lock()
		delete(r.pending, req.ID)
		r.mu.Unlock()
		return rpc.Response{}, ctx.Err()
	}
}

// Serve accepts worker connections on ln until ctx is canceled,
// handshaking each via shardFor before attaching it. shardFor maps an
// accepted connection to the shard it's expected to serve — callers
// typically run one listener per shard and so return a constant.
func (r *Router) Serve(ctx context.Context, ln net.Listener, shardFor func(net.Conn) ShardID, revision uint64, caps rpc.Capabilities) error {
	var workerIDSeq atomic.Uint32
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return fmt.Errorf("router: accept: %w", err)
			}
		}
		go func(c net.Conn) {
			connID := uuid.New().String()
			shard := shardFor(c)
			wc, err := AcceptHandshake(c, workerIDSeq.Add(1), shard, revision, caps)
			if err != nil {
				r.logger.Warn().Str("conn_id", connID).Err(err).Msg("worker handshake failed")
				_ = c.Close()
				return
			}
			r.logger.Info().Str("conn_id", connID).Uint32("shard_id", uint32(wc.ShardID)).Msg("worker attached")
			r.Attach(wc)
		}(conn)
	}
}

// IsAttached reports whether a worker is currently attached for shard,
// letting a caller that seeds a freshly attached worker with its initial
// IndexShard request poll for handshake completion instead of racing it.
func (r *Router) IsAttached(shard ShardID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.workers[shard]
	return ok
}

// Shutdown closes every attached worker connection.
func (r *Router) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, wc := range r.workers {
		_ = wc.conn.Close()
		delete(r.workers, id)
	}
}
