// Package worker implements a shard worker's side of the router
// connection: Hello/Welcome handshake, then serving Request packets
// from the router until the connection closes.
package worker

import (
	"crypto/tls"
	"fmt"
	"net"

	"github.com/nova-lang/nova/internal/rpc"
)

// Config describes how a worker process reaches its router and which
// shard it serves.
type Config struct {
	Addr        string
	TLSConfig   *tls.Config // nil dials plaintext TCP (local/dev only)
	ShardID     uint32
	AuthToken   *string
	WorkerBuild string
}

// Handler answers one decoded Request. The returned Response's ID is
// overwritten by Serve to match the request it answers.
type Handler interface {
	Handle(req rpc.Request) rpc.Response
}

// Worker is a connected, handshaken client of a router.
type Worker struct {
	conn    net.Conn
	Welcome rpc.RouterWelcome
}

// Dial connects to the router at cfg.Addr and performs the Hello/
// Welcome handshake, advertising cached (the worker's on-disk index
// state, nil if cold) and caps (this build's capability ceiling).
func Dial(cfg Config, cached *rpc.CachedIndexInfo, caps rpc.Capabilities) (*Worker, error) {
	var conn net.Conn
	var err error
	if cfg.TLSConfig != nil {
		conn, err = tls.Dial("tcp", cfg.Addr, cfg.TLSConfig)
	} else {
		conn, err = net.Dial("tcp", cfg.Addr)
	}
	if err != nil {
		return nil, fmt.Errorf("worker: dial %s: %w", cfg.Addr, err)
	}

	build := cfg.WorkerBuild
	hello := rpc.WorkerHello{
		ShardID:           cfg.ShardID,
		AuthToken:         cfg.AuthToken,
		SupportedVersions: rpc.SupportedVersions{Min: rpc.CurrentProtocolVersion, Max: rpc.CurrentProtocolVersion},
		Capabilities:      caps,
		CachedIndexInfo:   cached,
		WorkerBuild:       &build,
	}
	if err := rpc.WriteFrame(conn, rpc.HelloFrame(hello)); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("worker: send hello: %w", err)
	}

	frame, err := rpc.ReadFrame(conn, 0)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("worker: read welcome: %w", err)
	}
	if frame.Kind != rpc.FrameWelcome {
		_ = conn.Close()
		return nil, fmt.Errorf("worker: expected welcome frame, got kind %d", frame.Kind)
	}
	if frame.Welcome.ShardID != cfg.ShardID {
		_ = conn.Close()
		return nil, fmt.Errorf("worker: router welcomed shard %d, expected %d", frame.Welcome.ShardID, cfg.ShardID)
	}

	return &Worker{conn: conn, Welcome: *frame.Welcome}, nil
}

// Serve reads Packet frames from the router and dispatches each
// decoded Request to h, writing back its Response, until the
// connection closes or a fatal framing error occurs.
func (w *Worker) Serve(h Handler) error {
	maxLen := w.Welcome.ChosenCapabilities.MaxFrameLen
	for {
		frame, err := rpc.ReadFrame(w.conn, maxLen)
		if err != nil {
			return err
		}
		if frame.Kind != rpc.FramePacket {
			continue
		}
		payload, err := rpc.DecodeRpcPayload(frame.Packet.Data)
		if err != nil {
			continue
		}
		switch payload.Kind {
		case rpc.PayloadRequest:
			resp := h.Handle(*payload.Request)
			resp.ID = payload.Request.ID
			data, err := rpc.EncodeRpcPayload(rpc.ResponsePayload(resp))
			if err != nil {
				continue
			}
			if err := rpc.WriteFrame(w.conn, rpc.PacketFrame(rpc.Packet{ID: resp.ID, Data: data})); err != nil {
				return err
			}
		case rpc.PayloadCancel:
			// Best-effort signal only: a Handler wanting to honor
			// cancellation mid-request must watch for it separately
			// (e.g. via its own context), since Handle here is
			// synchronous and already past the point of no return.
		}
	}
}

// Close closes the underlying connection.
func (w *Worker) Close() error { return w.conn.Close() }
