package rpc

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// FrameKind discriminates WireFrame's three recognized shapes, plus
// Unknown for anything the wire sent that this build doesn't
// recognize.
type FrameKind int

const (
	FrameHello FrameKind = iota
	FrameWelcome
	FramePacket
	FrameUnknown
)

// Packet carries one in-flight RPC payload, already compressed per
// its Compression field.
type Packet struct {
	ID          uint64          `cbor:"id"`
	Compression CompressionAlgo `cbor:"compression"`
	Data        []byte          `cbor:"data"`
}

// WireFrame is one of Hello, Welcome, or Packet (spec.md §4.8's three
// frame families), or Unknown if the wire tagged it with a type this
// build doesn't recognize — decoding an Unknown frame never fails,
// so a newer peer introducing a fourth frame type doesn't break an
// older one mid-stream; the caller just ignores it.
type WireFrame struct {
	Kind    FrameKind
	Hello   *WorkerHello
	Welcome *RouterWelcome
	Packet  *Packet
}

func HelloFrame(h WorkerHello) WireFrame     { return WireFrame{Kind: FrameHello, Hello: &h} }
func WelcomeFrame(w RouterWelcome) WireFrame { return WireFrame{Kind: FrameWelcome, Welcome: &w} }
func PacketFrame(p Packet) WireFrame         { return WireFrame{Kind: FramePacket, Packet: &p} }

// wireEnvelope is the adjacently-tagged {type, body} shape every frame
// and payload on this wire uses, matching the reference protocol's own
// serde representation closely enough that an unrecognized "type"
// string is trivial to detect without needing a full schema.
type wireEnvelope struct {
	Type string          `cbor:"type"`
	Body cbor.RawMessage `cbor:"body"`
}

// EncodeWireFrame renders f as CBOR. Encoding a WireFrame built with
// FrameUnknown (rather than received off the wire) is a programmer
// error — there's nothing meaningful to send.
func EncodeWireFrame(f WireFrame) ([]byte, error) {
	env := wireEnvelope{}
	var body any
	switch f.Kind {
	case FrameHello:
		env.Type = "hello"
		body = f.Hello
	case FrameWelcome:
		env.Type = "welcome"
		body = f.Welcome
	case FramePacket:
		env.Type = "packet"
		body = f.Packet
	default:
		return nil, fmt.Errorf("rpc: cannot encode an Unknown wire frame")
	}
	encoded, err := cbor.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("rpc: encode %s body: %w", env.Type, err)
	}
	env.Body = encoded
	return cbor.Marshal(env)
}

// DecodeWireFrame parses data as a WireFrame. An unrecognized "type"
// tag decodes to FrameUnknown rather than returning an error.
func DecodeWireFrame(data []byte) (WireFrame, error) {
	var env wireEnvelope
	if err := cbor.Unmarshal(data, &env); err != nil {
		return WireFrame{}, fmt.Errorf("rpc: decode wire envelope: %w", err)
	}
	switch env.Type {
	case "hello":
		var h WorkerHello
		if err := cbor.Unmarshal(env.Body, &h); err != nil {
			return WireFrame{}, fmt.Errorf("rpc: decode hello body: %w", err)
		}
		return WireFrame{Kind: FrameHello, Hello: &h}, nil
	case "welcome":
		var w RouterWelcome
		if err := cbor.Unmarshal(env.Body, &w); err != nil {
			return WireFrame{}, fmt.Errorf("rpc: decode welcome body: %w", err)
		}
		return WireFrame{Kind: FrameWelcome, Welcome: &w}, nil
	case "packet":
		var p Packet
		if err := cbor.Unmarshal(env.Body, &p); err != nil {
			return WireFrame{}, fmt.Errorf("rpc: decode packet body: %w", err)
		}
		return WireFrame{Kind: FramePacket, Packet: &p}, nil
	default:
		return WireFrame{Kind: FrameUnknown}, nil
	}
}
