package rpc

import (
	"encoding/binary"
	"fmt"
	"io"
)

// DefaultMaxFrameLen bounds a single frame's encoded length in the
// absence of a negotiated Capabilities.MaxFrameLen, guarding against a
// corrupt or hostile length prefix causing an unbounded allocation.
const DefaultMaxFrameLen = 64 << 20 // 64 MiB

// WriteFrame writes f to w as a length-prefixed little-endian u32 byte
// count followed by its CBOR encoding, per spec.md §4.8.
func WriteFrame(w io.Writer, f WireFrame) error {
	encoded, err := EncodeWireFrame(f)
	if err != nil {
		return err
	}
	var lenPrefix [4]byte
	binary.LittleEndian.PutUint32(lenPrefix[:], uint32(len(encoded)))
	if _, err := w.Write(lenPrefix[:]); err != nil {
		return fmt.Errorf("rpc: write frame length: %w", err)
	}
	if _, err := w.Write(encoded); err != nil {
		return fmt.Errorf("rpc: write frame body: %w", err)
	}
	return nil
}

// ReadFrame reads one length-prefixed frame from r. maxLen bounds the
// accepted length prefix; pass 0 to use DefaultMaxFrameLen.
func ReadFrame(r io.Reader, maxLen uint32) (WireFrame, error) {
	if maxLen == 0 {
		maxLen = DefaultMaxFrameLen
	}
	var lenPrefix [4]byte
	if _, err := io.ReadFull(r, lenPrefix[:]); err != nil {
		return WireFrame{}, err
	}
	n := binary.LittleEndian.Uint32(lenPrefix[:])
	if n > maxLen {
		return WireFrame{}, fmt.Errorf("rpc: frame length %d exceeds max %d", n, maxLen)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return WireFrame{}, fmt.Errorf("rpc: read frame body: %w", err)
	}
	return DecodeWireFrame(buf)
}
