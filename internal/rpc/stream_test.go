package rpc

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadFrameRoundtrip(t *testing.T) {
	f := PacketFrame(Packet{ID: 1, Compression: CompressionNone, Data: []byte("hello")})

	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, f))

	decoded, err := ReadFrame(&buf, 0)
	require.NoError(t, err)
	require.Equal(t, FramePacket, decoded.Kind)
	assert.Equal(t, []byte("hello"), decoded.Packet.Data)
}

func TestReadFrameRejectsOversizedLengthPrefix(t *testing.T) {
	f := PacketFrame(Packet{ID: 1, Compression: CompressionNone, Data: []byte("hello")})
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, f))

	_, err := ReadFrame(&buf, 1)
	require.Error(t, err)
}

func TestReadFrameOnTwoConsecutiveFramesInOneStream(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, PacketFrame(Packet{ID: 1, Data: []byte("a")})))
	require.NoError(t, WriteFrame(&buf, PacketFrame(Packet{ID: 2, Data: []byte("b")})))

	first, err := ReadFrame(&buf, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), first.Packet.ID)

	second, err := ReadFrame(&buf, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), second.Packet.ID)

	_, err = ReadFrame(&buf, 0)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadFramePartialBodyIsAnError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, PacketFrame(Packet{ID: 1, Data: []byte("hello world")})))

	truncated := buf.Bytes()[:buf.Len()-3]
	_, err := ReadFrame(bytes.NewReader(truncated), 0)
	require.Error(t, err)
}
