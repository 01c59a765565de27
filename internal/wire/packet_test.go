package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDownHeaderRoundTrip(t *testing.T) {
	h := DownHeader{
		Type:        Data,
		Seed:        0xdeadbeefcafebabe,
		FieldTag:    16,
		TotalBytes:  48,
		PacketBytes: 8,
		GenSize:     4,
	}
	payload := []byte{1, 2, 3, 4}
	buf := append(h.Encode(), payload...)

	got, rest, err := DecodeDownHeader(buf)
	assert.NoError(t, err)
	assert.Equal(t, h, got)
	assert.Equal(t, payload, rest)
}

func TestDownHeaderMalformed(t *testing.T) {
	_, _, err := DecodeDownHeader(make([]byte, DownHeaderSize-1))
	assert.Error(t, err)
}

func TestUpHeaderRoundTrip(t *testing.T) {
	h := UpHeader{Type: Ack, ReceiverID: 42}
	buf := h.Encode()

	got, rest, err := DecodeUpHeader(buf)
	assert.NoError(t, err)
	assert.Equal(t, h, got)
	assert.Empty(t, rest)
}

func TestUpHeaderMalformed(t *testing.T) {
	_, _, err := DecodeUpHeader(make([]byte, UpHeaderSize-1))
	assert.Error(t, err)
}

func TestPacketTypeString(t *testing.T) {
	assert.Equal(t, "DATA", Data.String())
	assert.Equal(t, "UNKNOWN(99)", PacketType(99).String())
}
