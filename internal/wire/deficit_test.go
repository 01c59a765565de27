package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodedDeficitRoundTrip(t *testing.T) {
	buf := EncodeCodedDeficit(7)
	got, err := DecodeCodedDeficit(buf)
	assert.NoError(t, err)
	assert.Equal(t, uint32(7), got)
}

func TestMissingSetRoundTrip(t *testing.T) {
	missing := []uint32{3, 1, 4, 1, 5}
	buf := EncodeMissingSet(missing)
	got, err := DecodeMissingSet(buf)
	assert.NoError(t, err)
	assert.Equal(t, missing, got)
}

func TestMissingSetEmpty(t *testing.T) {
	buf := EncodeMissingSet(nil)
	got, err := DecodeMissingSet(buf)
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestMissingSetTruncated(t *testing.T) {
	buf := EncodeMissingSet([]uint32{1, 2, 3})
	_, err := DecodeMissingSet(buf[:len(buf)-1])
	assert.Error(t, err)
}
