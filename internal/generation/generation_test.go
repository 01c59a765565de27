package generation

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lanikai/mcastxfer/internal/codec/uncoded"
)

func TestLayoutEvenSplit(t *testing.T) {
	// packet_bytes=8, gen_size=4, total_bytes=48: six whole packets split
	// evenly across two generations (cf. §8 scenario S1).
	l := NewLayout(48, 8, 4)
	assert.EqualValues(t, 6, l.TotalPackets)
	assert.EqualValues(t, 2, l.NumGens)
	assert.Equal(t, 4, l.PacketsInGen(0))
	assert.Equal(t, 2, l.PacketsInGen(1))
}

func TestLayoutShortTailGeneration(t *testing.T) {
	// total_bytes=31, packet_bytes=10, gen_size=3: four packets (last one
	// zero-padded), so the final generation is a 1-packet short tail with
	// gen_size reduced in its headers (cf. §8 scenario S4, §4.3).
	l := NewLayout(31, 10, 3)
	assert.EqualValues(t, 4, l.TotalPackets)
	assert.EqualValues(t, 2, l.NumGens)
	assert.Equal(t, 3, l.PacketsInGen(0))
	assert.Equal(t, 1, l.PacketsInGen(1))
}

func TestReadGenZeroPadsShortTail(t *testing.T) {
	l := NewLayout(31, 10, 3)
	src := bytes.NewReader(bytes.Repeat([]byte{0xAB}, 31))

	// Drain generation 0 first so generation 1 starts at the right offset.
	_, err := ReadGen(src, l, 0, uncoded.Factory{})
	assert.NoError(t, err)

	sg, err := ReadGen(src, l, 1, uncoded.Factory{})
	assert.NoError(t, err)
	assert.Equal(t, 1, sg.GenSize)
	assert.Len(t, sg.Block, 10)
	assert.Equal(t, byte(0xAB), sg.Block[0])
	assert.Equal(t, byte(0), sg.Block[9])
}
