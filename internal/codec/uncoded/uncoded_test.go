package uncoded

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundTripInOrder(t *testing.T) {
	const genSize = 6
	const symbolBytes = 8

	src := rand.New(rand.NewSource(1))
	block := make([]byte, genSize*symbolBytes)
	src.Read(block)

	enc := NewEncoder()
	enc.Configure(genSize, symbolBytes, block)

	dec := NewDecoder()
	dec.Configure(genSize, symbolBytes)

	for seq := 0; seq < genSize; seq++ {
		accepted := dec.AbsorbSymbol(uint64(seq), enc.ProduceSymbol(uint64(seq)))
		assert.True(t, accepted)
	}

	assert.True(t, dec.IsComplete())
	assert.True(t, bytes.Equal(block, dec.ExtractBlock()))
}

func TestDuplicateSlotIsRedundant(t *testing.T) {
	const genSize = 3
	const symbolBytes = 4

	block := make([]byte, genSize*symbolBytes)
	enc := NewEncoder()
	enc.Configure(genSize, symbolBytes, block)

	dec := NewDecoder()
	dec.Configure(genSize, symbolBytes)

	assert.True(t, dec.AbsorbSymbol(0, enc.ProduceSymbol(0)))
	assert.False(t, dec.AbsorbSymbol(0, enc.ProduceSymbol(0)))
	assert.Equal(t, genSize-1, dec.Deficit())
}

func TestMissingSequenceSorted(t *testing.T) {
	const genSize = 5
	const symbolBytes = 2

	block := make([]byte, genSize*symbolBytes)
	enc := NewEncoder()
	enc.Configure(genSize, symbolBytes, block)

	dec := NewDecoder()
	dec.Configure(genSize, symbolBytes)

	dec.AbsorbSymbol(3, enc.ProduceSymbol(3))
	dec.AbsorbSymbol(1, enc.ProduceSymbol(1))

	assert.Equal(t, []uint32{0, 2, 4}, dec.MissingSequence())
}
