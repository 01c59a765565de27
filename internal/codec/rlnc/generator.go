package rlnc

import "math/rand"

// coefficients deterministically derives a generation-sized coefficient
// vector from seed. Both the encoder (when producing a symbol) and the
// decoder (when absorbing one) call this with the same seed and must arrive
// at the same vector — that is invariant I2 of the protocol spec.
func coefficients(seed uint64, genSize int) []uint16 {
	src := rand.New(rand.NewSource(int64(seed)))
	c := make([]uint16, genSize)
	for i := range c {
		c[i] = uint16(src.Uint32())
	}
	return c
}
