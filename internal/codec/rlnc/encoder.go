package rlnc

// Encoder produces random linear combinations of a generation's source
// symbols over GF(2^16).
type Encoder struct {
	genSize     int
	symbolBytes int
	block       []byte // genSize*symbolBytes, source symbols laid out back to back
}

func NewEncoder() *Encoder {
	return &Encoder{}
}

func (e *Encoder) Configure(genSize int, symbolBytes int, block []byte) {
	e.genSize = genSize
	e.symbolBytes = symbolBytes
	e.block = block
}

// ProduceSymbol derives a coefficient vector from seed and returns the
// corresponding coded symbol: the XOR (over GF(2^16)) of coeff[i]*symbol_i
// across every source symbol in the generation.
func (e *Encoder) ProduceSymbol(seed uint64) []byte {
	coeffs := coefficients(seed, e.genSize)
	out := make([]byte, e.symbolBytes)
	for i, c := range coeffs {
		if c == 0 {
			continue
		}
		src := e.block[i*e.symbolBytes : (i+1)*e.symbolBytes]
		mulWordsAccumulate(out, src, c)
	}
	return out
}
