// Package uncoded implements the trivial codec variant: produce_symbol(seq)
// returns the slot at index seq, and the decoder is an index-keyed mapping
// rather than a linear-algebra decoder (§4.2, §9).
package uncoded

import "github.com/lanikai/mcastxfer/internal/codec"

type Encoder struct {
	genSize     int
	symbolBytes int
	block       []byte
}

func NewEncoder() *Encoder { return &Encoder{} }

func (e *Encoder) Configure(genSize int, symbolBytes int, block []byte) {
	e.genSize = genSize
	e.symbolBytes = symbolBytes
	e.block = block
}

// ProduceSymbol treats seed as the sequence index within the generation
// (§3 invariant I3: seq = the slot, and g = seq/gen_size at the caller).
func (e *Encoder) ProduceSymbol(seed uint64) []byte {
	seq := int(seed)
	return e.block[seq*e.symbolBytes : (seq+1)*e.symbolBytes]
}

type Decoder struct {
	genSize     int
	symbolBytes int
	slots       [][]byte
	missing     map[uint32]struct{}
}

func NewDecoder() *Decoder { return &Decoder{} }

func (d *Decoder) Configure(genSize int, symbolBytes int) {
	d.genSize = genSize
	d.symbolBytes = symbolBytes
	d.slots = make([][]byte, genSize)
	d.missing = make(map[uint32]struct{}, genSize)
	for i := 0; i < genSize; i++ {
		d.missing[uint32(i)] = struct{}{}
	}
}

// AbsorbSymbol fills slot seq if it was still missing; a repeat of an
// already-filled slot is redundant.
func (d *Decoder) AbsorbSymbol(seed uint64, symbol []byte) bool {
	seq := uint32(seed)
	if int(seq) >= d.genSize {
		return false
	}
	if _, missing := d.missing[seq]; !missing {
		return false
	}
	buf := make([]byte, d.symbolBytes)
	copy(buf, symbol)
	d.slots[seq] = buf
	delete(d.missing, seq)
	return true
}

func (d *Decoder) Deficit() int {
	return len(d.missing)
}

func (d *Decoder) IsComplete() bool {
	return len(d.missing) == 0
}

func (d *Decoder) ExtractBlock() []byte {
	block := make([]byte, d.genSize*d.symbolBytes)
	for i, slot := range d.slots {
		copy(block[i*d.symbolBytes:(i+1)*d.symbolBytes], slot)
	}
	return block
}

// MissingSequence returns the still-missing sequence indices, sorted.
func (d *Decoder) MissingSequence() []uint32 {
	out := make([]uint32, 0, len(d.missing))
	for seq := range d.missing {
		out = append(out, seq)
	}
	// Insertion sort; genSize is small (tens of entries per generation).
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

type Factory struct{}

const FieldTag = 0 // identity codec; field_tag is not meaningful here

func (Factory) NewEncoder() codec.Encoder { return NewEncoder() }
func (Factory) NewDecoder() codec.Decoder { return NewDecoder() }
