package rlnc

import "github.com/lanikai/mcastxfer/internal/codec"

// Factory builds RLNC encoder/decoder pairs. FieldTag reports GF(2^16) per
// the sender/receiver header's field_tag byte (§3).
type Factory struct{}

const FieldTag = 16 // GF(2^16), matches DownHeader.FieldTag's low byte

func (Factory) NewEncoder() codec.Encoder { return NewEncoder() }
func (Factory) NewDecoder() codec.Decoder { return NewDecoder() }
