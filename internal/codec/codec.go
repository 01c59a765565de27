// Package codec defines the replaceable symbol codec interface (§4.2) that
// lets the sender/receiver state machines in internal/sender and
// internal/receiver drive either the network-coded (RLNC) or uncoded
// variant without change. The protocol only ever needs a deficit count from
// the decoder; it never inspects coding internals.
package codec

// Encoder produces symbols for one generation.
type Encoder interface {
	// Configure prepares the encoder for a generation with genSize symbols of
	// symbolBytes each, installing block as the source data. len(block) must
	// equal genSize*symbolBytes.
	Configure(genSize int, symbolBytes int, block []byte)

	// ProduceSymbol deterministically derives a symbol from seed. For the
	// coded variant this is a fresh random linear combination; for the
	// uncoded variant seed is treated as the symbol's sequence index within
	// the generation and the call returns that slot verbatim.
	ProduceSymbol(seed uint64) []byte
}

// Decoder accumulates symbols for one generation.
type Decoder interface {
	// Configure (re)initializes the decoder for a generation with genSize
	// symbols of symbolBytes each. Any previously absorbed symbols are
	// discarded.
	Configure(genSize int, symbolBytes int)

	// AbsorbSymbol submits a symbol produced with the given seed. It returns
	// accepted=true if the symbol increased the decoder's rank (uncoded:
	// filled a previously-missing slot). A redundant symbol is not an error;
	// it simply returns accepted=false.
	AbsorbSymbol(seed uint64, symbol []byte) (accepted bool)

	// Deficit returns the number of additional symbols needed to complete the
	// generation: for the coded variant, genSize minus rank; for the uncoded
	// variant, the number of still-missing slots.
	Deficit() int

	// IsComplete reports whether Deficit() == 0.
	IsComplete() bool

	// ExtractBlock returns the fully reconstructed block. Only valid once
	// IsComplete returns true.
	ExtractBlock() []byte

	// MissingSequence returns the sorted sequence indices still missing.
	// Only meaningful for the uncoded variant; the coded variant returns nil
	// since it has no per-symbol concept of "missing".
	MissingSequence() []uint32
}

// Factory builds a fresh, unconfigured Encoder/Decoder pair for one variant.
// internal/sender and internal/receiver take a Factory rather than concrete
// types so the CLI's --coded flag can select the variant at startup.
type Factory interface {
	NewEncoder() Encoder
	NewDecoder() Decoder
}
