// Package generation implements the generation manager (C3): slicing the
// file into generations on the sender, and sizing the decoder to match on
// the receiver, per §4.3 of the protocol spec.
package generation

import (
	"io"

	"github.com/lanikai/mcastxfer/internal/codec"
)

// Layout describes how a file of totalBytes is partitioned into fixed-size
// packets and generations, per §3.
type Layout struct {
	TotalBytes  uint32
	PacketBytes uint32
	GenSize     uint16 // configured (maximum) generation size

	TotalPackets uint32
	NumGens      uint32
}

// NewLayout computes the partition described in §3: total_packets =
// ceil(total_bytes/packet_bytes), num_gens = ceil(total_packets/gen_size).
func NewLayout(totalBytes, packetBytes uint32, genSize uint16) Layout {
	totalPackets := (totalBytes + packetBytes - 1) / packetBytes
	if totalPackets == 0 {
		totalPackets = 1
	}
	numGens := (totalPackets + uint32(genSize) - 1) / uint32(genSize)
	if numGens == 0 {
		numGens = 1
	}
	return Layout{
		TotalBytes:   totalBytes,
		PacketBytes:  packetBytes,
		GenSize:      genSize,
		TotalPackets: totalPackets,
		NumGens:      numGens,
	}
}

// PacketsInGen returns the number of slots actually occupied by generation g:
// GenSize for every generation but possibly the last, which may be a short
// tail (§4.3, scenario S4).
func (l Layout) PacketsInGen(g uint32) int {
	used := uint32(0)
	if g > 0 {
		used = g * uint32(l.GenSize)
	}
	remaining := l.TotalPackets - used
	if remaining > uint32(l.GenSize) {
		return int(l.GenSize)
	}
	return int(remaining)
}

// SenderGen is the sender-side generation state (§3): the raw block
// installed in the encoder, plus transmission counters.
type SenderGen struct {
	Index       uint32
	GenSize     int // may be < Layout.GenSize on a short tail
	Block       []byte
	Encoder     codec.Encoder
	OriginalTx  int
	RepairTx    int
}

// ReadGen reads generation g's block from src, zero-padding the final short
// tail, and installs it into a freshly configured encoder.
func ReadGen(src io.Reader, l Layout, g uint32, factory codec.Factory) (*SenderGen, error) {
	genSize := l.PacketsInGen(g)
	blockLen := genSize * int(l.PacketBytes)

	block := make([]byte, blockLen)
	n, err := io.ReadFull(src, block)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	// Any bytes beyond n are already zero (make() zero-fills), satisfying the
	// "last slot zero-padded" rule in §3.
	_ = n

	enc := factory.NewEncoder()
	enc.Configure(genSize, int(l.PacketBytes), block)

	return &SenderGen{
		Index:   g,
		GenSize: genSize,
		Block:   block,
		Encoder: enc,
	}, nil
}

// ReceiverGen is the receiver-side generation state (§3).
type ReceiverGen struct {
	Index   uint32
	GenSize int
	Decoder codec.Decoder
}

// NewReceiverGen configures a fresh decoder for generation g, using the
// gen_size advertised in the header that introduced it (the first type-1 or
// type-2 of that generation, per §4.3).
func NewReceiverGen(g uint32, genSize int, packetBytes int, factory codec.Factory) *ReceiverGen {
	dec := factory.NewDecoder()
	dec.Configure(genSize, packetBytes)
	return &ReceiverGen{
		Index:   g,
		GenSize: genSize,
		Decoder: dec,
	}
}
