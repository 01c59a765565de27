package wire

import (
	"fmt"

	"github.com/lanikai/mcastxfer/internal/xfererr"
)

// The source implementation serialized feedback payloads with an
// ecosystem-specific object pickler. §9 replaces that with a fixed wire
// encoding: for the coded variant, a little-endian uint32 deficit; for the
// uncoded variant, a little-endian uint32 count followed by that many
// little-endian uint32 sequence indices.

// EncodeCodedDeficit packs a coded-variant rank deficit (type-3 R->S payload).
func EncodeCodedDeficit(deficit uint32) []byte {
	w := NewWriterSize(4)
	w.WriteUint32(deficit)
	return w.Bytes()
}

// DecodeCodedDeficit unpacks a coded-variant rank deficit.
func DecodeCodedDeficit(payload []byte) (uint32, error) {
	if len(payload) < 4 {
		return 0, fmt.Errorf("%w: deficit payload needs 4 bytes, got %d", xfererr.ErrMalformed, len(payload))
	}
	return NewReader(payload).ReadUint32(), nil
}

// EncodeMissingSet packs the uncoded-variant set of missing sequence indices
// (type-3 R->S payload).
func EncodeMissingSet(missing []uint32) []byte {
	w := NewWriterSize(4 + 4*len(missing))
	w.WriteUint32(uint32(len(missing)))
	for _, seq := range missing {
		w.WriteUint32(seq)
	}
	return w.Bytes()
}

// DecodeMissingSet unpacks the uncoded-variant set of missing sequence
// indices.
func DecodeMissingSet(payload []byte) ([]uint32, error) {
	if len(payload) < 4 {
		return nil, fmt.Errorf("%w: missing-set payload needs 4 bytes, got %d", xfererr.ErrMalformed, len(payload))
	}
	r := NewReader(payload)
	count := r.ReadUint32()
	if err := r.CheckRemaining(int(count) * 4); err != nil {
		return nil, fmt.Errorf("%w: %v", xfererr.ErrMalformed, err)
	}
	missing := make([]uint32, count)
	for i := range missing {
		missing[i] = r.ReadUint32()
	}
	return missing, nil
}
