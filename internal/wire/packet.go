// Package wire implements the on-the-wire packet framing for the multicast
// file transfer protocol: the two fixed header layouts and the closed set of
// packet types described in §3 of the protocol specification.
package wire

import (
	"fmt"

	"github.com/lanikai/mcastxfer/internal/xfererr"
)

// PacketType identifies the purpose of a packet. The set is closed; any other
// value is MALFORMED.
type PacketType uint16

const (
	// Advertisement / enrollment acknowledgement (both directions).
	Advertise PacketType = 1

	// Data symbol; payload follows the header (sender -> receivers).
	Data PacketType = 2

	// End-of-generation marker (sender -> receivers) or deficit report
	// (receiver -> sender). Same code, opposite direction, per §3.
	Marker PacketType = 3

	// Generation-complete acknowledgement (receiver -> sender).
	Ack PacketType = 4

	// All receivers done with this generation; advance (sender -> receivers).
	Advance PacketType = 5

	// File transfer complete (sender -> receivers).
	Done PacketType = 6
)

func (t PacketType) String() string {
	switch t {
	case Advertise:
		return "ADVERTISE"
	case Data:
		return "DATA"
	case Marker:
		return "MARKER"
	case Ack:
		return "ACK"
	case Advance:
		return "ADVANCE"
	case Done:
		return "DONE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint16(t))
	}
}

// DownHeaderSize is the fixed size, in bytes, of the sender->receivers header.
const DownHeaderSize = 2 + 8 + 8 + 4 + 4 + 2 // 28 bytes

// UpHeaderSize is the fixed size, in bytes, of the receiver->sender header.
const UpHeaderSize = 2 + 4 // 6 bytes

// DownHeader is the sender->receivers packet header (§3). For the uncoded
// variant, Seed carries the running sequence number instead of a coding seed;
// the field is reused rather than duplicated so both variants share one wire
// layout.
type DownHeader struct {
	Type        PacketType
	Seed        uint64
	FieldTag    uint64 // low 8 bits meaningful
	TotalBytes  uint32
	PacketBytes uint32
	GenSize     uint16
}

func (h DownHeader) Encode() []byte {
	w := NewWriterSize(DownHeaderSize)
	w.WriteUint16(uint16(h.Type))
	w.WriteUint64(h.Seed)
	w.WriteUint64(h.FieldTag)
	w.WriteUint32(h.TotalBytes)
	w.WriteUint32(h.PacketBytes)
	w.WriteUint16(h.GenSize)
	return w.Bytes()
}

// DecodeDownHeader parses a sender->receivers header from the front of buf.
// It returns the header and the remaining payload bytes. A datagram shorter
// than DownHeaderSize is MALFORMED.
func DecodeDownHeader(buf []byte) (DownHeader, []byte, error) {
	if len(buf) < DownHeaderSize {
		return DownHeader{}, nil, fmt.Errorf("%w: down header needs %d bytes, got %d", xfererr.ErrMalformed, DownHeaderSize, len(buf))
	}
	r := NewReader(buf)
	h := DownHeader{
		Type:        PacketType(r.ReadUint16()),
		Seed:        r.ReadUint64(),
		FieldTag:    r.ReadUint64(),
		TotalBytes:  r.ReadUint32(),
		PacketBytes: r.ReadUint32(),
		GenSize:     r.ReadUint16(),
	}
	return h, r.ReadRemaining(), nil
}

// UpHeader is the receiver->sender packet header (§3).
type UpHeader struct {
	Type       PacketType
	ReceiverID uint32
}

func (h UpHeader) Encode() []byte {
	w := NewWriterSize(UpHeaderSize)
	w.WriteUint16(uint16(h.Type))
	w.WriteUint32(h.ReceiverID)
	return w.Bytes()
}

// DecodeUpHeader parses a receiver->sender header from the front of buf. It
// returns the header and the remaining payload bytes.
func DecodeUpHeader(buf []byte) (UpHeader, []byte, error) {
	if len(buf) < UpHeaderSize {
		return UpHeader{}, nil, fmt.Errorf("%w: up header needs %d bytes, got %d", xfererr.ErrMalformed, UpHeaderSize, len(buf))
	}
	r := NewReader(buf)
	h := UpHeader{
		Type:       PacketType(r.ReadUint16()),
		ReceiverID: r.ReadUint32(),
	}
	return h, r.ReadRemaining(), nil
}
