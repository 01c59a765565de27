// Package sender implements the sender state machine (C5, §4.5): ENROLL,
// GEN_SEND, GEN_WAIT, FINISH. It is codec-agnostic — the same state machine
// drives both the RLNC and uncoded variants via internal/codec.Factory.
package sender

import (
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/lanikai/mcastxfer/internal/codec"
	"github.com/lanikai/mcastxfer/internal/generation"
	"github.com/lanikai/mcastxfer/internal/logging"
	"github.com/lanikai/mcastxfer/internal/netio"
	"github.com/lanikai/mcastxfer/internal/receivertable"
	"github.com/lanikai/mcastxfer/internal/wire"
	"github.com/lanikai/mcastxfer/internal/xfererr"
)

var log = logging.DefaultLogger.WithTag("sender")

// SetLogLevel overrides this package's logging verbosity. LOGLEVEL is parsed
// once at process start, before flags are available, so the CLI's --verbose
// flag reaches here instead.
func SetLogLevel(level logging.Level) {
	log.Level = level
}

// Config holds the tunables named in spec.md §6 and the Open-Questions
// decisions recorded in SPEC_FULL.md.
type Config struct {
	PacketBytes uint32
	GenSize     uint16
	FieldTag    uint64

	// EnrollAdvertisements is the number of type-1 advertisements sent before
	// the enrollment window closes (§4.5 ENROLL, default 3).
	EnrollAdvertisements int
	// EnrollWindow is how long the sender listens for replies after the last
	// advertisement (§4.5, §9 decision 1, default 100ms).
	EnrollWindow time.Duration
	// SilenceThreshold is the number of idle polls before the marker is
	// retransmitted (§4.5 GEN_WAIT, §9 decision 3, default 3).
	SilenceThreshold int
	// MaxRepairRounds caps repair rounds per generation; 0 means unlimited
	// (§9 decision 4).
	MaxRepairRounds int
}

// DefaultConfig returns the spec's documented defaults.
func DefaultConfig() Config {
	return Config{
		PacketBytes:          1400,
		GenSize:              20,
		EnrollAdvertisements: 3,
		EnrollWindow:         100 * time.Millisecond,
		SilenceThreshold:     3,
		MaxRepairRounds:      0,
	}
}

// Stats accumulates the counters the CLI reports on completion (§6).
type Stats struct {
	TotalPackets  uint32
	OriginalTx    int
	RepairTx      int
	ReceiverCount int
}

// Sender drives the transfer for one source file to completion.
type Sender struct {
	conn    *netio.SenderConn
	factory codec.Factory
	cfg     Config
	table   *receivertable.Table
}

func New(conn *netio.SenderConn, factory codec.Factory, cfg Config) *Sender {
	return &Sender{
		conn:    conn,
		factory: factory,
		cfg:     cfg,
		table:   receivertable.New(),
	}
}

// Run executes ENROLL -> GEN_SEND/GEN_WAIT (for every generation) -> FINISH.
func (s *Sender) Run(source io.Reader, totalBytes uint32) (Stats, error) {
	layout := generation.NewLayout(totalBytes, s.cfg.PacketBytes, s.cfg.GenSize)
	stats := Stats{TotalPackets: layout.TotalPackets}

	if err := s.enroll(layout); err != nil {
		return stats, err
	}
	stats.ReceiverCount = s.table.Len()

	for g := uint32(0); g < layout.NumGens; g++ {
		sg, err := generation.ReadGen(source, layout, g, s.factory)
		if err != nil {
			return stats, errors.Wrapf(xfererr.ErrSourceIO, "generation %d: %v", g, err)
		}
		if err := s.runGeneration(layout, sg, &stats); err != nil {
			return stats, err
		}
	}

	return stats, s.finish()
}

// enroll implements ENROLL (§4.5): emit a handful of advertisements, then
// listen for a bounded window after the last one. Every type-1 reply adds a
// receiver to the table in Pending.
func (s *Sender) enroll(l generation.Layout) error {
	advert := wire.DownHeader{
		Type:        wire.Advertise,
		FieldTag:    s.cfg.FieldTag,
		TotalBytes:  l.TotalBytes,
		PacketBytes: l.PacketBytes,
		GenSize:     l.GenSize,
	}.Encode()

	for i := 0; i < s.cfg.EnrollAdvertisements; i++ {
		if err := s.conn.Send(advert); err != nil {
			return errors.Wrap(err, "send advertisement")
		}
	}
	log.Info("sent %d advertisements, awaiting enrollment", s.cfg.EnrollAdvertisements)

	deadline := time.Now().Add(s.cfg.EnrollWindow)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		pkt, _, ok, err := s.conn.RecvTimeout(remaining)
		if err != nil {
			return errors.Wrap(err, "enroll recv")
		}
		if !ok {
			break
		}
		up, _, err := wire.DecodeUpHeader(pkt)
		if err != nil {
			continue // MALFORMED: drop silently
		}
		if up.Type == wire.Advertise {
			s.table.Enroll(up.ReceiverID)
		}
	}

	log.Info("enrolled %d receiver(s)", s.table.Len())
	return nil
}

// runGeneration implements GEN_SEND(g) followed by GEN_WAIT(g) (§4.5).
func (s *Sender) runGeneration(l generation.Layout, sg *generation.SenderGen, stats *Stats) error {
	s.table.ResetForNewGeneration()
	seeds := newSeedCache(sg.GenSize)

	baseHeader := func(t wire.PacketType) wire.DownHeader {
		return wire.DownHeader{
			Type:        t,
			FieldTag:    s.cfg.FieldTag,
			TotalBytes:  l.TotalBytes,
			PacketBytes: l.PacketBytes,
			GenSize:     uint16(sg.GenSize),
		}
	}

	emitOriginal := func(n int) error {
		for i := 0; i < n; i++ {
			local := sg.OriginalTx + sg.RepairTx
			codecSeed := s.codecSeed(seeds, local)
			h := baseHeader(wire.Data)
			h.Seed = s.wireSeed(l, sg, codecSeed, local)
			symbol := sg.Encoder.ProduceSymbol(codecSeed)
			if err := s.conn.Send(append(h.Encode(), symbol...)); err != nil {
				return errors.Wrap(err, "send data")
			}
			sg.OriginalTx++
			stats.OriginalTx++
		}
		return nil
	}

	emitMarker := func() error {
		h := baseHeader(wire.Marker)
		return s.conn.Send(h.Encode())
	}

	if err := emitOriginal(sg.GenSize); err != nil {
		return err
	}
	if err := emitMarker(); err != nil {
		return err
	}

	maxDeficit := uint32(0)
	unionMissing := make(map[uint32]struct{})
	silence := 0
	repairRounds := 0

	waitForQuorum := func() error {
		for !s.table.QuorumFresh() {
			pkt, _, ok, err := s.conn.Recv()
			if err != nil {
				return errors.Wrap(err, "gen_wait recv")
			}
			if !ok {
				silence++
				if silence >= s.cfg.SilenceThreshold {
					if err := emitMarker(); err != nil {
						return err
					}
					silence = 0
				}
				continue
			}
			silence = 0

			up, payload, err := wire.DecodeUpHeader(pkt)
			if err != nil {
				continue // MALFORMED: drop silently
			}

			switch up.Type {
			case wire.Marker:
				if err := s.recordDeficit(payload, &maxDeficit, unionMissing); err != nil {
					continue // MALFORMED payload: drop silently
				}
				s.table.Set(up.ReceiverID, receivertable.NeedsMore)
			case wire.Ack:
				s.table.Set(up.ReceiverID, receivertable.Complete)
			default:
				// Any other type in GEN_WAIT is ignored (duplicate/stray feedback).
			}
		}
		return nil
	}

	if err := waitForQuorum(); err != nil {
		return err
	}

	for s.table.AnyNeedsMore() {
		repairRounds++
		if s.cfg.MaxRepairRounds > 0 && repairRounds > s.cfg.MaxRepairRounds {
			return errors.Wrapf(xfererr.ErrStalled, "generation %d: exceeded %d repair rounds", sg.Index, s.cfg.MaxRepairRounds)
		}

		if err := s.emitRepair(baseHeader, l, sg, seeds, maxDeficit, unionMissing); err != nil {
			return err
		}

		s.table.ResetNeedsMore()
		if err := emitMarker(); err != nil {
			return err
		}
		maxDeficit = 0
		unionMissing = make(map[uint32]struct{})

		if err := waitForQuorum(); err != nil {
			return err
		}
	}

	h := baseHeader(wire.Advance)
	if err := s.conn.Send(h.Encode()); err != nil {
		return errors.Wrap(err, "send advance")
	}
	stats.RepairTx += sg.RepairTx
	log.Info("generation %d complete: %d original, %d repair", sg.Index, sg.OriginalTx, sg.RepairTx)
	return nil
}

func (s *Sender) recordDeficit(payload []byte, maxDeficit *uint32, unionMissing map[uint32]struct{}) error {
	if s.cfg.FieldTag != 0 {
		d, err := wire.DecodeCodedDeficit(payload)
		if err != nil {
			return err
		}
		if d > *maxDeficit {
			*maxDeficit = d
		}
		return nil
	}
	missing, err := wire.DecodeMissingSet(payload)
	if err != nil {
		return err
	}
	for _, seq := range missing {
		unionMissing[seq] = struct{}{}
	}
	return nil
}

func (s *Sender) emitRepair(baseHeader func(wire.PacketType) wire.DownHeader, l generation.Layout, sg *generation.SenderGen, seeds *seedCache, maxDeficit uint32, unionMissing map[uint32]struct{}) error {
	if s.cfg.FieldTag != 0 {
		for i := uint32(0); i < maxDeficit; i++ {
			codecSeed := s.codecSeed(seeds, 0)
			h := baseHeader(wire.Data)
			h.Seed = s.wireSeed(l, sg, codecSeed, 0)
			symbol := sg.Encoder.ProduceSymbol(codecSeed)
			if err := s.conn.Send(append(h.Encode(), symbol...)); err != nil {
				return errors.Wrap(err, "send repair")
			}
			sg.RepairTx++
		}
		return nil
	}
	for seq := range unionMissing {
		h := baseHeader(wire.Data)
		h.Seed = s.wireSeed(l, sg, uint64(seq), int(seq))
		symbol := sg.Encoder.ProduceSymbol(uint64(seq))
		if err := s.conn.Send(append(h.Encode(), symbol...)); err != nil {
			return errors.Wrap(err, "send repair")
		}
		sg.RepairTx++
	}
	return nil
}

// codecSeed is the value handed to the encoder/decoder itself: a fresh
// random value for the coded variant (deduplicated via seeds, §9), or the
// within-generation slot index for the uncoded variant. Both codecs only
// ever operate on one generation's local symbol block, so this never
// carries a file-wide offset.
func (s *Sender) codecSeed(seeds *seedCache, local int) uint64 {
	if s.cfg.FieldTag != 0 {
		return seeds.next()
	}
	return uint64(local)
}

// wireSeed is the value placed in the packet header's Seed field. For the
// coded variant this is just the codec seed — there is no "slot" a random
// linear combination belongs to. For the uncoded variant, spec.md §3
// invariant I3 requires seq to be a file-wide sequence number satisfying
// g = seq / gen_size (using the *configured* generation size, since the
// relation must hold across a short final generation too), so it is
// reconstructed here from the generation index and the local slot.
func (s *Sender) wireSeed(l generation.Layout, sg *generation.SenderGen, codecSeed uint64, local int) uint64 {
	if s.cfg.FieldTag != 0 {
		return codecSeed
	}
	return uint64(sg.Index)*uint64(l.GenSize) + uint64(local)
}

func (s *Sender) finish() error {
	h := wire.DownHeader{Type: wire.Done, FieldTag: s.cfg.FieldTag}
	if err := s.conn.Send(h.Encode()); err != nil {
		return errors.Wrap(err, "send done")
	}
	log.Info("file transfer complete")
	return nil
}
