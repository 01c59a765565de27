package sender_test

import (
	"bytes"
	"math/rand"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanikai/mcastxfer/internal/codec/rlnc"
	"github.com/lanikai/mcastxfer/internal/codec/uncoded"
	"github.com/lanikai/mcastxfer/internal/netio"
	"github.com/lanikai/mcastxfer/internal/receiver"
	"github.com/lanikai/mcastxfer/internal/sender"
)

// loopbackGroup picks a multicast group on an unlikely-to-collide port so
// concurrent test runs on the same host don't interfere.
func loopbackGroup(t *testing.T) *net.UDPAddr {
	t.Helper()
	return &net.UDPAddr{IP: net.ParseIP("224.1.1.1"), Port: 35000 + rand.Intn(2000)}
}

// TestEndToEndUncodedSingleReceiver exercises the full ENROLL/GEN_SEND/
// GEN_WAIT/FINISH and CONNECT/GEN_RECV/GEN_DONE_WAIT/COMPLETED sequence over
// real loopback multicast sockets, with no simulated erasure, matching §8
// scenario S1's "no loss" baseline.
func TestEndToEndUncodedSingleReceiver(t *testing.T) {
	group := loopbackGroup(t)

	senderConn, err := netio.DialSender(group)
	require.NoError(t, err)
	defer senderConn.Close()

	recvConn, err := netio.JoinReceiver(group)
	require.NoError(t, err)
	defer recvConn.Close()

	source := make([]byte, 10*1400+37) // several full generations plus a short tail
	rand.New(rand.NewSource(1)).Read(source)

	cfg := sender.DefaultConfig()
	cfg.PacketBytes = 1400
	cfg.GenSize = 4
	cfg.FieldTag = uncoded.FieldTag
	cfg.EnrollWindow = 200 * time.Millisecond

	s := sender.New(senderConn, uncoded.Factory{}, cfg)
	r := receiver.New(recvConn, uncoded.Factory{}, receiver.Config{
		ReceiverID: 1,
		FieldTag:   uncoded.FieldTag,
	}, 2)

	var wg sync.WaitGroup
	var received []byte
	var recvErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		received, _, recvErr = r.Run()
	}()

	// Give the receiver a moment to join before advertisements start, since
	// the sender's enrollment window is short-lived (§4.5, §9 decision 1).
	time.Sleep(20 * time.Millisecond)

	stats, err := s.Run(bytes.NewReader(source), uint32(len(source)))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ReceiverCount)

	wg.Wait()
	require.NoError(t, recvErr)
	assert.Equal(t, source, received)
}

// TestEndToEndUncodedWithErasure matches §8 scenario S2's shape, but for the
// uncoded variant: a lossy single receiver must still reconstruct the file
// bit-for-bit via repair rounds.
func TestEndToEndUncodedWithErasure(t *testing.T) {
	group := loopbackGroup(t)

	senderConn, err := netio.DialSender(group)
	require.NoError(t, err)
	defer senderConn.Close()

	recvConn, err := netio.JoinReceiver(group)
	require.NoError(t, err)
	defer recvConn.Close()

	source := make([]byte, 6*512)
	rand.New(rand.NewSource(3)).Read(source)

	cfg := sender.DefaultConfig()
	cfg.PacketBytes = 512
	cfg.GenSize = 6
	cfg.FieldTag = uncoded.FieldTag
	cfg.EnrollWindow = 200 * time.Millisecond

	s := sender.New(senderConn, uncoded.Factory{}, cfg)
	r := receiver.New(recvConn, uncoded.Factory{}, receiver.Config{
		ReceiverID:  9,
		FieldTag:    uncoded.FieldTag,
		ErasureLow:  0,
		ErasureHigh: 25,
	}, 4)

	var wg sync.WaitGroup
	var received []byte
	var recvErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		received, _, recvErr = r.Run()
	}()

	time.Sleep(20 * time.Millisecond)

	_, err = s.Run(bytes.NewReader(source), uint32(len(source)))
	require.NoError(t, err)

	wg.Wait()
	require.NoError(t, recvErr)
	assert.Equal(t, source, received)
}

// TestEndToEndUncodedWithFixedErasureRate matches §8 scenario S2's "uniform
// 25% erasure" phrasing literally: ErasureLow == ErasureHigh pins the drop
// probability to a single fixed rate rather than a range. A prior regression
// treated [low, high) as an empty interval whenever low == high, silently
// dropping nothing; this guards against that by asserting some packets are
// actually dropped while the transfer still completes bit-for-bit.
func TestEndToEndUncodedWithFixedErasureRate(t *testing.T) {
	group := loopbackGroup(t)

	senderConn, err := netio.DialSender(group)
	require.NoError(t, err)
	defer senderConn.Close()

	recvConn, err := netio.JoinReceiver(group)
	require.NoError(t, err)
	defer recvConn.Close()

	source := make([]byte, 12*512)
	rand.New(rand.NewSource(5)).Read(source)

	cfg := sender.DefaultConfig()
	cfg.PacketBytes = 512
	cfg.GenSize = 6
	cfg.FieldTag = uncoded.FieldTag
	cfg.EnrollWindow = 200 * time.Millisecond

	s := sender.New(senderConn, uncoded.Factory{}, cfg)
	r := receiver.New(recvConn, uncoded.Factory{}, receiver.Config{
		ReceiverID:  11,
		FieldTag:    uncoded.FieldTag,
		ErasureLow:  25,
		ErasureHigh: 25,
	}, 7)

	var wg sync.WaitGroup
	var received []byte
	var recvStats receiver.Stats
	var recvErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		received, recvStats, recvErr = r.Run()
	}()

	time.Sleep(20 * time.Millisecond)

	_, err = s.Run(bytes.NewReader(source), uint32(len(source)))
	require.NoError(t, err)

	wg.Wait()
	require.NoError(t, recvErr)
	assert.Equal(t, source, received)
	assert.Greater(t, recvStats.DroppedCount, 0)
}

// TestEndToEndCodedSingleReceiver exercises the RLNC variant end-to-end,
// including its max_d-based repair aggregation (§4.5): every repair round
// sends maxDeficit fresh random linear combinations rather than retransmitting
// specific missing sequence numbers.
func TestEndToEndCodedSingleReceiver(t *testing.T) {
	group := loopbackGroup(t)

	senderConn, err := netio.DialSender(group)
	require.NoError(t, err)
	defer senderConn.Close()

	recvConn, err := netio.JoinReceiver(group)
	require.NoError(t, err)
	defer recvConn.Close()

	source := make([]byte, 8*400)
	rand.New(rand.NewSource(11)).Read(source)

	cfg := sender.DefaultConfig()
	cfg.PacketBytes = 400
	cfg.GenSize = 8
	cfg.FieldTag = rlnc.FieldTag
	cfg.EnrollWindow = 200 * time.Millisecond

	s := sender.New(senderConn, rlnc.Factory{}, cfg)
	r := receiver.New(recvConn, rlnc.Factory{}, receiver.Config{
		ReceiverID:  21,
		FieldTag:    rlnc.FieldTag,
		ErasureLow:  0,
		ErasureHigh: 30,
	}, 13)

	var wg sync.WaitGroup
	var received []byte
	var recvErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		received, _, recvErr = r.Run()
	}()

	time.Sleep(20 * time.Millisecond)

	_, err = s.Run(bytes.NewReader(source), uint32(len(source)))
	require.NoError(t, err)

	wg.Wait()
	require.NoError(t, recvErr)
	assert.Equal(t, source, received)
}

// TestEndToEndMultiReceiverAsymmetricLoss matches §8 scenario S3: two
// receivers with very different loss rates enroll in the same transfer, and
// the sender's repair rounds must continue until BOTH reach quorum, not just
// the cleaner one.
func TestEndToEndMultiReceiverAsymmetricLoss(t *testing.T) {
	group := loopbackGroup(t)

	senderConn, err := netio.DialSender(group)
	require.NoError(t, err)
	defer senderConn.Close()

	recvConnA, err := netio.JoinReceiver(group)
	require.NoError(t, err)
	defer recvConnA.Close()

	recvConnB, err := netio.JoinReceiver(group)
	require.NoError(t, err)
	defer recvConnB.Close()

	source := make([]byte, 10*300)
	rand.New(rand.NewSource(17)).Read(source)

	cfg := sender.DefaultConfig()
	cfg.PacketBytes = 300
	cfg.GenSize = 10
	cfg.FieldTag = uncoded.FieldTag
	cfg.EnrollWindow = 300 * time.Millisecond

	s := sender.New(senderConn, uncoded.Factory{}, cfg)
	rA := receiver.New(recvConnA, uncoded.Factory{}, receiver.Config{
		ReceiverID: 31,
		FieldTag:   uncoded.FieldTag,
	}, 19)
	rB := receiver.New(recvConnB, uncoded.Factory{}, receiver.Config{
		ReceiverID:  32,
		FieldTag:    uncoded.FieldTag,
		ErasureLow:  50,
		ErasureHigh: 50,
	}, 23)

	var wg sync.WaitGroup
	var receivedA, receivedB []byte
	var recvErrA, recvErrB error
	wg.Add(2)
	go func() {
		defer wg.Done()
		receivedA, _, recvErrA = rA.Run()
	}()
	go func() {
		defer wg.Done()
		receivedB, _, recvErrB = rB.Run()
	}()

	time.Sleep(20 * time.Millisecond)

	stats, err := s.Run(bytes.NewReader(source), uint32(len(source)))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.ReceiverCount)

	wg.Wait()
	require.NoError(t, recvErrA)
	require.NoError(t, recvErrB)
	assert.Equal(t, source, receivedA)
	assert.Equal(t, source, receivedB)
}
