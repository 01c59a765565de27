package main

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mathrand "math/rand"
	"net"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/lanikai/mcastxfer/internal/codec"
	"github.com/lanikai/mcastxfer/internal/codec/rlnc"
	"github.com/lanikai/mcastxfer/internal/codec/uncoded"
	"github.com/lanikai/mcastxfer/internal/fileio"
	"github.com/lanikai/mcastxfer/internal/logging"
	"github.com/lanikai/mcastxfer/internal/netio"
	"github.com/lanikai/mcastxfer/internal/progress"
	"github.com/lanikai/mcastxfer/internal/receiver"
)

var log = logging.DefaultLogger.WithTag("main")

func main() {
	flag.Parse()

	if flagHelp {
		help()
		os.Exit(0)
	}
	if flagVersion {
		version()
		os.Exit(0)
	}
	if flagVerbose {
		logging.DefaultLogger.Level = logging.Debug
		log.Level = logging.Debug
		receiver.SetLogLevel(logging.Debug)
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "mcastrecv: exactly one sink file argument is required")
		os.Exit(1)
	}
	sinkPath := flag.Arg(0)

	var factory codec.Factory
	var fieldTag uint64
	if flagCoded {
		factory = rlnc.Factory{}
		fieldTag = rlnc.FieldTag
	} else {
		factory = uncoded.Factory{}
		fieldTag = uncoded.FieldTag
	}

	receiverID := flagReceiverID
	if receiverID == 0 {
		receiverID = randomReceiverID()
	}

	group := &net.UDPAddr{IP: net.ParseIP(flagGroup), Port: flagPort}
	conn, err := netio.JoinReceiver(group)
	if err != nil {
		log.Fatalf("join receiver group: %v", err)
	}
	defer conn.Close()

	cfg := receiver.Config{
		ReceiverID:  receiverID,
		FieldTag:    fieldTag,
		ErasureLow:  flagErasureLow,
		ErasureHigh: flagErasureHigh,
	}
	r := receiver.New(conn, factory, cfg, time.Now().UnixNano())

	start := time.Now()
	data, stats, err := r.Run()
	elapsed := time.Since(start)
	if err != nil {
		log.Fatalf("transfer failed: %v", err)
	}

	if err := fileio.WriteSinkAtomic(sinkPath, data); err != nil {
		log.Fatalf("write sink: %v", err)
	}

	progress.ReceiverReport{
		TotalBytes:    stats.TotalBytes,
		AcceptedCount: stats.AcceptedCount,
		DroppedCount:  stats.DroppedCount,
		Elapsed:       elapsed,
	}.Print()
}

func randomReceiverID() uint32 {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return uint32(mathrand.New(mathrand.NewSource(time.Now().UnixNano())).Int31())
	}
	return binary.LittleEndian.Uint32(buf[:])
}
