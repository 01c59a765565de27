package main

import (
	"fmt"
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
	"github.com/lanikai/mcastxfer/internal/sender"
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
		sender.SetLogLevel(logging.Debug)
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "mcastsend: exactly one source file argument is required")
		os.Exit(1)
	}
	sourcePath := flag.Arg(0)

	var factory codec.Factory
	var fieldTag uint64
	if flagCoded {
		factory = rlnc.Factory{}
		fieldTag = rlnc.FieldTag
	} else {
		factory = uncoded.Factory{}
		fieldTag = uncoded.FieldTag
	}

	f, totalBytes, err := fileio.OpenSource(sourcePath)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	group := &net.UDPAddr{IP: net.ParseIP(flagGroup), Port: flagPort}
	conn, err := netio.DialSender(group)
	if err != nil {
		log.Fatalf("dial sender: %v", err)
	}
	defer conn.Close()

	cfg := sender.DefaultConfig()
	cfg.PacketBytes = uint32(flagPacketBytes)
	cfg.GenSize = uint16(flagGenSize)
	cfg.FieldTag = fieldTag
	cfg.EnrollWindow = time.Duration(flagEnrollWait) * time.Millisecond
	cfg.SilenceThreshold = flagSilence
	cfg.MaxRepairRounds = flagMaxRepair

	s := sender.New(conn, factory, cfg)

	start := time.Now()
	stats, err := s.Run(f, totalBytes)
	elapsed := time.Since(start)
	if err != nil {
		log.Fatalf("transfer failed: %v", err)
	}

	progress.SenderReport{
		TotalBytes:    totalBytes,
		TotalPackets:  stats.TotalPackets,
		OriginalTx:    stats.OriginalTx,
		RepairTx:      stats.RepairTx,
		ReceiverCount: stats.ReceiverCount,
		Elapsed:       elapsed,
	}.Print()
}
