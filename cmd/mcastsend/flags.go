package main

import (
	flag "github.com/spf13/pflag"
)

var (
	flagGroup       string
	flagPort        int
	flagPacketBytes int
	flagGenSize     int
	flagCoded       bool
	flagEnrollWait  int
	flagSilence     int
	flagMaxRepair   int
	flagVerbose     bool
	flagHelp        bool
	flagVersion     bool
)

func init() {
	flag.StringVarP(&flagGroup, "group", "g", "224.1.1.1", "Multicast group address")
	flag.IntVarP(&flagPort, "port", "p", 5007, "Multicast port")
	flag.IntVar(&flagPacketBytes, "packet-bytes", 1400, "Payload bytes per packet")
	flag.IntVar(&flagGenSize, "gen-size", 20, "Packets per generation")
	flag.BoolVarP(&flagCoded, "coded", "c", false, "Use the network-coded (RLNC) variant instead of uncoded")
	flag.IntVar(&flagEnrollWait, "enroll-window-ms", 100, "Enrollment window, in milliseconds")
	flag.IntVar(&flagSilence, "silence-threshold", 3, "Idle polls before re-sending the generation marker")
	flag.IntVar(&flagMaxRepair, "max-repair-rounds", 0, "Abort a generation after this many repair rounds (0 = unlimited)")
	flag.BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	flag.BoolVarP(&flagHelp, "help", "h", false, "Print usage information and exit")
	flag.BoolVar(&flagVersion, "version", false, "Print version information and exit")
}
