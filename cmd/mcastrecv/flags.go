package main

import (
	flag "github.com/spf13/pflag"
)

var (
	flagGroup       string
	flagPort        int
	flagCoded       bool
	flagReceiverID  uint32
	flagErasureLow  int
	flagErasureHigh int
	flagVerbose     bool
	flagHelp        bool
	flagVersion     bool
)

func init() {
	flag.StringVarP(&flagGroup, "group", "g", "224.1.1.1", "Multicast group address")
	flag.IntVarP(&flagPort, "port", "p", 5007, "Multicast port")
	flag.BoolVarP(&flagCoded, "coded", "c", false, "Use the network-coded (RLNC) variant instead of uncoded")
	flag.Uint32Var(&flagReceiverID, "receiver-id", 0, "Receiver identifier (default: random)")
	flag.IntVar(&flagErasureLow, "erasure-low", 0, "Simulated loss lower bound, percent")
	flag.IntVar(&flagErasureHigh, "erasure-high", 0, "Simulated loss upper bound, percent")
	flag.BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	flag.BoolVarP(&flagHelp, "help", "h", false, "Print usage information and exit")
	flag.BoolVar(&flagVersion, "version", false, "Print version information and exit")
}
