package main

import (
	"fmt"

	"github.com/fatih/color"
)

const helpString = `Reliable multicast file transfer: sender

Usage: mcastsend [OPTION]... FILE

Channel:
  -g, --group=ADDR           Multicast group address (default: 224.1.1.1)
  -p, --port=NUM             Multicast port (default: 5007)

Coding:
  -c, --coded                Use the network-coded (RLNC) variant
      --packet-bytes=NUM     Payload bytes per packet (default: 1400)
      --gen-size=NUM         Packets per generation (default: 20)

Timing:
      --enroll-window-ms=NUM      Enrollment window in ms (default: 100)
      --silence-threshold=NUM     Idle polls before re-sending marker (default: 3)
      --max-repair-rounds=NUM     Abort generation after N rounds, 0=unlimited

Miscellaneous:
  -v, --verbose               Enable debug logging
  -h, --help                  Prints this help message and exits
      --version                Prints version information and exits`

func help() {
	c := color.New(color.FgCyan, color.Bold)
	c.Println("mcastsend")
	fmt.Println(helpString)
}

func version() {
	fmt.Println("mcastsend (mcastxfer)")
}
