package main

import (
	"fmt"

	"github.com/fatih/color"
)

const helpString = `Reliable multicast file transfer: receiver

Usage: mcastrecv [OPTION]... FILE

Channel:
  -g, --group=ADDR           Multicast group address (default: 224.1.1.1)
  -p, --port=NUM             Multicast port (default: 5007)

Coding:
  -c, --coded                Use the network-coded (RLNC) variant

Testing:
      --receiver-id=NUM      Receiver identifier (default: random)
      --erasure-low=NUM      Simulated loss lower bound, percent (default: 0)
      --erasure-high=NUM     Simulated loss upper bound, percent (default: 0)

Miscellaneous:
  -v, --verbose               Enable debug logging
  -h, --help                  Prints this help message and exits
      --version                Prints version information and exits`

func help() {
	c := color.New(color.FgCyan, color.Bold)
	c.Println("mcastrecv")
	fmt.Println(helpString)
}

func version() {
	fmt.Println("mcastrecv (mcastxfer)")
}
