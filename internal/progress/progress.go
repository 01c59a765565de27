// Package progress prints the console summary required on completion
// (§6: "Console reports decode/encode rate (bytes/sec), erasure rate, and
// retransmission rate"), colorized the way cmd/alohartcd/help.go colors its
// usage text with github.com/fatih/color.
package progress

import (
	"fmt"
	"time"

	"github.com/fatih/color"
)

var (
	label = color.New(color.FgCyan)
	value = color.New(color.FgYellow, color.Bold)
)

// SenderReport summarizes a completed sender run.
type SenderReport struct {
	TotalBytes    uint32
	TotalPackets  uint32
	OriginalTx    int
	RepairTx      int
	ReceiverCount int
	Elapsed       time.Duration
}

// Print writes the sender's completion summary to stdout.
func (r SenderReport) Print() {
	rate := bytesPerSecond(uint64(r.TotalBytes), r.Elapsed)
	retxRate := retransmissionRate(r.OriginalTx, r.RepairTx)

	field("Receivers", fmt.Sprintf("%d", r.ReceiverCount))
	field("Packets sent", fmt.Sprintf("%d original, %d repair", r.OriginalTx, r.RepairTx))
	field("Encode rate", fmt.Sprintf("%.1f KiB/s", rate/1024))
	field("Retransmission rate", fmt.Sprintf("%.1f%%", retxRate*100))
	field("Elapsed", r.Elapsed.Round(time.Millisecond).String())
}

// ReceiverReport summarizes a completed receiver run.
type ReceiverReport struct {
	TotalBytes    uint32
	AcceptedCount int
	DroppedCount  int
	Elapsed       time.Duration
}

// Print writes the receiver's completion summary to stdout.
func (r ReceiverReport) Print() {
	rate := bytesPerSecond(uint64(r.TotalBytes), r.Elapsed)
	erasureRate := 0.0
	if total := r.AcceptedCount + r.DroppedCount; total > 0 {
		erasureRate = float64(r.DroppedCount) / float64(total)
	}

	field("Bytes received", fmt.Sprintf("%d", r.TotalBytes))
	field("Decode rate", fmt.Sprintf("%.1f KiB/s", rate/1024))
	field("Simulated erasure rate", fmt.Sprintf("%.1f%%", erasureRate*100))
	field("Elapsed", r.Elapsed.Round(time.Millisecond).String())
}

func field(name, v string) {
	label.Printf("%-24s", name+":")
	value.Println(v)
}

func bytesPerSecond(n uint64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(n) / elapsed.Seconds()
}

func retransmissionRate(original, repair int) float64 {
	if original+repair == 0 {
		return 0
	}
	return float64(repair) / float64(original+repair)
}
