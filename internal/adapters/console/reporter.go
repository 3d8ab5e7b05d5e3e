// Package console renders session progress as human readable text.
package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/bft-labs/serialbench/internal/domain"
)

// Reporter implements ports.Reporter by writing lines to an io.Writer,
// normally stdout. The first write error is kept and later output is
// dropped.
type Reporter struct {
	mu  sync.Mutex
	w   io.Writer
	err error
}

// NewReporter creates a reporter writing to w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Err returns the first write error, if any.
func (r *Reporter) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *Reporter) printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return
	}
	if _, err := fmt.Fprintf(r.w, format, args...); err != nil {
		r.err = err
	}
}

// SendStarted announces the send phase.
func (r *Reporter) SendStarted(payloadBytes int) {
	r.printf("Sending data to MCU... (%d bytes)\n", payloadBytes)
}

// PhaseChanged announces the receive phase, or an aborted send.
func (r *Reporter) PhaseChanged(previous, current domain.Phase) {
	switch {
	case current == domain.PhaseReceiving:
		r.printf("All data sent. Ready to receive data from MCU...\n")
	case current == domain.PhaseDone && previous == domain.PhaseSending:
		r.printf("Transfer aborted.\n")
	}
}

// Diagnostic prints a line the device sent during the send phase.
func (r *Reporter) Diagnostic(line string) {
	r.printf("%s\n", line)
}

// Throughput prints the receive rate of one interval.
func (r *Reporter) Throughput(sample domain.ThroughputSample) {
	r.printf("SpeedRx: %.2f bps\n", sample.BitsPerSecond())
}

// Result prints the decoded text and how many bytes were dropped.
func (r *Reporter) Result(text string, discarded int) {
	r.printf("Received data: %s\n", text)
	if discarded > 0 {
		r.printf("(%d undecodable bytes dropped)\n", discarded)
	}
}

// Summary prints the final statistics of a session.
func (r *Reporter) Summary(s domain.Summary) {
	r.printf("Sent %d bytes, received %d bytes in %s\n", s.BytesSent, s.BytesReceived, s.Elapsed)
	r.printf("Peak SpeedRx: %.2f bps\n", s.PeakBPS)
	verdict := "MISMATCH"
	if s.EchoMatch {
		verdict = "OK"
	}
	r.printf("Echo CRC-16/MODBUS: sent %04x received %04x %s\n", s.PayloadCRC, s.EchoCRC, verdict)
}
