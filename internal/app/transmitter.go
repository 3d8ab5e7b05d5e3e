package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/bft-labs/serialbench/internal/ports"
	"github.com/bft-labs/serialbench/internal/textcodec"
	"github.com/bft-labs/serialbench/pkg/log"
)

// DefaultSettleDelay is how long the transmitter holds after the last byte.
const DefaultSettleDelay = time.Second

// Transmitter writes a payload to a channel one byte at a time and drains
// whatever the device answers in the meantime.
type Transmitter struct {
	ch       ports.Channel
	clock    ports.Clock
	reporter ports.Reporter
	logger   log.Logger
	settle   time.Duration

	lines       textcodec.LineBuffer
	scratch     []byte
	diagnostics int
}

// NewTransmitter creates a transmitter for ch.
func NewTransmitter(ch ports.Channel, clock ports.Clock, reporter ports.Reporter, logger log.Logger, settle time.Duration) *Transmitter {
	return &Transmitter{
		ch:       ch,
		clock:    clock,
		reporter: reporter,
		logger:   logger,
		settle:   settle,
		scratch:  make([]byte, 256),
	}
}

// Send writes every byte of payload in order and returns the number written.
// Any write failure aborts the transfer; the count returned alongside the
// error is the number of bytes written before it.
func (t *Transmitter) Send(ctx context.Context, payload []byte) (int, error) {
	sent := 0
	for i := range payload {
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		n, err := t.ch.Write(payload[i : i+1])
		if err != nil {
			return sent, fmt.Errorf("write byte %d: %w", i, err)
		}
		if n != 1 {
			return sent, fmt.Errorf("write byte %d: %w", i, io.ErrShortWrite)
		}
		sent++

		t.drain()
	}

	// Let the device finish processing before the receive phase starts.
	t.clock.Sleep(t.settle)
	t.drain()
	unterminated := t.lines.Pending()
	if line, ok := t.lines.Flush(); ok {
		t.diagnostic(line)
	}

	t.logger.Debug("payload written",
		log.Int("bytes", sent),
		log.Int("diagnostics", t.diagnostics),
		log.Int("unterminated", unterminated),
	)
	return sent, nil
}

// Diagnostics returns the number of device lines reported so far.
func (t *Transmitter) Diagnostics() int {
	return t.diagnostics
}

// drain reads everything that is immediately available. Read failures are
// logged and left for the next write to surface.
func (t *Transmitter) drain() {
	for {
		avail, err := t.ch.Buffered()
		if err != nil {
			t.logger.Warn("poll during send failed", log.Err(err))
			return
		}
		if avail == 0 {
			return
		}

		n, err := t.ch.Read(t.scratch[:min(avail, len(t.scratch))])
		if err != nil {
			t.logger.Warn("read during send failed", log.Err(err))
			return
		}
		if n == 0 {
			return
		}
		for _, line := range t.lines.Write(t.scratch[:n]) {
			t.diagnostic(line)
		}
	}
}

func (t *Transmitter) diagnostic(line string) {
	t.diagnostics++
	t.reporter.Diagnostic(line)
}
