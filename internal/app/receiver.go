package app

import (
	"context"
	"fmt"
	"time"

	"github.com/bft-labs/serialbench/internal/domain"
	"github.com/bft-labs/serialbench/internal/ports"
	"github.com/bft-labs/serialbench/internal/textcodec"
	"github.com/bft-labs/serialbench/pkg/log"
)

// Receive phase defaults.
const (
	DefaultInactivityTimeout = 3 * time.Second
	DefaultReportInterval    = time.Second
	DefaultPollInterval      = 10 * time.Millisecond
)

// ReceiverConfig contains the timing of the receive phase.
type ReceiverConfig struct {
	// InactivityTimeout ends the phase once it has passed without a byte,
	// counted from the last byte received.
	InactivityTimeout time.Duration

	// ReportInterval is the length of one throughput window.
	ReportInterval time.Duration

	// PollInterval is how long to sleep when nothing is available.
	PollInterval time.Duration

	// FirstByteTimeout ends the phase with an empty result when nothing at
	// all arrives in time. Zero waits for the first byte forever.
	FirstByteTimeout time.Duration
}

// Reception is what the receive phase collected.
type Reception struct {
	Data      []byte
	Text      string
	Discarded int
	Samples   int
	PeakBPS   float64
}

// Receiver accumulates inbound bytes until the device goes quiet.
type Receiver struct {
	config   ReceiverConfig
	ch       ports.Channel
	clock    ports.Clock
	reporter ports.Reporter
	logger   log.Logger
}

// NewReceiver creates a receiver for ch.
func NewReceiver(config ReceiverConfig, ch ports.Channel, clock ports.Clock, reporter ports.Reporter, logger log.Logger) *Receiver {
	return &Receiver{
		config:   config,
		ch:       ch,
		clock:    clock,
		reporter: reporter,
		logger:   logger,
	}
}

// Receive polls the channel one byte at a time, reports throughput once per
// report interval and returns once the inactivity timeout has passed after at
// least one byte. Until the first byte arrives it only stops on ctx
// cancellation or, when configured, the first-byte timeout.
func (r *Receiver) Receive(ctx context.Context) (Reception, error) {
	var (
		res          Reception
		one          = make([]byte, 1)
		start        = r.clock.Now()
		lastActivity = start
		windowStart  = start
		windowBytes  int
		gotFirstByte bool
	)

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		avail, err := r.ch.Buffered()
		if err != nil {
			return res, fmt.Errorf("poll channel: %w", err)
		}
		if avail > 0 {
			n, err := r.ch.Read(one)
			if err != nil {
				return res, fmt.Errorf("read channel: %w", err)
			}
			if n == 1 {
				res.Data = append(res.Data, one[0])
				windowBytes++
				lastActivity = r.clock.Now()
				gotFirstByte = true
			}
		}

		now := r.clock.Now()
		if gotFirstByte && now.Sub(lastActivity) > r.config.InactivityTimeout {
			break
		}
		if !gotFirstByte && r.config.FirstByteTimeout > 0 && now.Sub(start) >= r.config.FirstByteTimeout {
			r.logger.Warn("no data received", log.Duration("waited", now.Sub(start)))
			break
		}

		if window := now.Sub(windowStart); window >= r.config.ReportInterval {
			sample := domain.ThroughputSample{Bytes: windowBytes, Window: window, At: now}
			r.report(&res, sample)
			windowBytes = 0
			windowStart = now
		}

		if avail == 0 {
			r.clock.Sleep(r.config.PollInterval)
		}
	}

	res.Text, res.Discarded = textcodec.Decode(res.Data)
	if res.Discarded > 0 {
		r.logger.Warn("dropped undecodable bytes", log.Int("discarded", res.Discarded))
	}
	r.reporter.Result(res.Text, res.Discarded)
	return res, nil
}

func (r *Receiver) report(res *Reception, sample domain.ThroughputSample) {
	res.Samples++
	if bps := sample.BitsPerSecond(); bps > res.PeakBPS {
		res.PeakBPS = bps
	}
	r.reporter.Throughput(sample)
}
