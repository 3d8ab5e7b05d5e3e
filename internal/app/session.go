package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bft-labs/serialbench/internal/domain"
	"github.com/bft-labs/serialbench/internal/ports"
	"github.com/bft-labs/serialbench/pkg/log"
)

// SessionConfig contains everything fixed at the start of a session.
type SessionConfig struct {
	Channel ports.ChannelConfig
	Payload []byte

	SettleDelay time.Duration
	Receiver    ReceiverConfig
}

// Session runs one half-duplex exchange: open the channel, send the payload,
// receive until the device goes quiet, close the channel.
type Session struct {
	config   SessionConfig
	opener   ports.Opener
	clock    ports.Clock
	reporter ports.Reporter
	logger   log.Logger

	tracker atomic.Pointer[PhaseTracker]
}

// NewSession creates a session. A nil reporter discards progress output and a
// nil logger discards logs.
func NewSession(
	config SessionConfig,
	opener ports.Opener,
	clock ports.Clock,
	reporter ports.Reporter,
	logger log.Logger,
) *Session {
	if reporter == nil {
		reporter = discardReporter{}
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Session{
		config:   config,
		opener:   opener,
		clock:    clock,
		reporter: reporter,
		logger:   logger,
	}
}

// Phase returns the current phase, or Sending before Run has been called.
func (s *Session) Phase() domain.Phase {
	t := s.tracker.Load()
	if t == nil {
		return domain.PhaseSending
	}
	return t.Phase()
}

// Run executes the session. The channel is closed on every return path, and
// the receive phase never starts after a failed send.
func (s *Session) Run(ctx context.Context) (summary domain.Summary, err error) {
	payload := s.config.Payload
	if len(payload) == 0 {
		return summary, domain.ErrEmptyPayload
	}

	ch, err := s.opener.Open(ctx, s.config.Channel)
	if err != nil {
		return summary, fmt.Errorf("open channel %s: %w", s.config.Channel.Port, err)
	}
	defer func() {
		if closeErr := ch.Close(); closeErr != nil {
			s.logger.Warn("close channel failed", log.Err(closeErr))
			if err == nil {
				err = fmt.Errorf("close channel: %w", closeErr)
			}
		}
	}()
	s.logger.Info("channel opened",
		log.String("port", s.config.Channel.Port),
		log.Int("baud", s.config.Channel.Baud),
	)

	session := domain.NewTransferSession(s.clock.Now())
	tracker := NewPhaseTracker(session, s.logger, s.reporter)
	s.tracker.Store(tracker)
	s.reporter.SendStarted(len(payload))

	tx := NewTransmitter(ch, s.clock, s.reporter, s.logger, s.config.SettleDelay)
	session.BytesSent, err = tx.Send(ctx, payload)
	summary.BytesSent = session.BytesSent
	summary.Diagnostics = tx.Diagnostics()
	if err != nil {
		abort(tracker, s.logger, err, "transmit failed")
		return summary, fmt.Errorf("transmit: %w", err)
	}
	s.logger.Info("payload sent", log.Int("bytes", session.BytesSent))

	if err := tracker.TransitionTo(domain.PhaseReceiving, "payload sent"); err != nil {
		return summary, err
	}

	rx := NewReceiver(s.config.Receiver, ch, s.clock, s.reporter, s.logger)
	res, err := rx.Receive(ctx)
	session.BytesReceived = len(res.Data)
	summary.BytesReceived = session.BytesReceived
	summary.Samples = res.Samples
	summary.PeakBPS = res.PeakBPS
	summary.Elapsed = s.clock.Now().Sub(session.Started)
	if err != nil {
		abort(tracker, s.logger, err, "receive failed")
		return summary, fmt.Errorf("receive: %w", err)
	}

	if err := tracker.TransitionTo(domain.PhaseDone, "inactivity timeout"); err != nil {
		return summary, err
	}

	summary.Text = res.Text
	summary.Discarded = res.Discarded
	summary.PayloadCRC, summary.EchoCRC, summary.EchoMatch = verifyEcho(payload, res.Data)

	s.logger.Info("session complete",
		log.Int("sent", summary.BytesSent),
		log.Int("received", summary.BytesReceived),
		log.Float64("peak_bps", summary.PeakBPS),
		log.Duration("elapsed", summary.Elapsed),
		log.Hex("payload_crc", summary.PayloadCRC),
		log.Hex("echo_crc", summary.EchoCRC),
		log.Bool("echo_match", summary.EchoMatch),
	)
	return summary, nil
}

func abort(tracker *PhaseTracker, logger log.Logger, cause error, reason string) {
	if errors.Is(cause, context.Canceled) {
		reason = "interrupted"
	}
	if err := tracker.TransitionTo(domain.PhaseDone, reason); err != nil {
		logger.Error("abort session", log.Err(err))
	}
}

type discardReporter struct{}

func (discardReporter) SendStarted(payloadBytes int)                {}
func (discardReporter) PhaseChanged(previous, current domain.Phase) {}
func (discardReporter) Diagnostic(line string)                      {}
func (discardReporter) Throughput(sample domain.ThroughputSample)   {}
func (discardReporter) Result(text string, discarded int)           {}
