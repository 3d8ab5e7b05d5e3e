// Package serialbench measures the throughput of a serial link to an echo
// device: it writes a payload byte by byte, then listens for the echo and
// reports the receive rate once per interval until the line goes quiet.
//
// Example usage:
//
//	cfg := serialbench.DefaultConfig()
//	cfg.Port = "/dev/ttyUSB0"
//	cfg.Payload = []byte("hello")
//	summary, err := serialbench.Run(ctx, cfg, serialbench.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(summary.EchoMatch)
package serialbench

import (
	"context"
	"fmt"
	"time"

	"github.com/bft-labs/serialbench/internal/adapters/serial"
	"github.com/bft-labs/serialbench/internal/app"
	"github.com/bft-labs/serialbench/internal/clock"
	"github.com/bft-labs/serialbench/internal/domain"
	"github.com/bft-labs/serialbench/internal/ports"
	"github.com/bft-labs/serialbench/internal/sim"
	"github.com/bft-labs/serialbench/pkg/log"
)

// Re-exported types so callers never import internal packages.
type (
	// Summary is the outcome of a completed session.
	Summary = domain.Summary

	// Phase is the stage a session is in.
	Phase = domain.Phase

	// ThroughputSample is one receive-rate measurement.
	ThroughputSample = domain.ThroughputSample

	// Reporter receives progress events synchronously from the session.
	Reporter = ports.Reporter

	// Channel is an opened serial connection.
	Channel = ports.Channel

	// ChannelConfig holds the parameters used to open a Channel.
	ChannelConfig = ports.ChannelConfig

	// Opener opens channels.
	Opener = ports.Opener
)

// Config holds the configuration of a single session.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config struct {
	Port        string
	Baud        int
	ReadTimeout time.Duration
	DataBits    int
	Parity      string
	StopBits    int
	DeviceWait  time.Duration

	Payload []byte

	SettleDelay       time.Duration
	InactivityTimeout time.Duration
	ReportInterval    time.Duration
	PollInterval      time.Duration

	// FirstByteTimeout bounds the wait for the first received byte. Zero
	// waits until the context is cancelled.
	FirstByteTimeout time.Duration
}

// DefaultConfig returns a Config with sensible default values.
// At minimum, you must set Port and Payload before calling Run.
func DefaultConfig() Config {
	return Config{
		Baud:              2400,
		ReadTimeout:       100 * time.Millisecond,
		DataBits:          8,
		Parity:            "N",
		StopBits:          1,
		SettleDelay:       app.DefaultSettleDelay,
		InactivityTimeout: app.DefaultInactivityTimeout,
		ReportInterval:    app.DefaultReportInterval,
		PollInterval:      app.DefaultPollInterval,
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("%w: port is required", domain.ErrInvalidConfig)
	}
	if c.Baud <= 0 {
		return fmt.Errorf("%w: baud must be positive", domain.ErrInvalidConfig)
	}
	if len(c.Payload) == 0 {
		return domain.ErrEmptyPayload
	}
	positive := []struct {
		name string
		d    time.Duration
	}{
		{"read timeout", c.ReadTimeout},
		{"inactivity timeout", c.InactivityTimeout},
		{"report interval", c.ReportInterval},
		{"poll interval", c.PollInterval},
	}
	for _, p := range positive {
		if p.d <= 0 {
			return fmt.Errorf("%w: %s must be positive", domain.ErrInvalidConfig, p.name)
		}
	}
	if c.SettleDelay < 0 || c.FirstByteTimeout < 0 {
		return fmt.Errorf("%w: settle delay and first byte timeout cannot be negative", domain.ErrInvalidConfig)
	}
	return nil
}

func (c Config) sessionConfig() app.SessionConfig {
	return app.SessionConfig{
		Channel: ports.ChannelConfig{
			Port:        c.Port,
			Baud:        c.Baud,
			ReadTimeout: c.ReadTimeout,
			DataBits:    c.DataBits,
			Parity:      c.Parity,
			StopBits:    c.StopBits,
			DeviceWait:  c.DeviceWait,
		},
		Payload:     c.Payload,
		SettleDelay: c.SettleDelay,
		Receiver: app.ReceiverConfig{
			InactivityTimeout: c.InactivityTimeout,
			ReportInterval:    c.ReportInterval,
			PollInterval:      c.PollInterval,
			FirstByteTimeout:  c.FirstByteTimeout,
		},
	}
}

// Option configures optional behavior of Run.
type Option func(*options)

type options struct {
	logger   log.Logger
	reporter Reporter
	opener   Opener
	simulate bool
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithReporter receives the progress of the session. If not provided,
// progress is discarded and only the returned Summary is available.
func WithReporter(r Reporter) Option {
	return func(o *options) {
		o.reporter = r
	}
}

// WithOpener replaces the serial port opener, for example to run over a
// network bridge or a test double.
func WithOpener(opener Opener) Option {
	return func(o *options) {
		o.opener = opener
	}
}

// WithSimulator runs the session against a simulated echo board instead of
// a real port. It is ignored when WithOpener is also given.
func WithSimulator() Option {
	return func(o *options) {
		o.simulate = true
	}
}

// Run executes one session. It blocks until the device goes quiet after the
// send phase or ctx is cancelled. The port is closed before Run returns.
func Run(ctx context.Context, cfg Config, opts ...Option) (Summary, error) {
	if err := cfg.Validate(); err != nil {
		return Summary{}, err
	}

	o := options{logger: log.NewNoopLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	clk := clock.Real{}
	opener := o.opener
	switch {
	case opener != nil:
	case o.simulate:
		opener = sim.NewOpener(clk)
	default:
		opener = serial.NewOpener(o.logger)
	}

	s := app.NewSession(cfg.sessionConfig(), opener, clk, o.reporter, o.logger)
	return s.Run(ctx)
}
