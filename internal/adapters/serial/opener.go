package serial

import (
	"context"
	"fmt"
	"io"
	"strings"

	tarm "github.com/tarm/serial"

	"github.com/bft-labs/serialbench/internal/domain"
	"github.com/bft-labs/serialbench/internal/ports"
	"github.com/bft-labs/serialbench/pkg/log"
)

// Opener opens serial devices with github.com/tarm/serial.
type Opener struct {
	logger log.Logger
	open   func(*tarm.Config) (io.ReadWriteCloser, error)
}

// NewOpener creates an opener for real serial devices.
func NewOpener(logger log.Logger) *Opener {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Opener{
		logger: logger,
		open: func(c *tarm.Config) (io.ReadWriteCloser, error) {
			return tarm.OpenPort(c)
		},
	}
}

// Open waits for the device node when cfg.DeviceWait is set, then opens and
// configures the port and discards anything left in its buffers.
func (o *Opener) Open(ctx context.Context, cfg ports.ChannelConfig) (ports.Channel, error) {
	sc, err := Config(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.DeviceWait > 0 {
		o.logger.Info("waiting for device", log.String("port", cfg.Port), log.Duration("timeout", cfg.DeviceWait))
		if err := WaitForDevice(ctx, cfg.Port, cfg.DeviceWait); err != nil {
			return nil, err
		}
	}

	rwc, err := o.open(sc)
	if err != nil {
		return nil, err
	}

	if f, ok := rwc.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			o.logger.Debug("flush port failed", log.Err(err))
		}
	}
	return NewPort(rwc), nil
}

// Config converts a channel configuration to a tarm/serial configuration.
func Config(cfg ports.ChannelConfig) (*tarm.Config, error) {
	if cfg.Port == "" {
		return nil, fmt.Errorf("%w: port is required", domain.ErrInvalidConfig)
	}
	if cfg.Baud <= 0 {
		return nil, fmt.Errorf("%w: baud must be positive", domain.ErrInvalidConfig)
	}

	sc := &tarm.Config{
		Name:        cfg.Port,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
		Size:        tarm.DefaultSize,
		Parity:      tarm.ParityNone,
		StopBits:    tarm.Stop1,
	}

	if cfg.DataBits != 0 {
		if cfg.DataBits < 5 || cfg.DataBits > 8 {
			return nil, fmt.Errorf("%w: data bits must be 5-8, got %d", domain.ErrInvalidConfig, cfg.DataBits)
		}
		sc.Size = byte(cfg.DataBits)
	}

	if cfg.Parity != "" {
		parity, err := parseParity(cfg.Parity)
		if err != nil {
			return nil, err
		}
		sc.Parity = parity
	}

	switch cfg.StopBits {
	case 0, 1:
		sc.StopBits = tarm.Stop1
	case 2:
		sc.StopBits = tarm.Stop2
	default:
		return nil, fmt.Errorf("%w: stop bits must be 1 or 2, got %d", domain.ErrInvalidConfig, cfg.StopBits)
	}

	return sc, nil
}

func parseParity(s string) (tarm.Parity, error) {
	switch strings.ToUpper(s) {
	case "N", "NONE":
		return tarm.ParityNone, nil
	case "E", "EVEN":
		return tarm.ParityEven, nil
	case "O", "ODD":
		return tarm.ParityOdd, nil
	case "M", "MARK":
		return tarm.ParityMark, nil
	case "S", "SPACE":
		return tarm.ParitySpace, nil
	default:
		return 0, fmt.Errorf("%w: unknown parity %q", domain.ErrInvalidConfig, s)
	}
}
