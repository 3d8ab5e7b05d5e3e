package ports

import (
	"context"
	"time"
)

// Channel is an opened, configured serial connection owned by one session.
type Channel interface {
	// Write sends p to the device. A transport failure is returned as an error.
	Write(p []byte) (int, error)

	// Read copies bytes that are already available into p. It returns
	// (0, nil) when nothing is waiting; it never waits for more data than
	// the channel's read timeout.
	Read(p []byte) (int, error)

	// Buffered returns the number of bytes that can be read without waiting
	// longer than the read timeout.
	Buffered() (int, error)

	// Close releases the connection. Calling Close more than once is safe.
	Close() error
}

// ChannelConfig holds the parameters used to open a Channel.
type ChannelConfig struct {
	Port        string
	Baud        int
	ReadTimeout time.Duration
	DataBits    int
	Parity      string
	StopBits    int

	// DeviceWait is how long to wait for the device node to appear before
	// opening it. Zero opens immediately.
	DeviceWait time.Duration
}

// Opener opens channels.
type Opener interface {
	Open(ctx context.Context, cfg ChannelConfig) (Channel, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(ctx context.Context, cfg ChannelConfig) (Channel, error)

// Open calls f(ctx, cfg).
func (f OpenerFunc) Open(ctx context.Context, cfg ChannelConfig) (Channel, error) {
	return f(ctx, cfg)
}
