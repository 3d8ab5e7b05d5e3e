// Package sim emulates the echo firmware of the benchmark board so sessions
// can run without hardware.
//
// The firmware stores what it receives, reports its own receive rate once a
// second while bytes are coming in, and after a quiet period sends the stored
// bytes back. Outbound bytes are paced at the line rate on the session clock.
package sim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bft-labs/serialbench/internal/domain"
	"github.com/bft-labs/serialbench/internal/ports"
)

// Config describes the emulated firmware.
type Config struct {
	// Banner is sent when the device is opened.
	Banner string

	// Capacity is the number of inbound bytes the device can store.
	Capacity int

	// TickPhase is the offset of the first once-a-second rate report from
	// the moment the device was opened.
	TickPhase time.Duration

	// IdleTimeout is how long the line must be quiet before echoing, and
	// EchoDelay the extra pause before the echo starts.
	IdleTimeout time.Duration
	EchoDelay   time.Duration
}

// DefaultConfig matches the reference firmware.
func DefaultConfig() Config {
	return Config{
		Banner:      "Ready to receive\n",
		Capacity:    1000,
		TickPhase:   500 * time.Millisecond,
		IdleTimeout: time.Second,
		EchoDelay:   500 * time.Millisecond,
	}
}

const tickInterval = time.Second

type outByte struct {
	due time.Time
	b   byte
}

// Device is a simulated board. It implements ports.Channel.
type Device struct {
	mu       sync.Mutex
	config   Config
	clock    ports.Clock
	byteTime time.Duration

	store     []byte
	tickBytes int
	nextTick  time.Time
	lastRx    time.Time
	pendingRx bool

	outbox []outByte
	txFree time.Time
	closed bool
}

// NewDevice powers up a simulated board on a line running at baud.
func NewDevice(clock ports.Clock, baud int, config Config) *Device {
	now := clock.Now()
	d := &Device{
		config:   config,
		clock:    clock,
		byteTime: byteTime(baud),
		nextTick: now.Add(config.TickPhase),
		txFree:   now,
	}
	if d.config.TickPhase <= 0 {
		d.nextTick = now.Add(tickInterval)
	}
	d.send(now, []byte(config.Banner))
	return d
}

// byteTime is the duration of one 8N1 frame: a start bit, eight data bits
// and a stop bit.
func byteTime(baud int) time.Duration {
	if baud <= 0 {
		return 0
	}
	return 10 * time.Second / time.Duration(baud)
}

// Write delivers p to the firmware.
func (d *Device) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, domain.ErrChannelClosed
	}

	now := d.clock.Now()
	d.advance(now)
	for _, b := range p {
		if len(d.store) < d.config.Capacity {
			d.store = append(d.store, b)
		}
		d.tickBytes++
	}
	if len(p) > 0 {
		d.lastRx = now
		d.pendingRx = true
	}
	return len(p), nil
}

// Buffered returns the number of bytes that have reached the host.
func (d *Device) Buffered() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, domain.ErrChannelClosed
	}
	now := d.clock.Now()
	d.advance(now)
	return d.arrived(now), nil
}

// Read copies bytes that have reached the host into p.
func (d *Device) Read(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, domain.ErrChannelClosed
	}
	now := d.clock.Now()
	d.advance(now)
	n := min(len(p), d.arrived(now))
	for i := 0; i < n; i++ {
		p[i] = d.outbox[i].b
	}
	d.outbox = d.outbox[n:]
	return n, nil
}

// Close disconnects the board. Calling it again is a no-op.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.outbox = nil
	return nil
}

// Stored returns a copy of what the firmware currently holds.
func (d *Device) Stored() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]byte(nil), d.store...)
}

// advance runs the firmware's timer and echo events that are due at now, in
// time order.
func (d *Device) advance(now time.Time) {
	for {
		echoAt := d.lastRx.Add(d.config.IdleTimeout + d.config.EchoDelay)
		echoDue := d.pendingRx && !echoAt.After(now)
		tickDue := !d.nextTick.After(now)

		switch {
		case echoDue && (!tickDue || echoAt.Before(d.nextTick)):
			d.send(echoAt, d.store)
			d.store = nil
			d.pendingRx = false
		case tickDue:
			if d.tickBytes > 0 {
				d.send(d.nextTick, []byte(fmt.Sprintf("Speed: %d bps\n", d.tickBytes*8)))
				d.tickBytes = 0
			}
			d.nextTick = d.nextTick.Add(tickInterval)
		default:
			return
		}
	}
}

// send queues b for transmission starting at t.
func (d *Device) send(t time.Time, b []byte) {
	if d.txFree.Before(t) {
		d.txFree = t
	}
	for _, c := range b {
		d.txFree = d.txFree.Add(d.byteTime)
		d.outbox = append(d.outbox, outByte{due: d.txFree, b: c})
	}
}

func (d *Device) arrived(now time.Time) int {
	n := 0
	for n < len(d.outbox) && !d.outbox[n].due.After(now) {
		n++
	}
	return n
}

// Opener opens a fresh simulated board for every session.
type Opener struct {
	Clock  ports.Clock
	Config Config
}

// NewOpener returns an opener using the reference firmware configuration.
func NewOpener(clock ports.Clock) *Opener {
	return &Opener{Clock: clock, Config: DefaultConfig()}
}

// Open implements ports.Opener.
func (o *Opener) Open(ctx context.Context, cfg ports.ChannelConfig) (ports.Channel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cfg.Baud <= 0 {
		return nil, fmt.Errorf("%w: baud must be positive", domain.ErrInvalidConfig)
	}
	return NewDevice(o.Clock, cfg.Baud, o.Config), nil
}
