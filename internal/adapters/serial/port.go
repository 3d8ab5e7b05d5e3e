// Package serial implements ports.Channel on top of a serial device.
package serial

import (
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/bft-labs/serialbench/internal/domain"
)

const (
	readAheadSize = 512

	// idleBackoff paces the reader when the device returns immediately
	// with nothing to read.
	idleBackoff = time.Millisecond

	// stopTimeout bounds how long Close waits for the reader to exit.
	stopTimeout = time.Second
)

// Port adapts a read-timeout based io.ReadWriteCloser to ports.Channel.
//
// Serial drivers have no portable "bytes waiting" query, so a reader
// goroutine keeps a read-ahead buffer filled and Buffered reports its length
// without touching the device. A read that times out shows up as io.EOF or as
// (0, nil) depending on the platform; both mean nothing is available.
type Port struct {
	rwc  io.ReadWriteCloser
	done chan struct{}

	mu      sync.Mutex
	pending []byte
	readErr error
	closed  bool
}

// NewPort wraps rwc and starts reading from it. Close stops the reader.
func NewPort(rwc io.ReadWriteCloser) *Port {
	p := &Port{
		rwc:  rwc,
		done: make(chan struct{}),
	}
	go p.readLoop()
	return p
}

// Write sends p to the device.
func (p *Port) Write(b []byte) (int, error) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return 0, domain.ErrChannelClosed
	}
	return p.rwc.Write(b)
}

// Buffered returns the number of bytes already read ahead. It never waits on
// the device. A read failure is returned once the buffered bytes are consumed.
func (p *Port) Buffered() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, domain.ErrChannelClosed
	}
	if len(p.pending) == 0 && p.readErr != nil {
		return 0, p.readErr
	}
	return len(p.pending), nil
}

// Read copies read-ahead bytes into b. It returns (0, nil) when nothing is
// buffered.
func (p *Port) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, domain.ErrChannelClosed
	}
	if len(p.pending) == 0 && p.readErr != nil {
		return 0, p.readErr
	}
	n := copy(b, p.pending)
	p.pending = p.pending[n:]
	return n, nil
}

// Close closes the device and waits briefly for the reader to exit.
// Subsequent calls return nil.
func (p *Port) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.pending = nil
	p.mu.Unlock()

	err := p.rwc.Close()
	select {
	case <-p.done:
	case <-time.After(stopTimeout):
	}
	return err
}

func (p *Port) readLoop() {
	defer close(p.done)
	buf := make([]byte, readAheadSize)
	for {
		n, err := p.rwc.Read(buf)

		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return
		}
		if n > 0 {
			p.pending = append(p.pending, buf[:n]...)
		}
		if err != nil && !isTimeout(err) {
			p.readErr = err
			p.mu.Unlock()
			return
		}
		p.mu.Unlock()

		if n == 0 {
			time.Sleep(idleBackoff)
		}
	}
}

func isTimeout(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, os.ErrDeadlineExceeded)
}
