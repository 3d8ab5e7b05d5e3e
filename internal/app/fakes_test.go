package app

import (
	"sync"
	"time"

	"github.com/bft-labs/serialbench/internal/clock"
	"github.com/bft-labs/serialbench/internal/domain"
)

var epoch = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

type timedChunk struct {
	at   time.Duration
	data []byte
}

// scriptedChannel is a ports.Channel whose inbound bytes become readable at
// fixed offsets on a fake clock.
type scriptedChannel struct {
	mu      sync.Mutex
	clock   *clock.Fake
	start   time.Time
	pending []timedChunk
	inbox   []byte

	writes  [][]byte
	onWrite func(c *scriptedChannel, n int, p []byte)

	failWriteAt int
	writeErr    error
	shortWrite  bool
	readErr     error
	closeErr    error
	closed      int

	// beforePoll runs at the start of every Buffered call.
	beforePoll func(now time.Time)
}

func newScriptedChannel(c *clock.Fake) *scriptedChannel {
	return &scriptedChannel{clock: c, start: c.Now(), failWriteAt: -1}
}

// deliver makes data readable once the fake clock reaches start+at.
func (c *scriptedChannel) deliver(at time.Duration, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = append(c.pending, timedChunk{at: at, data: data})
}

// deliverNow makes data readable at the current fake time.
func (c *scriptedChannel) deliverNow(data []byte) {
	c.deliver(c.clock.Now().Sub(c.start), data)
}

func (c *scriptedChannel) release() {
	now := c.clock.Now()
	kept := c.pending[:0]
	for _, ch := range c.pending {
		if !c.start.Add(ch.at).After(now) {
			c.inbox = append(c.inbox, ch.data...)
			continue
		}
		kept = append(kept, ch)
	}
	c.pending = kept
}

func (c *scriptedChannel) Write(p []byte) (int, error) {
	c.mu.Lock()
	n := len(c.writes)
	if n == c.failWriteAt {
		c.mu.Unlock()
		return 0, c.writeErr
	}
	c.writes = append(c.writes, append([]byte(nil), p...))
	hook := c.onWrite
	c.mu.Unlock()

	if hook != nil {
		hook(c, n, p)
	}
	if c.shortWrite {
		return 0, nil
	}
	return len(p), nil
}

func (c *scriptedChannel) Buffered() (int, error) {
	if c.beforePoll != nil {
		c.beforePoll(c.clock.Now())
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.release()
	return len(c.inbox), nil
}

func (c *scriptedChannel) Read(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return 0, c.readErr
	}
	c.release()
	n := copy(p, c.inbox)
	c.inbox = c.inbox[n:]
	return n, nil
}

func (c *scriptedChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
	return c.closeErr
}

func (c *scriptedChannel) written() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []byte
	for _, w := range c.writes {
		out = append(out, w...)
	}
	return out
}

func (c *scriptedChannel) unread() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.release()
	return len(c.inbox)
}

// recordingReporter captures everything a session reports.
type recordingReporter struct {
	mu          sync.Mutex
	sendStarted []int
	phases      [][2]domain.Phase
	diagnostics []string
	samples     []domain.ThroughputSample
	results     []string
	discarded   int
}

func (r *recordingReporter) SendStarted(payloadBytes int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sendStarted = append(r.sendStarted, payloadBytes)
}

func (r *recordingReporter) PhaseChanged(previous, current domain.Phase) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phases = append(r.phases, [2]domain.Phase{previous, current})
}

func (r *recordingReporter) Diagnostic(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.diagnostics = append(r.diagnostics, line)
}

func (r *recordingReporter) Throughput(sample domain.ThroughputSample) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, sample)
}

func (r *recordingReporter) Result(text string, discarded int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, text)
	r.discarded = discarded
}
