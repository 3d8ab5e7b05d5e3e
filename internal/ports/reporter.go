package ports

import "github.com/bft-labs/serialbench/internal/domain"

// Reporter receives the observable output of a session.
// Calls happen synchronously from the session goroutine.
type Reporter interface {
	// SendStarted is called once, before the first payload byte is written.
	SendStarted(payloadBytes int)

	// PhaseChanged is called after every phase transition.
	PhaseChanged(previous, current domain.Phase)

	// Diagnostic is a line the device sent while the payload was being written.
	Diagnostic(line string)

	// Throughput is called once per reporting interval of the receive phase.
	Throughput(sample domain.ThroughputSample)

	// Result is called once with the decoded text of the receive phase.
	Result(text string, discarded int)
}
