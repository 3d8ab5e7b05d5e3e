package domain

import "time"

// Phase is the half-duplex mode of a transfer session.
type Phase int

const (
	PhaseSending Phase = iota
	PhaseReceiving
	PhaseDone
)

// String returns a human-readable representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseSending:
		return "Sending"
	case PhaseReceiving:
		return "Receiving"
	case PhaseDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// CanTransitionTo reports whether the session may move from p to next.
// Sending may end early (Done) when the transmit phase fails.
func (p Phase) CanTransitionTo(next Phase) bool {
	switch p {
	case PhaseSending:
		return next == PhaseReceiving || next == PhaseDone
	case PhaseReceiving:
		return next == PhaseDone
	default:
		return false
	}
}

// TransferSession tracks one send/receive exchange. It is never persisted.
type TransferSession struct {
	Phase         Phase
	BytesSent     int
	BytesReceived int
	Started       time.Time
}

// NewTransferSession starts a session in the Sending phase.
func NewTransferSession(started time.Time) *TransferSession {
	return &TransferSession{Phase: PhaseSending, Started: started}
}
