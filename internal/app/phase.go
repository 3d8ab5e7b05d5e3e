package app

import (
	"fmt"
	"sync"

	"github.com/bft-labs/serialbench/internal/domain"
	"github.com/bft-labs/serialbench/pkg/log"
)

// PhaseEmitter is called when the session phase changes.
type PhaseEmitter interface {
	PhaseChanged(previous, current domain.Phase)
}

// PhaseTracker owns the phase of a TransferSession and enforces its
// transitions: Sending -> Receiving -> Done, or Sending -> Done on abort.
type PhaseTracker struct {
	mu      sync.RWMutex
	session *domain.TransferSession
	logger  log.Logger
	emitter PhaseEmitter
}

// NewPhaseTracker creates a tracker for session.
func NewPhaseTracker(session *domain.TransferSession, logger log.Logger, emitter PhaseEmitter) *PhaseTracker {
	return &PhaseTracker{
		session: session,
		logger:  logger,
		emitter: emitter,
	}
}

// Phase returns the current phase. Safe to call from any goroutine.
func (t *PhaseTracker) Phase() domain.Phase {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.session.Phase
}

// TransitionTo moves the session to next, or returns ErrInvalidPhase.
func (t *PhaseTracker) TransitionTo(next domain.Phase, reason string) error {
	t.mu.Lock()
	prev := t.session.Phase
	if !prev.CanTransitionTo(next) {
		t.mu.Unlock()
		return fmt.Errorf("%w: %s to %s", domain.ErrInvalidPhase, prev, next)
	}
	t.session.Phase = next
	t.mu.Unlock()

	// Emit outside of lock
	if t.emitter != nil {
		t.emitter.PhaseChanged(prev, next)
	}

	t.logger.Debug("phase transition",
		log.String("from", prev.String()),
		log.String("to", next.String()),
		log.String("reason", reason),
	)
	return nil
}
