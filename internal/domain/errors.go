package domain

import "errors"

// Domain errors returned by the public API. Check them with errors.Is.
var (
	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("serialbench: invalid configuration")

	// ErrInvalidPhase is returned for a phase transition the session does not allow.
	ErrInvalidPhase = errors.New("serialbench: invalid phase transition")

	// ErrEmptyPayload is returned when a session is started without anything to send.
	ErrEmptyPayload = errors.New("serialbench: empty payload")

	// ErrChannelClosed is returned when a closed channel is used.
	ErrChannelClosed = errors.New("serialbench: channel closed")
)
