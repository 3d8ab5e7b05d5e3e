package domain

import "time"

// Summary is the outcome of a completed session.
type Summary struct {
	BytesSent     int
	BytesReceived int

	// Text is the best-effort UTF-8 decode of everything received after the
	// send phase. Discarded counts the bytes dropped while decoding it.
	Text      string
	Discarded int

	// Diagnostics is the number of device lines drained during the send phase.
	Diagnostics int

	Samples int
	PeakBPS float64
	Elapsed time.Duration

	// CRC-16/MODBUS of the payload and of the received bytes. EchoMatch is
	// true when the device returned the payload unchanged.
	PayloadCRC uint16
	EchoCRC    uint16
	EchoMatch  bool
}
