package domain

import "time"

// ThroughputSample is the number of bytes observed during one reporting window.
type ThroughputSample struct {
	// Bytes received inside the window.
	Bytes int

	// Window is the measured duration of the window.
	Window time.Duration

	// At is when the window closed.
	At time.Time
}

// BitsPerSecond returns (Bytes*8)/Window. A window with no bytes, or a
// non-positive duration, yields exactly 0.
func (s ThroughputSample) BitsPerSecond() float64 {
	if s.Bytes <= 0 || s.Window <= 0 {
		return 0
	}
	return float64(s.Bytes*8) / s.Window.Seconds()
}
