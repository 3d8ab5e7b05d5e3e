package domain

import (
	"testing"
	"time"
)

func TestPhase_String(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseSending, "Sending"},
		{PhaseReceiving, "Receiving"},
		{PhaseDone, "Done"},
		{Phase(42), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %s, want %s", tt.phase, got, tt.want)
		}
	}
}

func TestPhase_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to Phase
		want     bool
	}{
		{PhaseSending, PhaseReceiving, true},
		{PhaseSending, PhaseDone, true},
		{PhaseSending, PhaseSending, false},
		{PhaseReceiving, PhaseDone, true},
		{PhaseReceiving, PhaseSending, false},
		{PhaseDone, PhaseSending, false},
		{PhaseDone, PhaseReceiving, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%v -> %v = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestNewTransferSession(t *testing.T) {
	now := time.Unix(100, 0)
	s := NewTransferSession(now)
	if s.Phase != PhaseSending {
		t.Errorf("Phase = %v, want Sending", s.Phase)
	}
	if !s.Started.Equal(now) {
		t.Errorf("Started = %v, want %v", s.Started, now)
	}
	if s.BytesSent != 0 || s.BytesReceived != 0 {
		t.Errorf("counters not zero: %+v", s)
	}
}

func TestThroughputSample_BitsPerSecond(t *testing.T) {
	tests := []struct {
		name   string
		sample ThroughputSample
		want   float64
	}{
		{"one second", ThroughputSample{Bytes: 240, Window: time.Second}, 1920},
		{"half second", ThroughputSample{Bytes: 10, Window: 500 * time.Millisecond}, 160},
		{"stretched window", ThroughputSample{Bytes: 100, Window: 1250 * time.Millisecond}, 640},
		{"empty window", ThroughputSample{Bytes: 0, Window: time.Second}, 0},
		{"zero duration", ThroughputSample{Bytes: 5, Window: 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sample.BitsPerSecond(); got != tt.want {
				t.Errorf("BitsPerSecond() = %v, want %v", got, tt.want)
			}
		})
	}
}
