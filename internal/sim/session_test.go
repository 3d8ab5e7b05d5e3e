package sim_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bft-labs/serialbench/internal/app"
	"github.com/bft-labs/serialbench/internal/clock"
	"github.com/bft-labs/serialbench/internal/ports"
	"github.com/bft-labs/serialbench/internal/sim"
)

func sessionFixture(t *testing.T, payload string) (app.SessionConfig, *clock.Fake) {
	t.Helper()
	cfg := app.SessionConfig{
		Channel:     ports.ChannelConfig{Port: "sim", Baud: 2400},
		Payload:     []byte(payload),
		SettleDelay: app.DefaultSettleDelay,
		Receiver: app.ReceiverConfig{
			InactivityTimeout: app.DefaultInactivityTimeout,
			ReportInterval:    app.DefaultReportInterval,
			PollInterval:      app.DefaultPollInterval,
		},
	}
	return cfg, clock.NewFake(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
}

func TestSession_AgainstSimulatedBoard(t *testing.T) {
	cfg, clk := sessionFixture(t, "hello")
	s := app.NewSession(cfg, sim.NewOpener(clk), clk, nil, nil)

	summary, err := s.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 5, summary.BytesSent)
	require.Equal(t, "hello", summary.Text)
	require.True(t, summary.EchoMatch)
	require.Equal(t, 2, summary.Diagnostics, "banner and one rate report")
	require.Greater(t, summary.Samples, 0)
	require.InDelta(t, 40.0, summary.PeakBPS, 0.001)
	require.Greater(t, summary.Elapsed, app.DefaultSettleDelay+app.DefaultInactivityTimeout)
}

func TestSession_OversizedPayloadIsTruncated(t *testing.T) {
	payload := strings.Repeat("0123456789", 110)
	cfg, clk := sessionFixture(t, payload)
	s := app.NewSession(cfg, sim.NewOpener(clk), clk, nil, nil)

	summary, err := s.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1100, summary.BytesSent)
	require.Equal(t, 1000, summary.BytesReceived)
	require.Equal(t, payload[:1000], summary.Text)
	require.False(t, summary.EchoMatch)
}
