package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bft-labs/serialbench/internal/clock"
	"github.com/bft-labs/serialbench/internal/domain"
	"github.com/bft-labs/serialbench/internal/ports"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// At 1000 baud one frame takes exactly 10ms.
const testBaud = 1000

func drain(t *testing.T, d *Device) string {
	t.Helper()
	n, err := d.Buffered()
	require.NoError(t, err)
	buf := make([]byte, n)
	got, err := d.Read(buf)
	require.NoError(t, err)
	require.Equal(t, n, got)
	return string(buf)
}

func TestDevice_BannerIsPaced(t *testing.T) {
	clk := clock.NewFake(epoch)
	d := NewDevice(clk, testBaud, DefaultConfig())

	require.Equal(t, "", drain(t, d))

	clk.Advance(50 * time.Millisecond)
	require.Equal(t, "Ready", drain(t, d))

	clk.Advance(time.Second)
	require.Equal(t, " to receive\n", drain(t, d))
}

func TestDevice_ReportsRateOnTick(t *testing.T) {
	clk := clock.NewFake(epoch)
	d := NewDevice(clk, testBaud, DefaultConfig())

	_, err := d.Write([]byte("abc"))
	require.NoError(t, err)

	clk.Advance(time.Second)
	require.Equal(t, "Ready to receive\nSpeed: 24 bps\n", drain(t, d))

	clk.Advance(2 * time.Second)
	require.Equal(t, "abc", drain(t, d), "ticks without traffic stay silent")
}

func TestDevice_EchoesAfterIdle(t *testing.T) {
	clk := clock.NewFake(epoch)
	d := NewDevice(clk, testBaud, DefaultConfig())

	_, err := d.Write([]byte("abc"))
	require.NoError(t, err)
	clk.Advance(time.Second)
	drain(t, d)

	clk.Advance(499 * time.Millisecond)
	require.Equal(t, "", drain(t, d))
	require.Equal(t, []byte("abc"), d.Stored())

	clk.Advance(31 * time.Millisecond)
	require.Equal(t, "abc", drain(t, d))
	require.Empty(t, d.Stored())
}

func TestDevice_LateWriteDefersEcho(t *testing.T) {
	clk := clock.NewFake(epoch)
	d := NewDevice(clk, testBaud, DefaultConfig())

	_, err := d.Write([]byte("a"))
	require.NoError(t, err)
	clk.Advance(1200 * time.Millisecond)
	_, err = d.Write([]byte("b"))
	require.NoError(t, err)

	clk.Advance(1400 * time.Millisecond)
	got := drain(t, d)
	require.NotContains(t, got, "ab")

	clk.Advance(200 * time.Millisecond)
	require.Equal(t, "ab", drain(t, d))
}

func TestDevice_StoreIsBounded(t *testing.T) {
	clk := clock.NewFake(epoch)
	cfg := DefaultConfig()
	cfg.Capacity = 4
	d := NewDevice(clk, testBaud, cfg)

	n, err := d.Write([]byte("abcdef"))
	require.NoError(t, err)
	require.Equal(t, 6, n)
	require.Equal(t, []byte("abcd"), d.Stored())

	clk.Advance(time.Second)
	require.Contains(t, drain(t, d), "Speed: 48 bps\n")
}

func TestDevice_Closed(t *testing.T) {
	d := NewDevice(clock.NewFake(epoch), testBaud, DefaultConfig())
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())

	_, err := d.Write([]byte("x"))
	require.ErrorIs(t, err, domain.ErrChannelClosed)
	_, err = d.Buffered()
	require.ErrorIs(t, err, domain.ErrChannelClosed)
	_, err = d.Read(make([]byte, 1))
	require.ErrorIs(t, err, domain.ErrChannelClosed)
}

func TestOpener(t *testing.T) {
	o := NewOpener(clock.NewFake(epoch))

	ch, err := o.Open(context.Background(), ports.ChannelConfig{Port: "sim", Baud: 2400})
	require.NoError(t, err)
	require.NotNil(t, ch)

	_, err = o.Open(context.Background(), ports.ChannelConfig{Port: "sim"})
	require.ErrorIs(t, err, domain.ErrInvalidConfig)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = o.Open(ctx, ports.ChannelConfig{Port: "sim", Baud: 2400})
	require.ErrorIs(t, err, context.Canceled)
}
