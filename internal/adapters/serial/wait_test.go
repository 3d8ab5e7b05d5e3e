package serial

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWaitForDevice_AlreadyPresent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ttyUSB0")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	require.NoError(t, WaitForDevice(context.Background(), path, time.Millisecond))
}

func TestWaitForDevice_Appears(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ttyUSB0")

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(path, nil, 0o600)
	}()

	require.NoError(t, WaitForDevice(context.Background(), path, 5*time.Second))
}

func TestWaitForDevice_IgnoresOtherNodes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ttyUSB0")

	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = os.WriteFile(filepath.Join(dir, "ttyUSB1"), nil, 0o600)
	}()

	err := WaitForDevice(context.Background(), path, 200*time.Millisecond)
	require.ErrorIs(t, err, ErrDeviceTimeout)
}

func TestWaitForDevice_Canceled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ttyUSB0")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WaitForDevice(ctx, path, 5*time.Second)
	require.ErrorIs(t, err, context.Canceled)
}

func TestWaitForDevice_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "ttyUSB0")

	err := WaitForDevice(context.Background(), path, time.Second)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrDeviceTimeout)
}
