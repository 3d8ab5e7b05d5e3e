package serial

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrDeviceTimeout is returned when a device node does not appear in time.
var ErrDeviceTimeout = errors.New("serialbench: device did not appear")

// WaitForDevice blocks until path exists. It gives up with ErrDeviceTimeout
// once timeout has elapsed.
// It watches the parent directory, so a board plugged in after the tool was
// started is picked up as soon as udev creates its node.
func WaitForDevice(ctx context.Context, path string, timeout time.Duration) error {
	if exists(path) {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	// The node may have appeared between the first check and Add.
	if exists(path) {
		return nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	want := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return fmt.Errorf("%w: %s after %s", ErrDeviceTimeout, path, timeout)
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watch %s: watcher closed", dir)
			}
			if filepath.Clean(event.Name) == want && event.Has(fsnotify.Create) {
				return nil
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watch %s: watcher closed", dir)
			}
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
