package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/bft-labs/serialbench/internal/cliconfig"
)

func TestBitsInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "text.txt")
	if err := os.WriteFile(path, []byte("from file"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cmd := &cobra.Command{}
	cmd.SetIn(bytes.NewBufferString("from stdin"))
	cfg := cliconfig.Config{Payload: "from config"}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "configured payload", args: nil, want: "from config"},
		{name: "stdin", args: []string{"-"}, want: "from stdin"},
		{name: "file", args: []string{path}, want: "from file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := bitsInput(cmd, &cfg, tt.args)
			if err != nil {
				t.Fatalf("bitsInput() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("bitsInput() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLibraryConfig(t *testing.T) {
	cfg := cliconfig.DefaultConfig()
	cfg.Port = "/dev/ttyUSB0"
	cfg.FirstByteTimeout = 5 * time.Second

	lib := libraryConfig(cfg, []byte("x"))
	if lib.Port != cfg.Port || lib.Baud != cfg.Baud || lib.Parity != cfg.Parity {
		t.Errorf("channel settings not carried over: %+v", lib)
	}
	if lib.FirstByteTimeout != 5*time.Second || lib.InactivityTimeout != cfg.InactivityTimeout {
		t.Errorf("timing settings not carried over: %+v", lib)
	}
	if err := lib.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}
