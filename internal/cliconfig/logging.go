package cliconfig

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/bft-labs/serialbench/pkg/log"
)

// Logger returns a console logger on stderr at the named level. Unknown
// levels fall back to info.
func Logger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return log.NewConsoleLogger(os.Stderr, lvl)
}
