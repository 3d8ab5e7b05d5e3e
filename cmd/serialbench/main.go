package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/serialbench"
	"github.com/bft-labs/serialbench/internal/adapters/console"
	"github.com/bft-labs/serialbench/internal/bitcount"
	"github.com/bft-labs/serialbench/internal/cliconfig"
	"github.com/bft-labs/serialbench/pkg/log"
)

const longHelp = `Measure the throughput of a serial link to an echo board.

serialbench writes a payload one byte at a time, prints whatever the board
answers while it is sending, then listens for the echo and reports the
receive rate once per interval until the line has been quiet for the
inactivity timeout.

Configuration is read from $HOME/.serialbench/config.toml, then SERIALBENCH_*
environment variables (a .env file may seed them), then flags.`

var exampleUsage = strings.TrimSpace(`
  serialbench --port /dev/ttyUSB0 --baud 2400
  serialbench --port /dev/ttyACM0 --payload-file message.txt --first-byte-timeout 10s
  serialbench --simulate
  serialbench bits message.txt
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath, envPath string

	logger := cliconfig.Logger(cfg.LogLevel)

	// loadConfig resolves defaults < file < env < flags for cmd.
	loadConfig := func(cmd *cobra.Command) error {
		changed := map[string]bool{}
		cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

		if err := cliconfig.LoadDotEnv(envPath); err != nil {
			return fmt.Errorf("load %s: %w", envPath, err)
		}

		cfgFile := cfgPath
		if cfgFile == "" {
			cfgFile = cliconfig.DefaultConfigPath()
		}
		if cfgFile != "" && cliconfig.FileExists(cfgFile) {
			fc, err := cliconfig.LoadFileConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
				return err
			}
		}

		if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
			return err
		}
		logger = cliconfig.Logger(cfg.LogLevel)
		return nil
	}

	root := &cobra.Command{
		Use:           "serialbench",
		Short:         "Measure the throughput of a serial link to an echo board",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger.Debug().Interface("config", cfg).Msg("configuration")

			payload, err := cfg.LoadPayload()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			reporter := console.NewReporter(cmd.OutOrStdout())
			opts := []serialbench.Option{
				serialbench.WithLogger(log.NewZerologAdapterWithLogger(logger)),
				serialbench.WithReporter(reporter),
			}
			if cfg.Simulate {
				logger.Info().Msg("running against the simulated board")
				opts = append(opts, serialbench.WithSimulator())
			}

			summary, err := serialbench.Run(ctx, libraryConfig(cfg, payload), opts...)
			if err != nil {
				return err
			}
			reporter.Summary(summary)
			return reporter.Err()
		},
	}

	bits := &cobra.Command{
		Use:   "bits [file|-]",
		Short: "Count the ones and zeros in the binary form of a text",
		Long: "Count the 1 and 0 digits of every character's binary form (without leading zeros).\n" +
			"Reads the named file, stdin for -, or the configured payload.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd); err != nil {
				return err
			}
			text, err := bitsInput(cmd, &cfg, args)
			if err != nil {
				return err
			}
			t := bitcount.Count(string(text))
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Number of 1's: %d\n", t.Ones)
			fmt.Fprintf(out, "Number of 0's: %d\n", t.Zeros)
			fmt.Fprintf(out, "Characters: %d\n", t.Chars)
			fmt.Fprintf(out, "Bits: %d\n", t.Bits)
			return nil
		},
	}
	root.AddCommand(bits)

	// Flags shared with subcommands
	pf := root.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.serialbench/config.toml)")
	pf.StringVar(&envPath, "env-file", ".env", "dotenv file seeding SERIALBENCH_* variables")
	pf.StringVar(&cfg.Payload, "payload", cfg.Payload, "text to send")
	pf.StringVar(&cfg.PayloadFile, "payload-file", cfg.PayloadFile, "file to send (overrides --payload)")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	// Flags
	f := root.Flags()
	f.StringVar(&cfg.Port, "port", cfg.Port, "serial port, e.g. /dev/ttyUSB0 or COM3")
	f.IntVar(&cfg.Baud, "baud", cfg.Baud, "baud rate")
	f.DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "port read timeout")
	f.IntVar(&cfg.DataBits, "data-bits", cfg.DataBits, "data bits per character (5-8)")
	f.StringVar(&cfg.Parity, "parity", cfg.Parity, "parity: N, E, O, M or S")
	f.IntVar(&cfg.StopBits, "stop-bits", cfg.StopBits, "stop bits (1 or 2)")
	f.DurationVar(&cfg.DeviceWait, "device-wait", cfg.DeviceWait, "wait this long for the port to appear (0 opens immediately)")

	f.DurationVar(&cfg.SettleDelay, "settle", cfg.SettleDelay, "pause after the last byte before listening")
	f.DurationVar(&cfg.InactivityTimeout, "inactivity", cfg.InactivityTimeout, "stop listening after this much silence")
	f.DurationVar(&cfg.ReportInterval, "report-interval", cfg.ReportInterval, "receive rate reporting interval")
	f.DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "poll interval when nothing is available")
	f.DurationVar(&cfg.FirstByteTimeout, "first-byte-timeout", cfg.FirstByteTimeout, "give up if nothing arrives within this time (0 waits forever)")
	f.BoolVar(&cfg.Simulate, "simulate", cfg.Simulate, "run against a simulated echo board")

	if err := root.Execute(); err != nil {
		logger.Error().Err(err).Msg("serialbench")
		os.Exit(1)
	}
}

func bitsInput(cmd *cobra.Command, cfg *cliconfig.Config, args []string) ([]byte, error) {
	switch {
	case len(args) == 0:
		return cfg.LoadPayload()
	case args[0] == "-":
		return io.ReadAll(cmd.InOrStdin())
	default:
		return os.ReadFile(args[0])
	}
}

func libraryConfig(cfg cliconfig.Config, payload []byte) serialbench.Config {
	return serialbench.Config{
		Port:              cfg.Port,
		Baud:              cfg.Baud,
		ReadTimeout:       cfg.ReadTimeout,
		DataBits:          cfg.DataBits,
		Parity:            cfg.Parity,
		StopBits:          cfg.StopBits,
		DeviceWait:        cfg.DeviceWait,
		Payload:           payload,
		SettleDelay:       cfg.SettleDelay,
		InactivityTimeout: cfg.InactivityTimeout,
		ReportInterval:    cfg.ReportInterval,
		PollInterval:      cfg.PollInterval,
		FirstByteTimeout:  cfg.FirstByteTimeout,
	}
}
