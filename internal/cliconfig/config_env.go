package cliconfig

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// EnvPrefix is the prefix of every environment variable read by ApplyEnvConfig.
const EnvPrefix = "SERIALBENCH_"

// LoadDotEnv seeds the process environment from a .env file. Variables that
// are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// ApplyEnvConfig applies configuration from environment variables (SERIALBENCH_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)
	env := func(key string) string { return os.Getenv(EnvPrefix + key) }

	s.setString("port", env("PORT"), &cfg.Port)
	s.setString("parity", env("PARITY"), &cfg.Parity)
	s.setString("payload", env("PAYLOAD"), &cfg.Payload)
	s.setString("payload-file", env("PAYLOAD_FILE"), &cfg.PayloadFile)
	s.setString("log-level", env("LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setIntFromString("baud", env("BAUD"), &cfg.Baud); err != nil {
		return err
	}
	if err := s.setIntFromString("data-bits", env("DATA_BITS"), &cfg.DataBits); err != nil {
		return err
	}
	if err := s.setIntFromString("stop-bits", env("STOP_BITS"), &cfg.StopBits); err != nil {
		return err
	}

	if err := s.setDuration("read-timeout", env("READ_TIMEOUT"), &cfg.ReadTimeout); err != nil {
		return err
	}
	if err := s.setDuration("device-wait", env("DEVICE_WAIT"), &cfg.DeviceWait); err != nil {
		return err
	}
	if err := s.setDuration("settle", env("SETTLE_DELAY"), &cfg.SettleDelay); err != nil {
		return err
	}
	if err := s.setDuration("inactivity", env("INACTIVITY_TIMEOUT"), &cfg.InactivityTimeout); err != nil {
		return err
	}
	if err := s.setDuration("report-interval", env("REPORT_INTERVAL"), &cfg.ReportInterval); err != nil {
		return err
	}
	if err := s.setDuration("poll", env("POLL_INTERVAL"), &cfg.PollInterval); err != nil {
		return err
	}
	if err := s.setDuration("first-byte-timeout", env("FIRST_BYTE_TIMEOUT"), &cfg.FirstByteTimeout); err != nil {
		return err
	}

	s.setBoolFromString("simulate", env("SIMULATE"), &cfg.Simulate)
	return nil
}
