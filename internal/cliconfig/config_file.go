package cliconfig

import (
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Port              string `toml:"port"`
	Baud              int    `toml:"baud"`
	ReadTimeout       string `toml:"read_timeout"`
	DataBits          int    `toml:"data_bits"`
	Parity            string `toml:"parity"`
	StopBits          int    `toml:"stop_bits"`
	DeviceWait        string `toml:"device_wait"`
	Payload           string `toml:"payload"`
	PayloadFile       string `toml:"payload_file"`
	SettleDelay       string `toml:"settle_delay"`
	InactivityTimeout string `toml:"inactivity_timeout"`
	ReportInterval    string `toml:"report_interval"`
	PollInterval      string `toml:"poll_interval"`
	FirstByteTimeout  string `toml:"first_byte_timeout"`
	Simulate          *bool  `toml:"simulate"`
	LogLevel          string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.serialbench/config.toml, or "" when the home
// directory cannot be determined.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".serialbench", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("port", fc.Port, &cfg.Port)
	s.setString("parity", fc.Parity, &cfg.Parity)
	s.setString("payload", fc.Payload, &cfg.Payload)
	s.setString("payload-file", fc.PayloadFile, &cfg.PayloadFile)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setInt("baud", fc.Baud, &cfg.Baud)
	s.setInt("data-bits", fc.DataBits, &cfg.DataBits)
	s.setInt("stop-bits", fc.StopBits, &cfg.StopBits)

	durations := []struct {
		flag  string
		value string
		dst   *time.Duration
	}{
		{"read-timeout", fc.ReadTimeout, &cfg.ReadTimeout},
		{"device-wait", fc.DeviceWait, &cfg.DeviceWait},
		{"settle", fc.SettleDelay, &cfg.SettleDelay},
		{"inactivity", fc.InactivityTimeout, &cfg.InactivityTimeout},
		{"report-interval", fc.ReportInterval, &cfg.ReportInterval},
		{"poll", fc.PollInterval, &cfg.PollInterval},
		{"first-byte-timeout", fc.FirstByteTimeout, &cfg.FirstByteTimeout},
	}
	for _, d := range durations {
		if err := s.setDuration(d.flag, d.value, d.dst); err != nil {
			return err
		}
	}

	s.setBool("simulate", fc.Simulate, &cfg.Simulate)
	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
