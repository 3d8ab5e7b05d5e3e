package cliconfig

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/serialbench/internal/domain"
)

// Config holds CLI configuration for serialbench.
type Config struct {
	Port        string
	Baud        int
	ReadTimeout time.Duration
	DataBits    int
	Parity      string
	StopBits    int
	DeviceWait  time.Duration

	Payload     string
	PayloadFile string

	SettleDelay       time.Duration
	InactivityTimeout time.Duration
	ReportInterval    time.Duration
	PollInterval      time.Duration
	FirstByteTimeout  time.Duration

	Simulate bool
	LogLevel string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Baud:              2400,
		ReadTimeout:       100 * time.Millisecond,
		DataBits:          8,
		Parity:            "N",
		StopBits:          1,
		Payload:           DefaultPayload,
		SettleDelay:       time.Second,
		InactivityTimeout: 3 * time.Second,
		ReportInterval:    time.Second,
		PollInterval:      10 * time.Millisecond,
		LogLevel:          "info",
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.Port == "" {
		if !c.Simulate {
			return fmt.Errorf("%w: port is required (or --simulate)", domain.ErrInvalidConfig)
		}
		c.Port = "sim"
	}
	if c.Baud <= 0 {
		return fmt.Errorf("%w: baud must be positive", domain.ErrInvalidConfig)
	}
	if c.DataBits < 5 || c.DataBits > 8 {
		return fmt.Errorf("%w: data bits must be between 5 and 8", domain.ErrInvalidConfig)
	}
	c.Parity = strings.ToUpper(c.Parity)
	if c.Parity == "" {
		c.Parity = "N"
	}
	if !strings.Contains("NEOMS", c.Parity) || len(c.Parity) != 1 {
		return fmt.Errorf("%w: unknown parity %q", domain.ErrInvalidConfig, c.Parity)
	}
	if c.StopBits != 1 && c.StopBits != 2 {
		return fmt.Errorf("%w: stop bits must be 1 or 2", domain.ErrInvalidConfig)
	}

	positive := []struct {
		name string
		d    time.Duration
	}{
		{"read timeout", c.ReadTimeout},
		{"inactivity timeout", c.InactivityTimeout},
		{"report interval", c.ReportInterval},
		{"poll interval", c.PollInterval},
	}
	for _, p := range positive {
		if p.d <= 0 {
			return fmt.Errorf("%w: %s must be positive", domain.ErrInvalidConfig, p.name)
		}
	}
	if c.SettleDelay < 0 || c.FirstByteTimeout < 0 || c.DeviceWait < 0 {
		return fmt.Errorf("%w: settle delay, first byte timeout and device wait cannot be negative", domain.ErrInvalidConfig)
	}

	if c.PayloadFile == "" && c.Payload == "" {
		return fmt.Errorf("%w: payload is empty", domain.ErrInvalidConfig)
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level: %v", domain.ErrInvalidConfig, err)
	}
	return nil
}

// LoadPayload returns the bytes to send: the payload file when set,
// otherwise the inline payload.
func (c *Config) LoadPayload() ([]byte, error) {
	if c.PayloadFile == "" {
		return []byte(c.Payload), nil
	}
	b, err := os.ReadFile(c.PayloadFile)
	if err != nil {
		return nil, fmt.Errorf("read payload file: %w", err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("payload file %s: %w", c.PayloadFile, domain.ErrEmptyPayload)
	}
	return b, nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString accepts "true" and "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
