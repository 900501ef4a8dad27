package cliconfig

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/pine/pkg/codec"
	"github.com/bft-labs/pine/pkg/session"
)

// Log formats accepted by Config.LogFormat.
const (
	LogFormatAuto    = "auto"
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// Config holds CLI configuration for pinectl.
type Config struct {
	Name string
	Slot int

	TCP  bool
	Host string

	DialTimeout     time.Duration
	IOTimeout       time.Duration
	InclusiveLength bool
	MaxFrameSize    int

	Wait         bool
	WaitTimeout  time.Duration
	PollInterval time.Duration

	LogLevel  string
	LogFormat string

	SnapshotPath string
	HistoryFile  string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Name:            session.DefaultName,
		Slot:            int(session.DefaultSlot),
		Host:            "127.0.0.1",
		DialTimeout:     5 * time.Second,
		IOTimeout:       5 * time.Second,
		InclusiveLength: true, // PCSX2 and RPCS3 count the prefix
		MaxFrameSize:    codec.DefaultMaxFrameSize,
		WaitTimeout:     30 * time.Second,
		PollInterval:    250 * time.Millisecond,
		LogLevel:        "info",
		LogFormat:       LogFormatAuto,
		HistoryFile:     "", // Derived from the config dir during Validate
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.Slot <= 0 || c.Slot > 65535 {
		return fmt.Errorf("slot %d out of range 1-65535", c.Slot)
	}
	if c.TCP && c.Host == "" {
		return fmt.Errorf("host is required with tcp")
	}

	if c.MaxFrameSize <= codec.HeaderSize {
		return fmt.Errorf("max frame size must exceed %d bytes", codec.HeaderSize)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if c.DialTimeout < 0 || c.IOTimeout < 0 || c.WaitTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	switch c.LogFormat {
	case LogFormatAuto, LogFormatConsole, LogFormatJSON:
	case "":
		c.LogFormat = LogFormatAuto
	default:
		return fmt.Errorf("log format %q is not one of auto, console, json", c.LogFormat)
	}

	if c.HistoryFile == "" {
		if dir := DefaultConfigDir(); dir != "" {
			c.HistoryFile = filepath.Join(dir, "history")
		}
	}

	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
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

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
