package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Name            string `toml:"name"`
	Slot            int    `toml:"slot"`
	TCP             *bool  `toml:"tcp"`
	Host            string `toml:"host"`
	DialTimeout     string `toml:"dial_timeout"`
	IOTimeout       string `toml:"io_timeout"`
	InclusiveLength *bool  `toml:"inclusive_length"`
	MaxFrameSize    int    `toml:"max_frame_size"`
	Wait            *bool  `toml:"wait"`
	WaitTimeout     string `toml:"wait_timeout"`
	PollInterval    string `toml:"poll_interval"`
	LogLevel        string `toml:"log_level"`
	LogFormat       string `toml:"log_format"`
	SnapshotPath    string `toml:"snapshot"`
	HistoryFile     string `toml:"history_file"`
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

// DefaultConfigDir returns ~/.pine, or "" if the home directory is unknown.
func DefaultConfigDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".pine")
	}
	return ""
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.pine/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if dir := DefaultConfigDir(); dir != "" {
		return filepath.Join(dir, "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("name", fc.Name, &cfg.Name)
	s.setString("host", fc.Host, &cfg.Host)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("log-format", fc.LogFormat, &cfg.LogFormat)
	s.setString("snapshot", fc.SnapshotPath, &cfg.SnapshotPath)
	s.setString("history", fc.HistoryFile, &cfg.HistoryFile)

	if err := s.setDuration("dial-timeout", fc.DialTimeout, &cfg.DialTimeout); err != nil {
		return err
	}
	if err := s.setDuration("io-timeout", fc.IOTimeout, &cfg.IOTimeout); err != nil {
		return err
	}
	if err := s.setDuration("wait-timeout", fc.WaitTimeout, &cfg.WaitTimeout); err != nil {
		return err
	}
	if err := s.setDuration("poll", fc.PollInterval, &cfg.PollInterval); err != nil {
		return err
	}

	s.setInt("slot", fc.Slot, &cfg.Slot)
	s.setInt("max-frame-size", fc.MaxFrameSize, &cfg.MaxFrameSize)

	s.setBool("tcp", fc.TCP, &cfg.TCP)
	s.setBool("inclusive-length", fc.InclusiveLength, &cfg.InclusiveLength)
	s.setBool("wait", fc.Wait, &cfg.Wait)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
