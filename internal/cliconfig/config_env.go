package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (PINE_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("name", os.Getenv("PINE_NAME"), &cfg.Name)
	s.setString("host", os.Getenv("PINE_HOST"), &cfg.Host)
	s.setString("log-level", os.Getenv("PINE_LOG_LEVEL"), &cfg.LogLevel)
	s.setString("log-format", os.Getenv("PINE_LOG_FORMAT"), &cfg.LogFormat)
	s.setString("snapshot", os.Getenv("PINE_SNAPSHOT"), &cfg.SnapshotPath)
	s.setString("history", os.Getenv("PINE_HISTORY_FILE"), &cfg.HistoryFile)

	if err := s.setDuration("dial-timeout", os.Getenv("PINE_DIAL_TIMEOUT"), &cfg.DialTimeout); err != nil {
		return err
	}
	if err := s.setDuration("io-timeout", os.Getenv("PINE_IO_TIMEOUT"), &cfg.IOTimeout); err != nil {
		return err
	}
	if err := s.setDuration("wait-timeout", os.Getenv("PINE_WAIT_TIMEOUT"), &cfg.WaitTimeout); err != nil {
		return err
	}
	if err := s.setDuration("poll", os.Getenv("PINE_POLL_INTERVAL"), &cfg.PollInterval); err != nil {
		return err
	}

	if err := s.setIntFromString("slot", os.Getenv("PINE_SLOT"), &cfg.Slot); err != nil {
		return err
	}
	if err := s.setIntFromString("max-frame-size", os.Getenv("PINE_MAX_FRAME_SIZE"), &cfg.MaxFrameSize); err != nil {
		return err
	}

	s.setBoolFromString("tcp", os.Getenv("PINE_TCP"), &cfg.TCP)
	s.setBoolFromString("inclusive-length", os.Getenv("PINE_INCLUSIVE_LENGTH"), &cfg.InclusiveLength)
	s.setBoolFromString("wait", os.Getenv("PINE_WAIT"), &cfg.Wait)

	return nil
}
