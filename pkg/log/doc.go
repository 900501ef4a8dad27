// Package log provides the logging abstraction used by pine sessions and tools.
//
// This package defines a Logger interface that can be implemented by
// any logging library. A zerolog adapter is provided for applications and
// a no-op logger is the default for library use, so a session that is not
// given a logger stays silent.
//
// # Usage
//
// Use the zerolog adapter with console output for a terminal:
//
//	logger := log.NewZerologAdapter(os.Stderr, log.FormatConsole, zerolog.InfoLevel)
//
// Or wrap an existing zerolog.Logger:
//
//	logger := log.NewZerologAdapterWithLogger(zl)
//
// Protocol-specific fields render addresses and opcodes the way emulator
// tooling prints them:
//
//	logger.Debug("read", log.Addr("addr", 0x003667DC), log.Opcode(command.OpRead32))
//
// # Version
//
// Current version: 1.1.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package log
