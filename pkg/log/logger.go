package log

import (
	"fmt"
	"time"

	"github.com/bft-labs/pine/pkg/command"
)

// Logger provides structured logging capabilities.
type Logger interface {
	// Debug logs a debug-level message with fields.
	Debug(msg string, fields ...Field)

	// Info logs an info-level message with fields.
	Info(msg string, fields ...Field)

	// Warn logs a warning-level message with fields.
	Warn(msg string, fields ...Field)

	// Error logs an error-level message with fields.
	Error(msg string, fields ...Field)
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value any
}

// String creates a string field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an int field.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Uint64 creates a uint64 field.
func Uint64(key string, value uint64) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a bool field.
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Duration creates a duration field.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}

// Err creates an error field with key "error".
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}

// Any creates a field with any value.
func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Addr creates a field holding an emulated memory address in "$XXXXXXXX" form.
func Addr(key string, addr uint32) Field {
	return Field{Key: key, Value: fmt.Sprintf("$%08X", addr)}
}

// Opcode creates an "opcode" field with the opcode's name.
func Opcode(op command.Opcode) Field {
	return Field{Key: "opcode", Value: op.String()}
}

// Bytes creates a field holding raw wire bytes, rendered as hex.
func Bytes(key string, b []byte) Field {
	return Field{Key: key, Value: b}
}
