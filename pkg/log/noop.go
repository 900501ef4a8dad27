package log

var _ Logger = NoopLogger{}

// Discard is a Logger that drops everything. Sessions, pollers and the endpoint waiter use it
// when no logger is configured.
var Discard Logger = NoopLogger{}

// NoopLogger implements Logger and ignores every call.
type NoopLogger struct{}

// NewNoopLogger returns a Logger that ignores every call.
func NewNoopLogger() *NoopLogger {
	return &NoopLogger{}
}

func (NoopLogger) Debug(string, ...Field) {}
func (NoopLogger) Info(string, ...Field)  {}
func (NoopLogger) Warn(string, ...Field)  {}
func (NoopLogger) Error(string, ...Field) {}
