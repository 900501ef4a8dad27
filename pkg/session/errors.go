package session

import (
	"errors"
	"fmt"
)

var (
	// ErrConnection matches every *ConnectionError with errors.Is.
	ErrConnection = errors.New("pine: connection error")

	// ErrConnectionClosed is wrapped when the peer closes the stream mid-frame.
	ErrConnectionClosed = errors.New("pine: connection closed")

	// ErrEndpointNotFound is wrapped when the named socket does not exist.
	ErrEndpointNotFound = errors.New("pine: endpoint not found")

	// ErrUnsupportedPlatform is returned when no endpoint convention exists
	// for the running OS.
	ErrUnsupportedPlatform = errors.New("pine: unsupported platform")

	// ErrNotConnected is returned by Send and Shutdown on a session that has
	// been shut down.
	ErrNotConnected = errors.New("pine: not connected")

	// ErrSessionFailed is returned by Send after a transport or protocol
	// error. It wraps the original cause.
	ErrSessionFailed = errors.New("pine: session failed")

	// ErrRequestTooLarge is returned when an encoded batch exceeds the
	// frame size limit. Nothing is written.
	ErrRequestTooLarge = errors.New("pine: request exceeds frame limit")
)

// ConnectionError reports a failure of the underlying transport.
type ConnectionError struct {
	// Op is the transport step that failed: "dial", "write", "read", "close".
	Op string

	// Addr is the endpoint address, if known.
	Addr string

	Err error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	if e.Addr == "" {
		return fmt.Sprintf("pine: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("pine: %s %s: %v", e.Op, e.Addr, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrConnection) hold for any ConnectionError.
func (e *ConnectionError) Is(target error) bool {
	return target == ErrConnection
}
