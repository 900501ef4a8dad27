package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrBatchFailure is returned when the emulator answers a batch with a
	// failure status. No results are decoded; the stream stays in sync.
	ErrBatchFailure = errors.New("pine: batch failed")

	// ErrProtocol matches every *ProtocolError with errors.Is.
	ErrProtocol = errors.New("pine: protocol error")
)

// ProtocolError reports a frame that cannot be decoded: a bad length prefix,
// a payload shorter than the batch requires, or bytes left over after the
// last result. The byte stream it came from is desynchronized.
type ProtocolError struct {
	// Op names the decoding step, e.g. "decode response".
	Op string

	// Offset is the payload offset where decoding stopped.
	Offset int

	Reason string
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("pine: protocol error: %s at offset %d: %s", e.Op, e.Offset, e.Reason)
}

// Is makes errors.Is(err, ErrProtocol) hold for any ProtocolError.
func (e *ProtocolError) Is(target error) bool {
	return target == ErrProtocol
}

func newProtocolError(op string, offset int, format string, args ...any) error {
	return &ProtocolError{Op: op, Offset: offset, Reason: fmt.Sprintf(format, args...)}
}
