package cliparse

import "fmt"

// ParseError represents an error in a shell command line.
type ParseError struct {
	Kind  ErrorKind
	Value string // The invalid token
	Index int    // Position of the command within its batch
}

// ErrorKind categorizes parse errors.
type ErrorKind int

const (
	// ErrKindInvalidCommand indicates an unknown command word.
	ErrKindInvalidCommand ErrorKind = iota
	// ErrKindInvalidAddress indicates an address that is not a 32-bit number.
	ErrKindInvalidAddress
	// ErrKindInvalidValue indicates a value that does not fit the write width.
	ErrKindInvalidValue
	// ErrKindInvalidSlot indicates a save state slot outside 0-255.
	ErrKindInvalidSlot
	// ErrKindArgumentCount indicates too few or too many arguments.
	ErrKindArgumentCount
	// ErrKindEmptyCommand indicates an empty segment between separators.
	ErrKindEmptyCommand
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	var msg string
	switch e.Kind {
	case ErrKindInvalidCommand:
		msg = fmt.Sprintf("invalid command '%s'", e.Value)
	case ErrKindInvalidAddress:
		msg = fmt.Sprintf("invalid address '%s'", e.Value)
	case ErrKindInvalidValue:
		msg = fmt.Sprintf("invalid value '%s'", e.Value)
	case ErrKindInvalidSlot:
		msg = fmt.Sprintf("invalid slot '%s'", e.Value)
	case ErrKindArgumentCount:
		msg = fmt.Sprintf("wrong number of arguments for '%s'", e.Value)
	case ErrKindEmptyCommand:
		msg = "empty command"
	default:
		msg = fmt.Sprintf("parse error: %s", e.Value)
	}
	return fmt.Sprintf("command %d: %s", e.Index+1, msg)
}
