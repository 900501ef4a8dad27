package session

// State is the lifecycle state of a Session.
type State int

const (
	// StateDisconnected means the transport is closed. Send returns
	// ErrNotConnected.
	StateDisconnected State = iota

	// StateConnected means the session can send batches.
	StateConnected

	// StateFailed means a transport or protocol error desynchronized the
	// stream. Only Shutdown is useful.
	StateFailed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "Disconnected"
	case StateConnected:
		return "Connected"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// StateHandler is called when a session changes state.
// It runs synchronously on the goroutine that caused the transition and
// must not call back into the Session.
type StateHandler interface {
	OnStateChange(previous, current State, reason string)
}
