package command

// EmuStatus is the emulator state reported by the Status command.
type EmuStatus uint32

const (
	StatusRunning  EmuStatus = 0
	StatusPaused   EmuStatus = 1
	StatusShutdown EmuStatus = 2
	// StatusUnknown stands in for any value outside the table.
	StatusUnknown EmuStatus = 0xFFFFFFFF
)

// ParseEmuStatus maps a wire value to an EmuStatus, folding values outside
// the protocol table into StatusUnknown.
func ParseEmuStatus(v uint32) EmuStatus {
	switch s := EmuStatus(v); s {
	case StatusRunning, StatusPaused, StatusShutdown:
		return s
	default:
		return StatusUnknown
	}
}

// String returns a human-readable representation of the status.
func (s EmuStatus) String() string {
	switch s {
	case StatusRunning:
		return "Running"
	case StatusPaused:
		return "Paused"
	case StatusShutdown:
		return "Shutdown"
	default:
		return "Unknown"
	}
}
