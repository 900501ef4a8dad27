package command

import "fmt"

// Result is the decoded reply to one Command. Its Opcode matches the opcode
// of the command that produced it.
type Result interface {
	Opcode() Opcode

	fmt.Stringer

	isResult()
}

// Read8Result carries the byte returned by Read8.
type Read8Result struct{ Value uint8 }

// Read16Result carries the value returned by Read16.
type Read16Result struct{ Value uint16 }

// Read32Result carries the value returned by Read32.
type Read32Result struct{ Value uint32 }

// Read64Result carries the value returned by Read64.
type Read64Result struct{ Value uint64 }

// Write8Result acknowledges a Write8.
type Write8Result struct{}

// Write16Result acknowledges a Write16.
type Write16Result struct{}

// Write32Result acknowledges a Write32.
type Write32Result struct{}

// Write64Result acknowledges a Write64.
type Write64Result struct{}

// VersionResult carries the emulator version string.
type VersionResult struct{ Version string }

// SaveStateResult acknowledges a SaveState.
type SaveStateResult struct{}

// LoadStateResult acknowledges a LoadState.
type LoadStateResult struct{}

// TitleResult carries the game title.
type TitleResult struct{ Title string }

// IDResult carries the game serial.
type IDResult struct{ ID string }

// UUIDResult carries the disc checksum.
type UUIDResult struct{ UUID string }

// GameVersionResult carries the game version.
type GameVersionResult struct{ Version string }

// StatusResult carries the emulator status.
type StatusResult struct{ Status EmuStatus }

// UnimplementedResult acknowledges an Unimplemented command.
type UnimplementedResult struct{}

func (Read8Result) Opcode() Opcode { return OpRead8 }
func (Read16Result) Opcode() Opcode { return OpRead16 }
func (Read32Result) Opcode() Opcode { return OpRead32 }
func (Read64Result) Opcode() Opcode { return OpRead64 }
func (Write8Result) Opcode() Opcode { return OpWrite8 }
func (Write16Result) Opcode() Opcode { return OpWrite16 }
func (Write32Result) Opcode() Opcode { return OpWrite32 }
func (Write64Result) Opcode() Opcode { return OpWrite64 }
func (VersionResult) Opcode() Opcode { return OpVersion }
func (SaveStateResult) Opcode() Opcode { return OpSaveState }
func (LoadStateResult) Opcode() Opcode { return OpLoadState }
func (TitleResult) Opcode() Opcode { return OpTitle }
func (IDResult) Opcode() Opcode { return OpID }
func (UUIDResult) Opcode() Opcode { return OpUUID }
func (GameVersionResult) Opcode() Opcode { return OpGameVersion }
func (StatusResult) Opcode() Opcode { return OpStatus }
func (UnimplementedResult) Opcode() Opcode { return OpUnimplemented }

func (r Read8Result) String() string { return fmt.Sprintf("Read8Result(%d)", r.Value) }
func (r Read16Result) String() string { return fmt.Sprintf("Read16Result(%d)", r.Value) }
func (r Read32Result) String() string { return fmt.Sprintf("Read32Result(%d)", r.Value) }
func (r Read64Result) String() string { return fmt.Sprintf("Read64Result(%d)", r.Value) }
func (Write8Result) String() string { return "Write8Result" }
func (Write16Result) String() string { return "Write16Result" }
func (Write32Result) String() string { return "Write32Result" }
func (Write64Result) String() string { return "Write64Result" }
func (r VersionResult) String() string { return fmt.Sprintf("VersionResult(%q)", r.Version) }
func (SaveStateResult) String() string { return "SaveStateResult" }
func (LoadStateResult) String() string { return "LoadStateResult" }
func (r TitleResult) String() string { return fmt.Sprintf("TitleResult(%q)", r.Title) }
func (r IDResult) String() string { return fmt.Sprintf("IDResult(%q)", r.ID) }
func (r UUIDResult) String() string { return fmt.Sprintf("UUIDResult(%q)", r.UUID) }
func (r GameVersionResult) String() string {
	return fmt.Sprintf("GameVersionResult(%q)", r.Version)
}
func (r StatusResult) String() string { return fmt.Sprintf("StatusResult(%s)", r.Status) }
func (UnimplementedResult) String() string { return "UnimplementedResult" }

func (Read8Result) isResult() {}
func (Read16Result) isResult() {}
func (Read32Result) isResult() {}
func (Read64Result) isResult() {}
func (Write8Result) isResult() {}
func (Write16Result) isResult() {}
func (Write32Result) isResult() {}
func (Write64Result) isResult() {}
func (VersionResult) isResult() {}
func (SaveStateResult) isResult() {}
func (LoadStateResult) isResult() {}
func (TitleResult) isResult() {}
func (IDResult) isResult() {}
func (UUIDResult) isResult() {}
func (GameVersionResult) isResult() {}
func (StatusResult) isResult() {}
func (UnimplementedResult) isResult() {}

// Uint returns the numeric value of a read result widened to uint64.
// ok is false for results that carry no number.
func Uint(r Result) (v uint64, ok bool) {
	switch r := r.(type) {
	case Read8Result:
		return uint64(r.Value), true
	case Read16Result:
		return uint64(r.Value), true
	case Read32Result:
		return uint64(r.Value), true
	case Read64Result:
		return r.Value, true
	default:
		return 0, false
	}
}

// Text returns the string payload of a string-valued result.
// ok is false for results that carry no text.
func Text(r Result) (s string, ok bool) {
	switch r := r.(type) {
	case VersionResult:
		return r.Version, true
	case TitleResult:
		return r.Title, true
	case IDResult:
		return r.ID, true
	case UUIDResult:
		return r.UUID, true
	case GameVersionResult:
		return r.Version, true
	default:
		return "", false
	}
}
