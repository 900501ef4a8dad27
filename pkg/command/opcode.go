package command

import "fmt"

// Opcode is the single-byte discriminator identifying a command kind on the wire.
type Opcode uint8

// Opcode values of the PINE protocol.
const (
	OpRead8         Opcode = 0
	OpRead16        Opcode = 1
	OpRead32        Opcode = 2
	OpRead64        Opcode = 3
	OpWrite8        Opcode = 4
	OpWrite16       Opcode = 5
	OpWrite32       Opcode = 6
	OpWrite64       Opcode = 7
	OpVersion       Opcode = 8
	OpSaveState     Opcode = 9
	OpLoadState     Opcode = 10
	OpTitle         Opcode = 11
	OpID            Opcode = 12
	OpUUID          Opcode = 13
	OpGameVersion   Opcode = 14
	OpStatus        Opcode = 15
	OpUnimplemented Opcode = 255
)

// VariableSize marks a result whose size is carried on the wire as a
// 4-byte length prefix.
const VariableSize = -1

// opcodeNames maps opcodes to names for logging and diagnostics.
var opcodeNames = map[Opcode]string{
	OpRead8:         "Read8",
	OpRead16:        "Read16",
	OpRead32:        "Read32",
	OpRead64:        "Read64",
	OpWrite8:        "Write8",
	OpWrite16:       "Write16",
	OpWrite32:       "Write32",
	OpWrite64:       "Write64",
	OpVersion:       "Version",
	OpSaveState:     "SaveState",
	OpLoadState:     "LoadState",
	OpTitle:         "Title",
	OpID:            "ID",
	OpUUID:          "UUID",
	OpGameVersion:   "GameVersion",
	OpStatus:        "Status",
	OpUnimplemented: "Unimplemented",
}

// String returns the operation name, or a hex form for unknown opcodes.
func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Opcode(0x%02X)", uint8(o))
}

// Known reports whether o is part of the protocol table.
func (o Opcode) Known() bool {
	_, ok := opcodeNames[o]
	return ok
}

// ArgSize returns the number of argument bytes that follow the opcode in a
// request. It returns 0 for unknown opcodes.
func ArgSize(o Opcode) int {
	switch o {
	case OpRead8, OpRead16, OpRead32, OpRead64:
		return 4
	case OpWrite8:
		return 4 + 1
	case OpWrite16:
		return 4 + 2
	case OpWrite32:
		return 4 + 4
	case OpWrite64:
		return 4 + 8
	case OpSaveState, OpLoadState:
		return 1
	default:
		return 0
	}
}

// ResultSize returns the number of bytes a successful result occupies in a
// response, or VariableSize for length-prefixed strings.
func ResultSize(o Opcode) int {
	switch o {
	case OpRead8:
		return 1
	case OpRead16:
		return 2
	case OpRead32, OpStatus:
		return 4
	case OpRead64:
		return 8
	case OpVersion, OpTitle, OpID, OpUUID, OpGameVersion:
		return VariableSize
	default:
		return 0
	}
}
