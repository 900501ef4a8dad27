package command

import "fmt"

// Command is one request in a batch. The set of implementations is closed:
// only the types in this package satisfy it.
type Command interface {
	// Opcode returns the wire discriminator of the command.
	Opcode() Opcode

	fmt.Stringer

	isCommand()
}

// Read8 reads one byte at Addr.
type Read8 struct{ Addr uint32 }

// Read16 reads a little-endian uint16 at Addr.
type Read16 struct{ Addr uint32 }

// Read32 reads a little-endian uint32 at Addr.
type Read32 struct{ Addr uint32 }

// Read64 reads a little-endian uint64 at Addr.
type Read64 struct{ Addr uint32 }

// Write8 stores Value at Addr.
type Write8 struct {
	Addr  uint32
	Value uint8
}

// Write16 stores Value at Addr.
type Write16 struct {
	Addr  uint32
	Value uint16
}

// Write32 stores Value at Addr.
type Write32 struct {
	Addr  uint32
	Value uint32
}

// Write64 stores Value at Addr.
type Write64 struct {
	Addr  uint32
	Value uint64
}

// Version asks for the emulator version string.
type Version struct{}

// SaveState saves the emulator state into Slot.
type SaveState struct{ Slot uint8 }

// LoadState restores the emulator state from Slot.
type LoadState struct{ Slot uint8 }

// Title asks for the title of the running game.
type Title struct{}

// ID asks for the serial of the running game.
type ID struct{}

// UUID asks for the disc checksum of the running game.
type UUID struct{}

// GameVersion asks for the version of the running game.
type GameVersion struct{}

// Status asks whether the emulator is running, paused or shut down.
type Status struct{}

// Unimplemented is the reserved opcode 255. Servers answer it with a failure;
// it exists to probe that behavior.
type Unimplemented struct{}

func (Read8) Opcode() Opcode { return OpRead8 }
func (Read16) Opcode() Opcode { return OpRead16 }
func (Read32) Opcode() Opcode { return OpRead32 }
func (Read64) Opcode() Opcode { return OpRead64 }
func (Write8) Opcode() Opcode { return OpWrite8 }
func (Write16) Opcode() Opcode { return OpWrite16 }
func (Write32) Opcode() Opcode { return OpWrite32 }
func (Write64) Opcode() Opcode { return OpWrite64 }
func (Version) Opcode() Opcode { return OpVersion }
func (SaveState) Opcode() Opcode { return OpSaveState }
func (LoadState) Opcode() Opcode { return OpLoadState }
func (Title) Opcode() Opcode { return OpTitle }
func (ID) Opcode() Opcode { return OpID }
func (UUID) Opcode() Opcode { return OpUUID }
func (GameVersion) Opcode() Opcode { return OpGameVersion }
func (Status) Opcode() Opcode { return OpStatus }
func (Unimplemented) Opcode() Opcode { return OpUnimplemented }

func (c Read8) String() string { return fmt.Sprintf("Read8($%08X)", c.Addr) }
func (c Read16) String() string { return fmt.Sprintf("Read16($%08X)", c.Addr) }
func (c Read32) String() string { return fmt.Sprintf("Read32($%08X)", c.Addr) }
func (c Read64) String() string { return fmt.Sprintf("Read64($%08X)", c.Addr) }
func (c Write8) String() string { return fmt.Sprintf("Write8($%08X, $%02X)", c.Addr, c.Value) }
func (c Write16) String() string { return fmt.Sprintf("Write16($%08X, $%04X)", c.Addr, c.Value) }
func (c Write32) String() string { return fmt.Sprintf("Write32($%08X, $%08X)", c.Addr, c.Value) }
func (c Write64) String() string {
	return fmt.Sprintf("Write64($%08X, $%016X)", c.Addr, c.Value)
}
func (Version) String() string { return "Version" }
func (c SaveState) String() string { return fmt.Sprintf("SaveState(%d)", c.Slot) }
func (c LoadState) String() string { return fmt.Sprintf("LoadState(%d)", c.Slot) }
func (Title) String() string { return "Title" }
func (ID) String() string { return "ID" }
func (UUID) String() string { return "UUID" }
func (GameVersion) String() string { return "GameVersion" }
func (Status) String() string { return "Status" }
func (Unimplemented) String() string { return "Unimplemented" }

func (Read8) isCommand() {}
func (Read16) isCommand() {}
func (Read32) isCommand() {}
func (Read64) isCommand() {}
func (Write8) isCommand() {}
func (Write16) isCommand() {}
func (Write32) isCommand() {}
func (Write64) isCommand() {}
func (Version) isCommand() {}
func (SaveState) isCommand() {}
func (LoadState) isCommand() {}
func (Title) isCommand() {}
func (ID) isCommand() {}
func (UUID) isCommand() {}
func (GameVersion) isCommand() {}
func (Status) isCommand() {}
func (Unimplemented) isCommand() {}

// Read returns the read command of the given width in bits (8, 16, 32, 64).
func Read(width int, addr uint32) (Command, error) {
	switch width {
	case 8:
		return Read8{Addr: addr}, nil
	case 16:
		return Read16{Addr: addr}, nil
	case 32:
		return Read32{Addr: addr}, nil
	case 64:
		return Read64{Addr: addr}, nil
	default:
		return nil, fmt.Errorf("unsupported read width %d", width)
	}
}

// Write returns the write command of the given width in bits. It fails when
// value does not fit in width bits.
func Write(width int, addr uint32, value uint64) (Command, error) {
	switch width {
	case 8:
		if value > 0xFF {
			return nil, fmt.Errorf("value %#x overflows 8 bits", value)
		}
		return Write8{Addr: addr, Value: uint8(value)}, nil
	case 16:
		if value > 0xFFFF {
			return nil, fmt.Errorf("value %#x overflows 16 bits", value)
		}
		return Write16{Addr: addr, Value: uint16(value)}, nil
	case 32:
		if value > 0xFFFFFFFF {
			return nil, fmt.Errorf("value %#x overflows 32 bits", value)
		}
		return Write32{Addr: addr, Value: uint32(value)}, nil
	case 64:
		return Write64{Addr: addr, Value: value}, nil
	default:
		return nil, fmt.Errorf("unsupported write width %d", width)
	}
}

// Address returns the guest memory address of a read or write command.
// ok is false for commands that take no address.
func Address(c Command) (addr uint32, ok bool) {
	switch c := c.(type) {
	case Read8:
		return c.Addr, true
	case Read16:
		return c.Addr, true
	case Read32:
		return c.Addr, true
	case Read64:
		return c.Addr, true
	case Write8:
		return c.Addr, true
	case Write16:
		return c.Addr, true
	case Write32:
		return c.Addr, true
	case Write64:
		return c.Addr, true
	}
	return 0, false
}
