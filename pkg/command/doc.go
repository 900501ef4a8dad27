// Package command defines the closed vocabulary of PINE requests and the
// results the emulator returns for each of them.
//
// Every request kind is its own struct type carrying exactly the fixed-width
// arguments it needs on the wire, so the encoded size of any Command is known
// from its type alone:
//
//	cmds := []command.Command{
//	    command.Title{},
//	    command.GameVersion{},
//	    command.Read32{Addr: 0x003667DC},
//	}
//
// Results mirror commands one to one. The Nth result of a batch belongs to
// the Nth command; nothing on the wire identifies a result, so the position
// is the only correlation:
//
//	switch r := results[2].(type) {
//	case command.Read32Result:
//	    fmt.Println(r.Value)
//	}
//
// # Opcodes
//
// Opcode values follow the PINE protocol table. Adding an operation means
// adding one Command type, one Result type and one arm in package codec.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package command
