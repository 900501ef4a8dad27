// Package cliparse turns shell text into PINE commands.
//
// A line holds one batch: commands separated by ';'. Each command is a
// word followed by whitespace-separated arguments:
//
//	read32 $003667DC; write8 0x10 255; title; save 1
//
// Numbers accept $hex, 0xhex or decimal.
package cliparse

import (
	"strconv"
	"strings"

	"github.com/bft-labs/pine/pkg/batch"
	"github.com/bft-labs/pine/pkg/command"
)

// Separator splits the commands of one batch.
const Separator = ";"

// ParseLine parses every command of line, in order, into a batch.
// An empty or blank line yields an empty batch.
func ParseLine(line string) (*batch.Batch, error) {
	b := batch.New()
	if strings.TrimSpace(line) == "" {
		return b, nil
	}
	for i, part := range strings.Split(line, Separator) {
		cmd, err := parseCommand(i, part)
		if err != nil {
			return nil, err
		}
		b.Add(cmd)
	}
	return b, nil
}

// ParseCommand parses a single command.
func ParseCommand(s string) (command.Command, error) {
	return parseCommand(0, s)
}

func parseCommand(index int, s string) (command.Command, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, &ParseError{Kind: ErrKindEmptyCommand, Index: index}
	}
	word := strings.ToLower(fields[0])
	args := fields[1:]

	argc := func(n int) error {
		if len(args) != n {
			return &ParseError{Kind: ErrKindArgumentCount, Value: word, Index: index}
		}
		return nil
	}

	switch word {
	case "read8", "read16", "read32", "read64", "r8", "r16", "r32", "r64":
		if err := argc(1); err != nil {
			return nil, err
		}
		addr, ok := ParseAddress(args[0])
		if !ok {
			return nil, &ParseError{Kind: ErrKindInvalidAddress, Value: args[0], Index: index}
		}
		return command.Read(width(word), addr)

	case "write8", "write16", "write32", "write64", "w8", "w16", "w32", "w64":
		if err := argc(2); err != nil {
			return nil, err
		}
		addr, ok := ParseAddress(args[0])
		if !ok {
			return nil, &ParseError{Kind: ErrKindInvalidAddress, Value: args[0], Index: index}
		}
		w := width(word)
		value, ok := ParseNumber(args[1], w)
		if !ok {
			return nil, &ParseError{Kind: ErrKindInvalidValue, Value: args[1], Index: index}
		}
		return command.Write(w, addr, value)

	case "save", "savestate", "load", "loadstate":
		if err := argc(1); err != nil {
			return nil, err
		}
		slot, ok := ParseNumber(args[0], 8)
		if !ok {
			return nil, &ParseError{Kind: ErrKindInvalidSlot, Value: args[0], Index: index}
		}
		if strings.HasPrefix(word, "save") {
			return command.SaveState{Slot: uint8(slot)}, nil
		}
		return command.LoadState{Slot: uint8(slot)}, nil
	}

	var cmd command.Command
	switch word {
	case "version":
		cmd = command.Version{}
	case "title":
		cmd = command.Title{}
	case "id":
		cmd = command.ID{}
	case "uuid":
		cmd = command.UUID{}
	case "gameversion":
		cmd = command.GameVersion{}
	case "status":
		cmd = command.Status{}
	default:
		return nil, &ParseError{Kind: ErrKindInvalidCommand, Value: fields[0], Index: index}
	}
	if err := argc(0); err != nil {
		return nil, err
	}
	return cmd, nil
}

// width extracts the bit width from a read/write command word.
func width(word string) int {
	w, _ := strconv.Atoi(strings.TrimLeft(word, "readwrit"))
	return w
}

// ParseAddress parses a 32-bit address in $XXXXXXXX, 0xXXXXXXXX, or decimal format.
func ParseAddress(s string) (uint32, bool) {
	v, ok := ParseNumber(s, 32)
	return uint32(v), ok
}

// ParseNumber parses an unsigned number of at most bits bits in $hex,
// 0xhex, or decimal format.
func ParseNumber(s string, bits int) (uint64, bool) {
	s = strings.TrimSpace(s)
	base := 10
	switch {
	case strings.HasPrefix(s, "$"):
		s, base = s[1:], 16
	case strings.HasPrefix(strings.ToLower(s), "0x"):
		s, base = s[2:], 16
	}
	v, err := strconv.ParseUint(s, base, bits)
	if err != nil {
		return 0, false
	}
	return v, true
}
