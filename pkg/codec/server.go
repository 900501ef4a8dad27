package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/bft-labs/pine/pkg/command"
)

// DecodeRequest parses a request payload (the bytes after the length prefix)
// back into commands. It is the emulator side of AppendRequest.
func (c Codec) DecodeRequest(payload []byte) ([]command.Command, error) {
	d := decoder{op: "decode request", buf: payload}
	var cmds []command.Command
	for d.remaining() > 0 {
		at := d.off
		b, _ := d.u8()
		op := command.Opcode(b)
		if !op.Known() {
			return nil, newProtocolError(d.op, at, "unknown opcode 0x%02X", b)
		}
		cmd, err := d.command(op)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

func (d *decoder) command(op command.Opcode) (command.Command, error) {
	if n := command.ArgSize(op); n > d.remaining() {
		return nil, newProtocolError(d.op, d.off, "%s needs %d argument bytes, %d left", op, n, d.remaining())
	}
	le := binary.LittleEndian
	switch op {
	case command.OpRead8, command.OpRead16, command.OpRead32, command.OpRead64:
		addr, _ := d.u32()
		return command.Read(8*command.ResultSize(op), addr)
	case command.OpWrite8:
		b, _ := d.take(5)
		return command.Write8{Addr: le.Uint32(b), Value: b[4]}, nil
	case command.OpWrite16:
		b, _ := d.take(6)
		return command.Write16{Addr: le.Uint32(b), Value: le.Uint16(b[4:])}, nil
	case command.OpWrite32:
		b, _ := d.take(8)
		return command.Write32{Addr: le.Uint32(b), Value: le.Uint32(b[4:])}, nil
	case command.OpWrite64:
		b, _ := d.take(12)
		return command.Write64{Addr: le.Uint32(b), Value: le.Uint64(b[4:])}, nil
	case command.OpSaveState:
		slot, _ := d.u8()
		return command.SaveState{Slot: slot}, nil
	case command.OpLoadState:
		slot, _ := d.u8()
		return command.LoadState{Slot: slot}, nil
	case command.OpVersion:
		return command.Version{}, nil
	case command.OpTitle:
		return command.Title{}, nil
	case command.OpID:
		return command.ID{}, nil
	case command.OpUUID:
		return command.UUID{}, nil
	case command.OpGameVersion:
		return command.GameVersion{}, nil
	case command.OpStatus:
		return command.Status{}, nil
	default:
		return command.Unimplemented{}, nil
	}
}

// AppendResponse appends a successful response frame carrying results.
// Strings are written NUL-terminated, as PCSX2 does.
func (c Codec) AppendResponse(dst []byte, results []command.Result) ([]byte, error) {
	dst, start := beginFrame(dst)
	dst = append(dst, StatusOK)
	le := binary.LittleEndian
	for i, r := range results {
		switch r := r.(type) {
		case command.Read8Result:
			dst = append(dst, r.Value)
		case command.Read16Result:
			dst = le.AppendUint16(dst, r.Value)
		case command.Read32Result:
			dst = le.AppendUint32(dst, r.Value)
		case command.Read64Result:
			dst = le.AppendUint64(dst, r.Value)
		case command.StatusResult:
			dst = le.AppendUint32(dst, uint32(r.Status))
		case command.VersionResult, command.TitleResult, command.IDResult,
			command.UUIDResult, command.GameVersionResult:
			s, _ := command.Text(r)
			dst = le.AppendUint32(dst, uint32(len(s)+1))
			dst = append(dst, s...)
			dst = append(dst, 0)
		case nil:
			return nil, fmt.Errorf("result %d is nil", i)
		}
	}
	return c.endFrame(dst, start), nil
}

// AppendFailure appends a response frame that fails the whole batch.
func (c Codec) AppendFailure(dst []byte) []byte {
	dst, start := beginFrame(dst)
	dst = append(dst, StatusFail)
	return c.endFrame(dst, start)
}
