package codec

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/bft-labs/pine/pkg/command"
)

const (
	// HeaderSize is the size of the length prefix of every frame.
	HeaderSize = 4

	// StatusOK opens a successful response payload.
	StatusOK byte = 0x00

	// StatusFail opens a response payload for a batch the emulator rejected.
	// Any status other than StatusOK is treated as a failure.
	StatusFail byte = 0xFF

	// DefaultMaxFrameSize bounds frames in both directions (PINE MAX_IPC_SIZE).
	DefaultMaxFrameSize = 650000
)

// Codec encodes and decodes PINE frames. The zero value uses exclusive
// length prefixes and DefaultMaxFrameSize.
type Codec struct {
	// InclusiveLength makes the length prefix count its own four bytes.
	InclusiveLength bool

	// MaxFrameSize is the largest accepted frame, prefix included.
	// Zero means DefaultMaxFrameSize.
	MaxFrameSize int
}

func (c Codec) maxFrameSize() int {
	if c.MaxFrameSize > 0 {
		return c.MaxFrameSize
	}
	return DefaultMaxFrameSize
}

// beginFrame reserves the length prefix and returns the frame start offset.
func beginFrame(dst []byte) ([]byte, int) {
	start := len(dst)
	return append(dst, 0, 0, 0, 0), start
}

// endFrame fills in the length prefix of the frame starting at start.
func (c Codec) endFrame(dst []byte, start int) []byte {
	n := len(dst) - start
	if !c.InclusiveLength {
		n -= HeaderSize
	}
	binary.LittleEndian.PutUint32(dst[start:], uint32(n))
	return dst
}

// RequestSize returns the encoded frame size of cmds, prefix included.
func RequestSize(cmds []command.Command) int {
	n := HeaderSize
	for _, cmd := range cmds {
		n += 1 + command.ArgSize(cmd.Opcode())
	}
	return n
}

// AppendRequest appends the request frame for cmds to dst and returns the
// extended slice. Encoding never fails for well-formed commands.
func (c Codec) AppendRequest(dst []byte, cmds []command.Command) []byte {
	dst, start := beginFrame(dst)
	for _, cmd := range cmds {
		dst = appendCommand(dst, cmd)
	}
	return c.endFrame(dst, start)
}

func appendCommand(dst []byte, cmd command.Command) []byte {
	dst = append(dst, byte(cmd.Opcode()))
	le := binary.LittleEndian
	switch c := cmd.(type) {
	case command.Read8:
		dst = le.AppendUint32(dst, c.Addr)
	case command.Read16:
		dst = le.AppendUint32(dst, c.Addr)
	case command.Read32:
		dst = le.AppendUint32(dst, c.Addr)
	case command.Read64:
		dst = le.AppendUint32(dst, c.Addr)
	case command.Write8:
		dst = le.AppendUint32(dst, c.Addr)
		dst = append(dst, c.Value)
	case command.Write16:
		dst = le.AppendUint32(dst, c.Addr)
		dst = le.AppendUint16(dst, c.Value)
	case command.Write32:
		dst = le.AppendUint32(dst, c.Addr)
		dst = le.AppendUint32(dst, c.Value)
	case command.Write64:
		dst = le.AppendUint32(dst, c.Addr)
		dst = le.AppendUint64(dst, c.Value)
	case command.SaveState:
		dst = append(dst, c.Slot)
	case command.LoadState:
		dst = append(dst, c.Slot)
	}
	return dst
}

// PayloadLength interprets a length prefix and returns how many payload bytes
// follow it.
func (c Codec) PayloadLength(header []byte) (int, error) {
	const op = "read length"
	if len(header) < HeaderSize {
		return 0, newProtocolError(op, 0, "header has %d bytes, need %d", len(header), HeaderSize)
	}
	n := int64(binary.LittleEndian.Uint32(header))
	if c.InclusiveLength {
		if n < HeaderSize {
			return 0, newProtocolError(op, 0, "declared frame length %d is shorter than its header", n)
		}
		n -= HeaderSize
	}
	if n+HeaderSize > int64(c.maxFrameSize()) {
		return 0, newProtocolError(op, 0, "declared payload length %d exceeds frame limit %d", n, c.maxFrameSize())
	}
	return int(n), nil
}

// DecodeFrame checks that the length prefix of frame exactly bounds the rest
// of the buffer and decodes the payload against cmds.
func (c Codec) DecodeFrame(cmds []command.Command, frame []byte) ([]command.Result, error) {
	payload, err := c.splitFrame(frame)
	if err != nil {
		return nil, err
	}
	return c.DecodeResponse(cmds, payload)
}

func (c Codec) splitFrame(frame []byte) ([]byte, error) {
	const op = "split frame"
	n, err := c.PayloadLength(frame)
	if err != nil {
		return nil, err
	}
	avail := len(frame) - HeaderSize
	if n > avail {
		return nil, newProtocolError(op, avail, "declared payload length %d, only %d bytes available", n, avail)
	}
	if n < avail {
		return nil, newProtocolError(op, n, "%d bytes after declared payload length %d", avail-n, n)
	}
	return frame[HeaderSize:], nil
}

// DecodeResponse decodes a response payload (the bytes after the length
// prefix) into one result per command, in command order. A failure status
// yields ErrBatchFailure and no results; any framing mismatch yields a
// *ProtocolError.
//
// An empty batch also accepts an empty payload, as some emulators omit the
// status byte when there is nothing to report.
func (c Codec) DecodeResponse(cmds []command.Command, payload []byte) ([]command.Result, error) {
	if len(cmds) == 0 && len(payload) == 0 {
		return []command.Result{}, nil
	}
	d := decoder{op: "decode response", buf: payload}
	status, err := d.u8()
	if err != nil {
		return nil, err
	}
	if status != StatusOK {
		return nil, ErrBatchFailure
	}

	results := make([]command.Result, 0, len(cmds))
	for _, cmd := range cmds {
		r, err := d.result(cmd.Opcode())
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	if d.remaining() != 0 {
		return nil, newProtocolError(d.op, d.off, "%d unconsumed bytes after %d results", d.remaining(), len(cmds))
	}
	return results, nil
}

// decoder walks a payload and never reads past its end.
type decoder struct {
	op  string
	buf []byte
	off int
}

func (d *decoder) remaining() int { return len(d.buf) - d.off }

func (d *decoder) take(n int) ([]byte, error) {
	if n > d.remaining() {
		return nil, newProtocolError(d.op, d.off, "need %d bytes, %d left", n, d.remaining())
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b, nil
}

func (d *decoder) u8() (uint8, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *decoder) u16() (uint16, error) {
	b, err := d.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (d *decoder) u32() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *decoder) u64() (uint64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// str reads a u32 length and that many bytes of text. A single trailing NUL
// terminator is dropped.
func (d *decoder) str() (string, error) {
	start := d.off
	n, err := d.u32()
	if err != nil {
		return "", err
	}
	if int64(n) > int64(d.remaining()) {
		return "", newProtocolError(d.op, start, "string length %d, %d bytes left", n, d.remaining())
	}
	b, _ := d.take(int(n))
	if len(b) > 0 && b[len(b)-1] == 0 {
		b = b[:len(b)-1]
	}
	if !utf8.Valid(b) {
		return "", newProtocolError(d.op, start, "string is not valid UTF-8")
	}
	return string(b), nil
}

func (d *decoder) result(op command.Opcode) (command.Result, error) {
	switch op {
	case command.OpRead8:
		v, err := d.u8()
		return command.Read8Result{Value: v}, err
	case command.OpRead16:
		v, err := d.u16()
		return command.Read16Result{Value: v}, err
	case command.OpRead32:
		v, err := d.u32()
		return command.Read32Result{Value: v}, err
	case command.OpRead64:
		v, err := d.u64()
		return command.Read64Result{Value: v}, err
	case command.OpWrite8:
		return command.Write8Result{}, nil
	case command.OpWrite16:
		return command.Write16Result{}, nil
	case command.OpWrite32:
		return command.Write32Result{}, nil
	case command.OpWrite64:
		return command.Write64Result{}, nil
	case command.OpVersion:
		s, err := d.str()
		return command.VersionResult{Version: s}, err
	case command.OpSaveState:
		return command.SaveStateResult{}, nil
	case command.OpLoadState:
		return command.LoadStateResult{}, nil
	case command.OpTitle:
		s, err := d.str()
		return command.TitleResult{Title: s}, err
	case command.OpID:
		s, err := d.str()
		return command.IDResult{ID: s}, err
	case command.OpUUID:
		s, err := d.str()
		return command.UUIDResult{UUID: s}, err
	case command.OpGameVersion:
		s, err := d.str()
		return command.GameVersionResult{Version: s}, err
	case command.OpStatus:
		v, err := d.u32()
		return command.StatusResult{Status: command.ParseEmuStatus(v)}, err
	case command.OpUnimplemented:
		return command.UnimplementedResult{}, nil
	default:
		return nil, newProtocolError(d.op, d.off, "no result shape for %s", op)
	}
}
