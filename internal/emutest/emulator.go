// Package emutest provides an in-process emulator that speaks PINE, for
// testing clients without a running emulator.
package emutest

import (
	"encoding/binary"
	"errors"
	"io"
	"maps"
	"net"
	"sync"

	"github.com/bft-labs/pine/pkg/codec"
	"github.com/bft-labs/pine/pkg/command"
)

// Emulator answers PINE requests from a sparse little-endian memory map and
// a fixed set of game metadata. It is safe for concurrent use.
type Emulator struct {
	mu sync.Mutex

	codec    codec.Codec
	mem      map[uint32]byte
	states   map[uint8]map[uint32]byte
	info     Info
	failNext int
	raw      []rawResponse
	requests [][]command.Command
}

// Info is the metadata the emulator reports.
type Info struct {
	Title       string
	ID          string
	UUID        string
	GameVersion string
	Version     string
	Status      command.EmuStatus
}

// DefaultInfo is reported by a new Emulator.
var DefaultInfo = Info{
	Title:       "Okami",
	ID:          "SLUS_215.36",
	UUID:        "49ba2a6a",
	GameVersion: "1.00",
	Version:     "PCSX2 1.7.0",
	Status:      command.StatusRunning,
}

type rawResponse struct {
	frame []byte
	close bool
}

// New creates an emulator that frames responses with c.
func New(c codec.Codec) *Emulator {
	return &Emulator{
		codec:  c,
		mem:    make(map[uint32]byte),
		states: make(map[uint8]map[uint32]byte),
		info:   DefaultInfo,
	}
}

// SetInfo replaces the reported metadata.
func (e *Emulator) SetInfo(info Info) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.info = info
}

// SetMemory stores b at addr.
func (e *Emulator) SetMemory(addr uint32, b ...byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, v := range b {
		e.mem[addr+uint32(i)] = v
	}
}

// Memory returns n bytes starting at addr. Unset bytes read as zero.
func (e *Emulator) Memory(addr uint32, n int) []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]byte, n)
	for i := range out {
		out[i] = e.mem[addr+uint32(i)]
	}
	return out
}

// FailNext makes the next n batches receive a failure response.
func (e *Emulator) FailNext(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failNext += n
}

// QueueRaw makes the next response be frame verbatim instead of the real
// answer. With closeAfter the connection is closed after writing it.
func (e *Emulator) QueueRaw(frame []byte, closeAfter bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.raw = append(e.raw, rawResponse{frame: frame, close: closeAfter})
}

// Requests returns every decoded batch received so far.
func (e *Emulator) Requests() [][]command.Command {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([][]command.Command(nil), e.requests...)
}

// Pipe starts serving one end of an in-memory connection and returns the
// other end.
func (e *Emulator) Pipe() net.Conn {
	client, server := net.Pipe()
	go e.Serve(server)
	return client
}

// ServeListener accepts connections from l until it is closed, serving
// each on its own goroutine.
func (e *Emulator) ServeListener(l net.Listener) error {
	for {
		conn, err := l.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go e.Serve(conn)
	}
}

// Serve answers requests on conn until the peer closes it. conn is closed
// on return.
func (e *Emulator) Serve(conn io.ReadWriteCloser) error {
	defer conn.Close()

	var (
		header [codec.HeaderSize]byte
		buf    []byte
	)
	for {
		if _, err := io.ReadFull(conn, header[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		n, err := e.codec.PayloadLength(header[:])
		if err != nil {
			return err
		}
		payload := make([]byte, n)
		if _, err := io.ReadFull(conn, payload); err != nil {
			return err
		}

		resp, closeAfter := e.respond(buf[:0], payload)
		buf = resp
		if _, err := conn.Write(resp); err != nil {
			return err
		}
		if closeAfter {
			return nil
		}
	}
}

func (e *Emulator) respond(dst, payload []byte) ([]byte, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cmds, err := e.codec.DecodeRequest(payload)
	if err == nil {
		e.requests = append(e.requests, cmds)
	}

	if len(e.raw) > 0 {
		r := e.raw[0]
		e.raw = e.raw[1:]
		return append(dst, r.frame...), r.close
	}
	if err != nil || e.failNext > 0 {
		if e.failNext > 0 {
			e.failNext--
		}
		return e.codec.AppendFailure(dst), false
	}

	results := make([]command.Result, 0, len(cmds))
	for _, cmd := range cmds {
		r, ok := e.exec(cmd)
		if !ok {
			return e.codec.AppendFailure(dst), false
		}
		results = append(results, r)
	}
	resp, err := e.codec.AppendResponse(dst, results)
	if err != nil {
		return e.codec.AppendFailure(dst), false
	}
	return resp, false
}

func (e *Emulator) load(addr uint32, n int) uint64 {
	var b [8]byte
	for i := 0; i < n; i++ {
		b[i] = e.mem[addr+uint32(i)]
	}
	return binary.LittleEndian.Uint64(b[:])
}

func (e *Emulator) store(addr uint32, n int, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	for i := 0; i < n; i++ {
		e.mem[addr+uint32(i)] = b[i]
	}
}

// exec runs cmd against the emulator state. It reports false for commands
// the emulator refuses, which fail the whole batch.
func (e *Emulator) exec(cmd command.Command) (command.Result, bool) {
	switch c := cmd.(type) {
	case command.Read8:
		return command.Read8Result{Value: uint8(e.load(c.Addr, 1))}, true
	case command.Read16:
		return command.Read16Result{Value: uint16(e.load(c.Addr, 2))}, true
	case command.Read32:
		return command.Read32Result{Value: uint32(e.load(c.Addr, 4))}, true
	case command.Read64:
		return command.Read64Result{Value: e.load(c.Addr, 8)}, true
	case command.Write8:
		e.store(c.Addr, 1, uint64(c.Value))
		return command.Write8Result{}, true
	case command.Write16:
		e.store(c.Addr, 2, uint64(c.Value))
		return command.Write16Result{}, true
	case command.Write32:
		e.store(c.Addr, 4, uint64(c.Value))
		return command.Write32Result{}, true
	case command.Write64:
		e.store(c.Addr, 8, c.Value)
		return command.Write64Result{}, true
	case command.Version:
		return command.VersionResult{Version: e.info.Version}, true
	case command.Title:
		return command.TitleResult{Title: e.info.Title}, true
	case command.ID:
		return command.IDResult{ID: e.info.ID}, true
	case command.UUID:
		return command.UUIDResult{UUID: e.info.UUID}, true
	case command.GameVersion:
		return command.GameVersionResult{Version: e.info.GameVersion}, true
	case command.Status:
		return command.StatusResult{Status: e.info.Status}, true
	case command.SaveState:
		e.states[c.Slot] = maps.Clone(e.mem)
		return command.SaveStateResult{}, true
	case command.LoadState:
		saved, ok := e.states[c.Slot]
		if !ok {
			return nil, false
		}
		e.mem = maps.Clone(saved)
		return command.LoadStateResult{}, true
	default:
		return nil, false
	}
}
