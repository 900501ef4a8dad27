package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/bft-labs/pine/pkg/batch"
	"github.com/bft-labs/pine/pkg/codec"
	"github.com/bft-labs/pine/pkg/command"
	"github.com/bft-labs/pine/pkg/log"
)

// deadliner is implemented by transports that support I/O deadlines,
// such as net.Conn and *os.File.
type deadliner interface {
	SetDeadline(t time.Time) error
}

// Session is a connection to one emulator endpoint.
type Session struct {
	// sendMu serializes round trips. It guards req and resp.
	sendMu sync.Mutex
	req    []byte
	resp   []byte

	// mu guards state and cause.
	mu    sync.Mutex
	state State
	cause error

	conn  io.ReadWriteCloser
	addr  string
	codec codec.Codec
	opts  options
}

// Connect dials the endpoint of target and returns a connected Session.
func Connect(ctx context.Context, target Target, opts ...Option) (*Session, error) {
	o := newOptions(opts)

	ep, err := ResolveEndpoint(target, o.tcpHost)
	if err != nil {
		return nil, err
	}
	if ep.Network == "unix" {
		if _, err := os.Stat(ep.Address); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				err = ErrEndpointNotFound
			}
			return nil, &ConnectionError{Op: "dial", Addr: ep.Address, Err: err}
		}
	}

	if o.dialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.dialTimeout)
		defer cancel()
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, ep.Network, ep.Address)
	if err != nil {
		return nil, &ConnectionError{Op: "dial", Addr: ep.Address, Err: err}
	}

	s := newSession(conn, ep.Address, o)
	o.logger.Info("connected to emulator",
		log.String("network", ep.Network),
		log.String("addr", ep.Address),
	)
	return s, nil
}

// New wraps an already-open transport in a connected Session. The Session
// takes ownership of conn and closes it on Shutdown.
func New(conn io.ReadWriteCloser, opts ...Option) *Session {
	var addr string
	if nc, ok := conn.(net.Conn); ok && nc.RemoteAddr() != nil {
		addr = nc.RemoteAddr().String()
	}
	return newSession(conn, addr, newOptions(opts))
}

func newSession(conn io.ReadWriteCloser, addr string, o options) *Session {
	return &Session{
		conn:  conn,
		addr:  addr,
		codec: o.codec(),
		opts:  o,
		state: StateConnected,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Addr returns the endpoint address, or "" if unknown.
func (s *Session) Addr() string {
	return s.addr
}

// Send exchanges b with the emulator and returns one result per command, in
// batch order. On error no results are returned.
//
// b must not be modified until Send returns.
func (s *Session) Send(ctx context.Context, b *batch.Batch) ([]command.Result, error) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmds := b.Commands()
	if n := codec.RequestSize(cmds); n > s.opts.maxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrRequestTooLarge, n, s.opts.maxFrameSize)
	}
	s.req = s.codec.AppendRequest(s.req[:0], cmds)

	start := time.Now()
	payload, err := s.exchange(ctx, s.req)
	if err != nil {
		return nil, err
	}

	results, err := s.codec.DecodeResponse(cmds, payload)
	if err != nil {
		if errors.Is(err, codec.ErrBatchFailure) {
			s.opts.logger.Warn("emulator rejected batch",
				log.Int("commands", len(cmds)),
				log.String("addr", s.addr),
			)
			s.logCommands(cmds)
			return nil, err
		}
		s.fail(err)
		return nil, err
	}

	s.opts.logger.Debug("batch sent",
		log.Int("commands", len(cmds)),
		log.Bytes("request", s.req),
		log.Bytes("response", payload),
		log.Duration("elapsed", time.Since(start)),
	)
	s.logCommands(cmds)
	return results, nil
}

// logCommands writes one debug line per command of the last round trip.
func (s *Session) logCommands(cmds []command.Command) {
	for i, c := range cmds {
		fields := []log.Field{log.Int("index", i), log.Opcode(c.Opcode())}
		if addr, ok := command.Address(c); ok {
			fields = append(fields, log.Addr("guest_addr", addr))
		}
		s.opts.logger.Debug("batch command", fields...)
	}
}

// SendRaw writes a pre-encoded request frame and returns the response
// payload that follows the status byte. The returned slice is owned by the
// caller. A failure status yields codec.ErrBatchFailure.
func (s *Session) SendRaw(ctx context.Context, frame []byte) ([]byte, error) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(frame) > s.opts.maxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrRequestTooLarge, len(frame), s.opts.maxFrameSize)
	}

	payload, err := s.exchange(ctx, frame)
	if err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		err := &codec.ProtocolError{Op: "decode response", Reason: "missing status byte"}
		s.fail(err)
		return nil, err
	}
	if payload[0] != codec.StatusOK {
		return nil, codec.ErrBatchFailure
	}
	return slices.Clone(payload[1:]), nil
}

// Shutdown closes the transport. The Session cannot be reused.
func (s *Session) Shutdown() error {
	s.mu.Lock()
	if s.state == StateDisconnected {
		s.mu.Unlock()
		return ErrNotConnected
	}
	prev := s.state
	s.state = StateDisconnected
	s.mu.Unlock()

	// Closing without sendMu unblocks an in-flight Send.
	err := s.conn.Close()
	s.notify(prev, StateDisconnected, "shutdown")
	if err != nil {
		return &ConnectionError{Op: "close", Addr: s.addr, Err: err}
	}
	return nil
}

func (s *Session) ready() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateConnected:
		return nil
	case StateFailed:
		return fmt.Errorf("%w: %w", ErrSessionFailed, s.cause)
	default:
		return ErrNotConnected
	}
}

// exchange writes frame and reads one response frame, returning its payload.
// The payload aliases s.resp.
func (s *Session) exchange(ctx context.Context, frame []byte) ([]byte, error) {
	if d, ok := s.conn.(deadliner); ok {
		deadline, _ := s.deadline(ctx)
		switch err := d.SetDeadline(deadline); {
		case errors.Is(err, os.ErrNoDeadline):
		case err != nil:
			return nil, s.fail(&ConnectionError{Op: "set deadline", Addr: s.addr, Err: err})
		default:
			// Cancellation interrupts blocked I/O by expiring the deadline.
			fired := make(chan struct{})
			stop := context.AfterFunc(ctx, func() {
				d.SetDeadline(time.Unix(1, 0))
				close(fired)
			})
			defer func() {
				if !stop() {
					<-fired
				}
				d.SetDeadline(time.Time{})
			}()
		}
	}

	if err := writeFull(s.conn, frame); err != nil {
		return nil, s.fail(s.transportError(ctx, "write", err))
	}

	var header [codec.HeaderSize]byte
	if _, err := io.ReadFull(s.conn, header[:]); err != nil {
		return nil, s.fail(s.transportError(ctx, "read", err))
	}
	n, err := s.codec.PayloadLength(header[:])
	if err != nil {
		return nil, s.fail(err)
	}

	s.resp = slices.Grow(s.resp[:0], n)[:n]
	if _, err := io.ReadFull(s.conn, s.resp); err != nil {
		return nil, s.fail(s.transportError(ctx, "read", err))
	}
	return s.resp, nil
}

func (s *Session) deadline(ctx context.Context) (time.Time, bool) {
	deadline, ok := ctx.Deadline()
	if s.opts.ioTimeout > 0 {
		t := time.Now().Add(s.opts.ioTimeout)
		if !ok || t.Before(deadline) {
			return t, true
		}
	}
	return deadline, ok
}

func (s *Session) transportError(ctx context.Context, op string, err error) error {
	switch {
	case ctx.Err() != nil:
		err = ctx.Err()
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		err = ErrConnectionClosed
	}
	return &ConnectionError{Op: op, Addr: s.addr, Err: err}
}

// fail moves a connected session to StateFailed and returns err.
func (s *Session) fail(err error) error {
	s.mu.Lock()
	if s.state != StateConnected {
		s.mu.Unlock()
		return err
	}
	s.state = StateFailed
	s.cause = err
	s.mu.Unlock()

	s.opts.logger.Warn("session failed", log.String("addr", s.addr), log.Err(err))
	s.notify(StateConnected, StateFailed, err.Error())
	return err
}

func (s *Session) notify(prev, cur State, reason string) {
	s.opts.logger.Info("session state changed",
		log.String("from", prev.String()),
		log.String("to", cur.String()),
		log.String("reason", reason),
	)
	if s.opts.stateHandler != nil {
		s.opts.stateHandler.OnStateChange(prev, cur, reason)
	}
}

// writeFull writes all of p, retrying writers that report short writes
// without an error.
func writeFull(w io.Writer, p []byte) error {
	for len(p) > 0 {
		n, err := w.Write(p)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		p = p[n:]
	}
	return nil
}
