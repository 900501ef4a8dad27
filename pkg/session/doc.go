// Package session exchanges PINE batches with a running emulator.
//
// A Session owns one byte-stream connection to an emulator endpoint. Each
// Send encodes a batch into one request frame, writes it, reads exactly one
// response frame and decodes it into one result per command. Frames are
// never interleaved: concurrent Send calls on the same Session run one at
// a time.
//
// # Usage
//
// Connect to the default PCSX2 slot and read a value:
//
//	sess, err := session.Connect(ctx, session.Target{Name: "pcsx2"},
//		session.WithLogger(logger),
//	)
//	if err != nil {
//		return err
//	}
//	defer sess.Shutdown()
//
//	results, err := sess.Send(ctx, batch.Of(command.Read32{Addr: 0x003667DC}))
//
// # Endpoints
//
// On Linux the endpoint is a unix socket in $XDG_RUNTIME_DIR, on macOS in
// $TMPDIR, falling back to /tmp. The file is named "<name>.sock" for the
// default slot and "<name>.sock.<slot>" otherwise. On Windows, and with
// WithTCP, the slot is a TCP port.
//
// # Errors
//
// Transport failures are *ConnectionError and undecodable responses are
// *codec.ProtocolError; both leave the Session in StateFailed, after which
// Send returns ErrSessionFailed until Shutdown. A batch the emulator rejects
// returns codec.ErrBatchFailure and the Session stays usable.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package session
