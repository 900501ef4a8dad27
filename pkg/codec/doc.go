// Package codec maps PINE command batches to wire frames and response frames
// back to typed results.
//
// A frame is a 4-byte little-endian length followed by a payload:
//
//	[0..4)  length  u32 LE
//	[4..)   payload
//
// A request payload is the concatenation of each command's opcode byte and
// its fixed-width little-endian arguments. A response payload starts with a
// status byte; when it is StatusOK the per-command results follow in batch
// order, otherwise the whole batch failed and nothing else is decoded.
//
// Decoding is context dependent: the shape of a result is known only from
// the command that produced it, so the decoder always takes the batch that
// was sent:
//
//	frame := codec.Codec{}.AppendRequest(nil, cmds)
//	// ... exchange frame with the emulator ...
//	results, err := codec.Codec{}.DecodeFrame(cmds, response)
//	switch {
//	case errors.Is(err, codec.ErrBatchFailure):
//	    // the emulator rejected the batch
//	case errors.Is(err, codec.ErrProtocol):
//	    // the stream is out of sync
//	}
//
// # Length prefix
//
// By default the length counts the bytes after the prefix. PCSX2 and RPCS3
// count the whole frame including the prefix; use WithInclusiveLength to talk
// to them.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package codec
