// Package batch provides the ordered command sequence sent in one PINE round trip.
//
// A Batch is built by the caller and handed to a session, which encodes it,
// exchanges one frame with the emulator and decodes one result per command.
// Results are matched to commands by position, so the insertion order of a
// Batch is part of its meaning.
//
// # Usage
//
// Build a batch and send it:
//
//	b := batch.New()
//	b.Add(command.Title{})
//	b.Add(command.Read32{Addr: 0x003667DC})
//
//	results, err := sess.Send(ctx, b)
//
// Reuse it for the next round trip:
//
//	b.Reset()
//	b.Add(command.Status{})
//
// A Batch is not safe for concurrent use. It must not be modified while a
// Send that uses it is in progress.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package batch
