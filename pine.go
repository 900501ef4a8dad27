// Package pine is a client for the PINE protocol, the IPC interface that
// PCSX2, RPCS3 and other emulators expose for reading and writing guest
// memory.
//
// Example usage:
//
//	sess, err := pine.Connect(ctx, pine.Target{Name: "pcsx2"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sess.Shutdown()
//
//	b := pine.NewBatch(command.Title{}, command.Read32{Addr: 0x003667DC})
//	results, err := sess.Send(ctx, b)
//
// The packages under pkg/ can be used directly for finer control:
// pkg/command holds the command and result types, pkg/codec the wire
// format, pkg/batch the request builder and pkg/session the connection.
package pine

import (
	"context"

	"github.com/bft-labs/pine/pkg/batch"
	"github.com/bft-labs/pine/pkg/command"
	"github.com/bft-labs/pine/pkg/session"
)

// Session is a connection to one emulator endpoint.
type Session = session.Session

// Target names an emulator endpoint. A zero Slot selects DefaultSlot.
type Target = session.Target

// Option configures a Session.
type Option = session.Option

// Batch is an ordered list of commands for one round trip.
type Batch = batch.Batch

// Command is one PINE request.
type Command = command.Command

// Result is the decoded answer to one Command.
type Result = command.Result

// DefaultSlot is the slot PCSX2 listens on unless configured otherwise.
const DefaultSlot = session.DefaultSlot

// DefaultName is the endpoint name used when Target.Name is empty.
const DefaultName = session.DefaultName

// Connect dials the endpoint of target.
func Connect(ctx context.Context, target Target, opts ...Option) (*Session, error) {
	return session.Connect(ctx, target, opts...)
}

// NewBatch returns a batch holding cmds in order.
func NewBatch(cmds ...Command) *Batch {
	return batch.Of(cmds...)
}
