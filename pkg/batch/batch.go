package batch

import (
	"slices"

	"github.com/bft-labs/pine/pkg/command"
)

// Batch is an ordered list of commands for a single round trip.
type Batch struct {
	commands []command.Command
}

// New creates a new empty batch.
func New() *Batch {
	return &Batch{}
}

// Of creates a batch holding cmds in order.
func Of(cmds ...command.Command) *Batch {
	b := &Batch{commands: make([]command.Command, 0, len(cmds))}
	for _, c := range cmds {
		b.Add(c)
	}
	return b
}

// Add appends a command to the end of the batch.
func (b *Batch) Add(cmd command.Command) {
	b.commands = append(b.commands, cmd)
}

// Len returns the number of commands in the batch.
func (b *Batch) Len() int {
	return len(b.commands)
}

// Empty returns true if the batch has no commands.
func (b *Batch) Empty() bool {
	return len(b.commands) == 0
}

// At returns the command at position i.
func (b *Batch) At(i int) command.Command {
	return b.commands[i]
}

// Commands returns the commands in order. The slice aliases the batch and
// must be treated as read-only; appending to it never affects the batch.
func (b *Batch) Commands() []command.Command {
	return slices.Clip(b.commands)
}

// Reset clears the batch for reuse, keeping its capacity.
func (b *Batch) Reset() {
	clear(b.commands)
	b.commands = b.commands[:0]
}
