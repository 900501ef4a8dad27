package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bft-labs/pine/internal/cliparse"
	"github.com/bft-labs/pine/pkg/batch"
	"github.com/bft-labs/pine/pkg/command"
)

// exchange connects, sends b once and prints the results.
func (a *app) exchange(cmd *cobra.Command, b *batch.Batch) error {
	ctx := cmd.Context()
	sess, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer sess.Shutdown()

	results, err := sess.Send(ctx, b)
	if err != nil {
		return err
	}
	printResults(a.out, b.Commands(), results)
	return nil
}

func (a *app) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the running game's title, serial, CRC, version and emulator status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.exchange(cmd, batch.Of(
				command.Title{},
				command.ID{},
				command.UUID{},
				command.GameVersion{},
				command.Version{},
				command.Status{},
			))
		},
	}
}

func (a *app) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the emulator is running, paused or shut down",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.exchange(cmd, batch.Of(command.Status{}))
		},
	}
}

func (a *app) readCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "read <8|16|32|64> <addr>...",
		Short:   "Read one or more values of the same width in a single batch",
		Example: "  pinectl read 32 $003667DC 0x00366800",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := readBatch(args[0], args[1:])
			if err != nil {
				return err
			}
			return a.exchange(cmd, b)
		},
	}
}

func (a *app) writeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "write <8|16|32|64> <addr> <value>",
		Short:   "Write one value",
		Example: "  pinectl write 8 $00100000 0xFF",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			width, err := parseWidth(args[0])
			if err != nil {
				return err
			}
			addr, ok := cliparse.ParseAddress(args[1])
			if !ok {
				return fmt.Errorf("invalid address %q", args[1])
			}
			value, ok := cliparse.ParseNumber(args[2], width)
			if !ok {
				return fmt.Errorf("invalid %d-bit value %q", width, args[2])
			}
			c, err := command.Write(width, addr, value)
			if err != nil {
				return err
			}
			return a.exchange(cmd, batch.Of(c))
		},
	}
}

func (a *app) stateCommand() *cobra.Command {
	state := &cobra.Command{
		Use:   "state",
		Short: "Save or load emulator save states",
	}
	slotArg := func(s string) (uint8, error) {
		v, ok := cliparse.ParseNumber(s, 8)
		if !ok {
			return 0, fmt.Errorf("invalid slot %q", s)
		}
		return uint8(v), nil
	}
	state.AddCommand(
		&cobra.Command{
			Use:   "save <slot>",
			Short: "Save the emulator state to a slot",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				slot, err := slotArg(args[0])
				if err != nil {
					return err
				}
				return a.exchange(cmd, batch.Of(command.SaveState{Slot: slot}))
			},
		},
		&cobra.Command{
			Use:   "load <slot>",
			Short: "Load the emulator state from a slot",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				slot, err := slotArg(args[0])
				if err != nil {
					return err
				}
				return a.exchange(cmd, batch.Of(command.LoadState{Slot: slot}))
			},
		},
	)
	return state
}

func parseWidth(s string) (int, error) {
	w, err := strconv.Atoi(s)
	if err != nil || (w != 8 && w != 16 && w != 32 && w != 64) {
		return 0, fmt.Errorf("width must be 8, 16, 32 or 64, got %q", s)
	}
	return w, nil
}

// readBatch builds one read per address.
func readBatch(widthArg string, addrs []string) (*batch.Batch, error) {
	width, err := parseWidth(widthArg)
	if err != nil {
		return nil, err
	}
	b := batch.New()
	for _, s := range addrs {
		addr, ok := cliparse.ParseAddress(s)
		if !ok {
			return nil, fmt.Errorf("invalid address %q", s)
		}
		c, err := command.Read(width, addr)
		if err != nil {
			return nil, err
		}
		b.Add(c)
	}
	return b, nil
}
