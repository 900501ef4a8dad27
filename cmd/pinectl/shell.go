package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bft-labs/pine/internal/cliparse"
	"github.com/bft-labs/pine/pkg/codec"
	"github.com/bft-labs/pine/pkg/session"
)

const shellHelp = `Each line is one batch; separate commands with ';'.
  read8|read16|read32|read64 <addr>      r32 $003667DC
  write8|write16|write32|write64 <addr> <value>
  title  id  uuid  gameversion  version  status
  save <slot>  load <slot>
  help  quit`

func (a *app) shellCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive prompt sending one batch per line",
		Long:  "Interactive prompt sending one batch per line.\n\n" + shellHelp,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer sess.Shutdown()

			var in lineReader
			if f, ok := a.in.(*os.File); ok {
				in = newLineEditor(f, a.out, a.cfg.HistoryFile)
			} else {
				in = newScannerEditor(a.in, a.out)
			}
			defer in.Close()

			return a.repl(ctx, sess, in)
		},
	}
	cmd.Flags().StringVar(&a.cfg.HistoryFile, "history", a.cfg.HistoryFile, "shell history file (default: $HOME/.pine/history)")
	return cmd
}

// repl sends each parsed line until end of input. Parse errors and batch
// failures are reported and the loop continues; a broken session ends it.
func (a *app) repl(ctx context.Context, sess *session.Session, in lineReader) error {
	prompt := a.cfg.Name + "> "
	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := in.GetLine(prompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "help", "?":
			fmt.Fprintln(a.out, shellHelp)
			continue
		}

		b, err := cliparse.ParseLine(line)
		if err != nil {
			fmt.Fprintf(a.out, "error: %v\n", err)
			continue
		}
		results, err := sess.Send(ctx, b)
		switch {
		case err == nil:
			printResults(a.out, b.Commands(), results)
		case errors.Is(err, codec.ErrBatchFailure):
			fmt.Fprintln(a.out, "error: emulator rejected the batch")
		default:
			return err
		}
	}
}
