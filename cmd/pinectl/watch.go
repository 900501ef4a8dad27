package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bft-labs/pine/internal/poller"
	"github.com/bft-labs/pine/internal/snapshot"
	"github.com/bft-labs/pine/pkg/batch"
	"github.com/bft-labs/pine/pkg/command"
	"github.com/bft-labs/pine/pkg/log"
)

func (a *app) watchCommand() *cobra.Command {
	var once bool
	cmd := &cobra.Command{
		Use:   "watch <8|16|32|64> <addr>...",
		Short: "Poll addresses and print values as they change",
		Long: `Poll addresses and print values as they change.

The same batch is sent every --poll interval. When the emulator goes away
pinectl reconnects with exponential backoff. With --snapshot the latest
values are also written atomically to a JSON file.`,
		Example: "  pinectl watch 32 $003667DC --poll 100ms --snapshot /tmp/okami.json",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := readBatch(args[0], args[1:])
			if err != nil {
				return err
			}
			return a.watch(cmd.Context(), b, once)
		},
	}
	cmd.Flags().DurationVar(&a.cfg.PollInterval, "poll", a.cfg.PollInterval, "poll interval")
	cmd.Flags().StringVar(&a.cfg.SnapshotPath, "snapshot", a.cfg.SnapshotPath, "write the latest values to this JSON file")
	cmd.Flags().BoolVar(&once, "once", false, "print the current values and exit")
	return cmd
}

func (a *app) watch(ctx context.Context, b *batch.Batch, once bool) error {
	var (
		writer *snapshot.FileWriter
		addr   string
		polls  uint64
	)
	if a.cfg.SnapshotPath != "" {
		writer = snapshot.NewFileWriter(a.cfg.SnapshotPath)
	}

	dial := func(ctx context.Context) (poller.Sender, error) {
		sess, err := a.connect(ctx)
		if err != nil {
			return nil, err
		}
		addr = sess.Addr()
		return sess, nil
	}

	cmds := b.Commands()
	handler := poller.HandlerFunc(func(results []command.Result, changed []int) error {
		polls++
		stamp := time.Now().Format("15:04:05.000")
		for _, i := range changed {
			fmt.Fprintf(a.out, "%s %s\n", stamp, describe(cmds[i], results[i]))
		}
		if writer == nil {
			return nil
		}
		snap, err := snapshot.Build(cmds, results, changed)
		if err != nil {
			return err
		}
		snap.Endpoint = addr
		snap.Polls = polls
		if err := writer.Save(ctx, snap); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		return nil
	})

	p := poller.New(poller.Config{
		Interval: a.cfg.PollInterval,
		Once:     once,
	}, dial, b, handler, a.logger)

	a.logger.Info("watching",
		log.Int("commands", b.Len()),
		log.Duration("interval", a.cfg.PollInterval),
	)
	err := p.Run(ctx)
	if ctx.Err() != nil {
		// interrupted by signal
		return nil
	}
	return err
}
