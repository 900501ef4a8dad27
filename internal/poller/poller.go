// Package poller sends the same batch to an emulator on an interval and
// reports values that changed, reconnecting when the session breaks.
package poller

import (
	"context"
	"errors"
	"time"

	"github.com/bft-labs/pine/pkg/batch"
	"github.com/bft-labs/pine/pkg/codec"
	"github.com/bft-labs/pine/pkg/command"
	"github.com/bft-labs/pine/pkg/log"
	"github.com/bft-labs/pine/pkg/session"
)

// Sender is the part of a session the poller uses.
// *session.Session satisfies this interface.
type Sender interface {
	Send(ctx context.Context, b *batch.Batch) ([]command.Result, error)
	Shutdown() error
}

// DialFunc opens a new session.
type DialFunc func(ctx context.Context) (Sender, error)

// Handler receives each poll whose results differ from the previous one.
// changed lists the positions that differ; on the first poll it lists all.
type Handler interface {
	OnResults(results []command.Result, changed []int) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(results []command.Result, changed []int) error

// OnResults calls f.
func (f HandlerFunc) OnResults(results []command.Result, changed []int) error {
	return f(results, changed)
}

// Config contains configuration for the poll loop.
type Config struct {
	Interval       time.Duration
	BackoffInitial time.Duration
	BackoffMax     time.Duration

	// Once stops after the first successful poll.
	Once bool
}

// Poller runs the poll loop for one batch.
type Poller struct {
	config  Config
	dial    DialFunc
	batch   *batch.Batch
	handler Handler
	logger  log.Logger

	sess Sender
	last []command.Result
}

// New creates a poller. A nil logger discards output.
func New(config Config, dial DialFunc, b *batch.Batch, handler Handler, logger log.Logger) *Poller {
	if config.BackoffInitial <= 0 {
		config.BackoffInitial = DefaultBackoffInitial
	}
	if config.BackoffMax <= 0 {
		config.BackoffMax = DefaultBackoffMax
	}
	if logger == nil {
		logger = log.Discard
	}
	return &Poller{
		config:  config,
		dial:    dial,
		batch:   b,
		handler: handler,
		logger:  logger,
	}
}

// Run polls until ctx is canceled, the handler fails, a poll fails for a
// reason a new session cannot fix, or, with Once, after
// the first successful poll. The session is shut down on return.
func (p *Poller) Run(ctx context.Context) error {
	defer p.disconnect()

	backoff := newBackoff(p.config.BackoffInitial, p.config.BackoffMax)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if p.sess == nil {
			sess, err := p.dial(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				p.logger.Warn("connect failed",
					log.Err(err),
					log.Duration("retry_in", backoff.Current()),
				)
				if err := backoff.Wait(ctx); err != nil {
					return err
				}
				continue
			}
			p.sess = sess
			backoff.Reset()
		}

		results, err := p.sess.Send(ctx, p.batch)
		switch {
		case err == nil:
		case ctx.Err() != nil:
			return ctx.Err()
		case errors.Is(err, codec.ErrBatchFailure):
			p.logger.Warn("poll rejected by emulator", log.Int("commands", p.batch.Len()))
			if err := sleep(ctx, p.config.Interval); err != nil {
				return err
			}
			continue
		case !reconnectable(err):
			return err
		default:
			p.logger.Warn("poll failed, reconnecting",
				log.Err(err),
				log.Duration("retry_in", backoff.Current()),
			)
			p.disconnect()
			if err := backoff.Wait(ctx); err != nil {
				return err
			}
			continue
		}

		if changed := diff(p.last, results); len(changed) > 0 {
			if err := p.handler.OnResults(results, changed); err != nil {
				return err
			}
		}
		p.last = results

		if p.config.Once {
			return nil
		}
		if err := sleep(ctx, p.config.Interval); err != nil {
			return err
		}
	}
}

func (p *Poller) disconnect() {
	if p.sess == nil {
		return
	}
	if err := p.sess.Shutdown(); err != nil {
		p.logger.Debug("shutdown", log.Err(err))
	}
	p.sess = nil
}

// reconnectable reports whether err means the session is broken and a new
// one may succeed. Anything else, such as an oversized batch, would fail
// again on every session.
func reconnectable(err error) bool {
	return errors.Is(err, session.ErrConnection) ||
		errors.Is(err, codec.ErrProtocol) ||
		errors.Is(err, session.ErrSessionFailed) ||
		errors.Is(err, session.ErrNotConnected)
}

// diff returns the positions where cur differs from prev. With no previous
// poll every position counts as changed.
func diff(prev, cur []command.Result) []int {
	var changed []int
	for i, r := range cur {
		if prev == nil || i >= len(prev) || prev[i] != r {
			changed = append(changed, i)
		}
	}
	return changed
}
