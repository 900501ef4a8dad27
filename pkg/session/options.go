package session

import (
	"time"

	"github.com/bft-labs/pine/pkg/codec"
	"github.com/bft-labs/pine/pkg/log"
)

// DefaultDialTimeout bounds Connect when the context has no earlier deadline.
const DefaultDialTimeout = 5 * time.Second

// Option configures optional behavior of a Session.
type Option func(*options)

type options struct {
	logger          log.Logger
	stateHandler    StateHandler
	tcpHost         string
	dialTimeout     time.Duration
	ioTimeout       time.Duration
	inclusiveLength bool
	maxFrameSize    int
}

func defaultOptions() options {
	return options{
		logger:       log.Discard,
		dialTimeout:  DefaultDialTimeout,
		maxFrameSize: codec.DefaultMaxFrameSize,
	}
}

func newOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) codec() codec.Codec {
	return codec.Codec{InclusiveLength: o.inclusiveLength, MaxFrameSize: o.maxFrameSize}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithStateHandler sets a handler notified of every state transition.
func WithStateHandler(h StateHandler) Option {
	return func(o *options) {
		o.stateHandler = h
	}
}

// WithTCP makes Connect dial host:slot over TCP instead of the platform's
// named endpoint.
func WithTCP(host string) Option {
	return func(o *options) {
		o.tcpHost = host
	}
}

// WithDialTimeout bounds how long Connect waits. Zero disables the bound.
func WithDialTimeout(d time.Duration) Option {
	return func(o *options) {
		o.dialTimeout = d
	}
}

// WithIOTimeout bounds each round trip of Send. The earlier of this timeout
// and the context deadline applies. Zero disables the bound.
func WithIOTimeout(d time.Duration) Option {
	return func(o *options) {
		o.ioTimeout = d
	}
}

// WithInclusiveLength makes frame length prefixes count their own four
// bytes, as PCSX2 and RPCS3 do.
func WithInclusiveLength() Option {
	return func(o *options) {
		o.inclusiveLength = true
	}
}

// WithMaxFrameSize sets the largest frame accepted or sent, prefix included.
// Values <= 0 restore codec.DefaultMaxFrameSize.
func WithMaxFrameSize(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = codec.DefaultMaxFrameSize
		}
		o.maxFrameSize = n
	}
}
