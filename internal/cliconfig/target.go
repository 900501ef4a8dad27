package cliconfig

import (
	"github.com/bft-labs/pine/pkg/log"
	"github.com/bft-labs/pine/pkg/session"
)

// Target returns the emulator endpoint named by the configuration.
func (c Config) Target() session.Target {
	return session.Target{Name: c.Name, Slot: uint16(c.Slot)}
}

// TCPHost returns the host to dial over TCP, or "" for the platform's
// named endpoint.
func (c Config) TCPHost() string {
	if c.TCP {
		return c.Host
	}
	return ""
}

// SessionOptions translates the configuration into session options.
func (c Config) SessionOptions(logger log.Logger) []session.Option {
	opts := []session.Option{
		session.WithLogger(logger),
		session.WithDialTimeout(c.DialTimeout),
		session.WithIOTimeout(c.IOTimeout),
		session.WithMaxFrameSize(c.MaxFrameSize),
	}
	if c.TCP {
		opts = append(opts, session.WithTCP(c.Host))
	}
	if c.InclusiveLength {
		opts = append(opts, session.WithInclusiveLength())
	}
	return opts
}
