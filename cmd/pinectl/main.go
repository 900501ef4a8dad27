package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bft-labs/pine/internal/cliconfig"
	"github.com/bft-labs/pine/internal/endpointwait"
	"github.com/bft-labs/pine/pkg/log"
	"github.com/bft-labs/pine/pkg/session"
)

const longHelp = `Talk to a running emulator over PINE.

pinectl connects to PCSX2, RPCS3 or any other emulator that exposes a PINE
endpoint, sends batches of memory reads and writes, and prints the results.

Configuration is read from $HOME/.pine/config.toml, then PINE_* environment
variables, then flags; later sources win.`

var exampleUsage = strings.TrimSpace(`
  pinectl info
  pinectl read 32 $003667DC
  pinectl --name rpcs3 --slot 28012 watch 8 $10 $11
  pinectl --tcp --host 192.168.1.20 shell
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// app carries resolved configuration to subcommands.
type app struct {
	cfg     cliconfig.Config
	cfgPath string

	zl     zerolog.Logger
	logger log.Logger

	out io.Writer
	in  io.Reader
}

func main() {
	a := &app{
		cfg: cliconfig.DefaultConfig(),
		out: os.Stdout,
		in:  os.Stdin,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := a.rootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		a.zl.Error().Err(err).Msg("pinectl")
		os.Exit(1)
	}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "pinectl",
		Short:         "Read and write emulator memory over PINE",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}
	// Errors before PersistentPreRunE still need somewhere to go.
	a.zl = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	f := root.PersistentFlags()
	f.StringVar(&a.cfgPath, "config", "", "path to config file (default: $HOME/.pine/config.toml)")
	f.StringVar(&a.cfg.Name, "name", a.cfg.Name, "emulator endpoint name")
	f.IntVar(&a.cfg.Slot, "slot", a.cfg.Slot, "emulator slot (TCP port on windows and with --tcp)")
	f.BoolVar(&a.cfg.TCP, "tcp", a.cfg.TCP, "connect over TCP instead of the platform endpoint")
	f.StringVar(&a.cfg.Host, "host", a.cfg.Host, "host to dial with --tcp")
	f.DurationVar(&a.cfg.DialTimeout, "dial-timeout", a.cfg.DialTimeout, "connect timeout")
	f.DurationVar(&a.cfg.IOTimeout, "io-timeout", a.cfg.IOTimeout, "timeout for each round trip")
	f.BoolVar(&a.cfg.InclusiveLength, "inclusive-length", a.cfg.InclusiveLength, "length prefix counts its own 4 bytes (PCSX2, RPCS3)")
	f.IntVar(&a.cfg.MaxFrameSize, "max-frame-size", a.cfg.MaxFrameSize, "largest frame sent or accepted, in bytes")
	f.BoolVar(&a.cfg.Wait, "wait", a.cfg.Wait, "wait for the endpoint to appear before connecting")
	f.DurationVar(&a.cfg.WaitTimeout, "wait-timeout", a.cfg.WaitTimeout, "how long --wait waits (0 waits forever)")
	f.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level (debug, info, warn, error)")
	f.StringVar(&a.cfg.LogFormat, "log-format", a.cfg.LogFormat, "log format (auto, console, json)")

	root.AddCommand(
		a.infoCommand(),
		a.readCommand(),
		a.writeCommand(),
		a.stateCommand(),
		a.statusCommand(),
		a.watchCommand(),
		a.shellCommand(),
	)
	return root
}

// load applies file, environment and flag configuration in precedence
// order and builds the logger.
func (a *app) load(cmd *cobra.Command) error {
	cfgFile := a.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	// Build set of changed flags
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&a.cfg, fc, changed); err != nil {
			return err
		}
	}

	// Apply environment variables (PINE_*)
	// These override file config but are overridden by flags (checked via changed map)
	if err := cliconfig.ApplyEnvConfig(&a.cfg, changed); err != nil {
		return err
	}

	if err := a.cfg.Validate(); err != nil {
		return err
	}

	a.zl = newZerolog(os.Stderr, a.cfg)
	a.logger = log.NewZerologAdapterWithLogger(a.zl)
	a.zl.Debug().Interface("config", a.cfg).Msg("configuration")
	return nil
}

// newZerolog builds the CLI logger. auto picks console output on a terminal
// and JSON otherwise.
func newZerolog(f *os.File, cfg cliconfig.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	format := log.FormatJSON
	switch cfg.LogFormat {
	case cliconfig.LogFormatConsole:
		format = log.FormatConsole
	case cliconfig.LogFormatAuto:
		if term.IsTerminal(int(f.Fd())) {
			format = log.FormatConsole
		}
	}
	return log.NewZerologAdapter(f, format, level).Logger()
}

// connect waits for the endpoint if configured and opens a session.
func (a *app) connect(ctx context.Context) (*session.Session, error) {
	if a.cfg.Wait {
		ep, err := session.ResolveEndpoint(a.cfg.Target(), a.cfg.TCPHost())
		if err != nil {
			return nil, err
		}
		if ep.Network == "unix" {
			wctx := ctx
			if a.cfg.WaitTimeout > 0 {
				var cancel context.CancelFunc
				wctx, cancel = context.WithTimeout(ctx, a.cfg.WaitTimeout)
				defer cancel()
			}
			if err := endpointwait.Wait(wctx, ep.Address, a.logger); err != nil {
				if errors.Is(err, context.DeadlineExceeded) {
					return nil, fmt.Errorf("%s did not appear within %v", ep.Address, a.cfg.WaitTimeout)
				}
				return nil, err
			}
		}
	}
	return session.Connect(ctx, a.cfg.Target(), a.cfg.SessionOptions(a.logger)...)
}
