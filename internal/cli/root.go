package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	apperrors "github.com/kbukum/reqkit/errors"
	"github.com/kbukum/reqkit/httpclient"
	"github.com/kbukum/reqkit/logger"
	"github.com/kbukum/reqkit/observability"
	"github.com/kbukum/reqkit/version"
)

// Exit codes. Transport failures exit with their curl-compatible code.
const (
	ExitSuccess     = 0
	ExitError       = 1
	ExitConfigError = 3
	ExitHTTPError   = 22
	ExitUsageError  = 64
)

// exitError carries a process exit code through cobra.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// app holds state shared by the subcommands of one invocation.
type app struct {
	configFile string
	envFile    string
	debug      bool

	cfg      *Config
	log      *logger.Logger
	shutdown []func(context.Context) error
}

// NewRootCommand builds the reqkit command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{})
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "reqkit",
		Short: "Send HTTP and JSON-RPC requests from the command line",
		Long: `reqkit sends single HTTP requests and JSON-RPC calls with form or JSON
payloads, client certificates and basic authentication.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default: ./reqkit.yml)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", ".env file to load")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	root.AddCommand(newSendCommand(a))
	root.AddCommand(newRPCCommand(a))
	root.AddCommand(newVersionCommand())
	return root
}

// setup loads configuration and starts the optional exporters.
func (a *app) setup(ctx context.Context) error {
	cfg, err := LoadConfig(a.configFile, a.envFile)
	if err != nil {
		return &exitError{code: ExitConfigError, err: err}
	}
	if a.debug {
		cfg.Debug = true
		cfg.Logger.Level = "debug"
	}
	a.cfg = cfg
	a.log = logger.Init(cfg.Logger, cfg.Name)

	if cfg.Tracing.Enabled {
		tc := observability.DefaultTracerConfig(cfg.Name)
		tc.ServiceVersion = version.GetShortVersion()
		tc.Endpoint = cfg.Tracing.Endpoint
		tc.Insecure = cfg.Tracing.Insecure
		tc.SampleRate = cfg.Tracing.SampleRate
		tp, err := observability.InitTracer(ctx, tc)
		if err != nil {
			return &exitError{code: ExitConfigError, err: err}
		}
		a.shutdown = append(a.shutdown, tp.Shutdown)
	}

	if cfg.Metrics.Enabled {
		mc := observability.DefaultMeterConfig(cfg.Name)
		mc.ServiceVersion = version.GetShortVersion()
		mc.Endpoint = cfg.Metrics.Endpoint
		mc.Insecure = cfg.Metrics.Insecure
		mc.Interval = cfg.Metrics.Interval
		mp, err := observability.InitMeter(ctx, mc)
		if err != nil {
			return &exitError{code: ExitConfigError, err: err}
		}
		a.shutdown = append(a.shutdown, mp.Shutdown)
	}
	return nil
}

// newClient builds a client from the loaded configuration. A non-empty
// transportName overrides the configured transport.
func (a *app) newClient(transportName string) (*httpclient.Client, error) {
	cfg := a.cfg.Client
	if transportName != "" {
		cfg.Transport = transportName
	}
	c, err := httpclient.NewClient(cfg, httpclient.WithLogger(a.log))
	if err != nil {
		return nil, &exitError{code: ExitUsageError, err: err}
	}
	return c, nil
}

// close flushes exporters. Errors are logged, not returned.
func (a *app) close() {
	if len(a.shutdown) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, fn := range a.shutdown {
		if err := fn(ctx); err != nil && a.log != nil {
			a.log.Warn("exporter shutdown failed", logger.ErrorFields("shutdown", err))
		}
	}
	a.shutdown = nil
}

// Execute runs the CLI with os.Args and returns the process exit code.
func Execute(ctx context.Context) int {
	return run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{}
	defer a.close()

	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintln(stderr, "Error:", err)
	return exitCode(err)
}

// exitCode maps an error to a process exit code.
func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		switch appErr.Code {
		case apperrors.ErrCodeTransport:
			if code, ok := appErr.Details["code"].(int); ok && code > 0 {
				return code
			}
		case apperrors.ErrCodeValidation, apperrors.ErrCodeIO, apperrors.ErrCodeCapability:
			return ExitUsageError
		}
	}
	return ExitError
}
