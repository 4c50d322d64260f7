package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/nookvault/nookvault/internal/config"
	"github.com/nookvault/nookvault/internal/nook"
)

// version is set at build time via ldflags.
var version = "dev"

// CLIFlags holds the global persistent flags.
type CLIFlags struct {
	ConfigPath string
	TokenPath  string
	Script     bool
	Verbose    bool
	Quiet      bool
}

// CLIContext carries everything a subcommand needs. It is built once in the
// root PersistentPreRunE and stored on the command context.
type CLIContext struct {
	Cfg    *config.Resolved
	Logger *slog.Logger
	Flags  CLIFlags

	Stdout io.Writer
	Stderr io.Writer

	stdin       *bufio.Reader
	interactive bool
}

type cliContextKey struct{}

// cliContextFrom returns the CLIContext stored on ctx, if any.
func cliContextFrom(ctx context.Context) (*CLIContext, bool) {
	cc, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	return cc, ok
}

// mustCLIContext is used by RunE functions, which always run after the root
// pre-run has stored a context.
func mustCLIContext(ctx context.Context) *CLIContext {
	cc, ok := cliContextFrom(ctx)
	if !ok {
		panic("BUG: CLIContext missing from command context")
	}

	return cc
}

// Interactive reports whether prompting is allowed: not in script mode and
// stdin is a terminal.
func (cc *CLIContext) Interactive() bool {
	return cc.interactive
}

// newRootCmd builds and returns the fully-assembled root command with all
// subcommands registered. Called once from main().
func newRootCmd() *cobra.Command {
	var flags CLIFlags

	cmd := &cobra.Command{
		Use:     "nookvault",
		Short:   "Back up e-books purchased from the NOOK store",
		Long:    "Sign in to the NOOK cloud, list purchased titles and download them with their rights manifest.",
		Version: version,
		// Errors are printed once by main.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := newCLIContext(cmd, flags)
			if err != nil {
				return err
			}

			ctx := shutdownContext(cmd.Context(), cc.Logger, cc.Stderr)
			cmd.SetContext(context.WithValue(ctx, cliContextKey{}, cc))

			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.ConfigPath, "config", "", "config file path")
	pf.StringVarP(&flags.TokenPath, "token-path", "t", "", "session cookie file")
	pf.BoolVarP(&flags.Script, "script", "s", false, "never prompt; machine-readable output")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVarP(&flags.Quiet, "quiet", "q", false, "suppress informational output")

	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newLibraryCmd())
	cmd.AddCommand(newDownloadCmd())
	cmd.AddCommand(newCCHashCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// newCLIContext resolves the effective configuration from the four-layer
// override chain and builds the logger from it.
func newCLIContext(cmd *cobra.Command, flags CLIFlags) (*CLIContext, error) {
	env, err := config.ReadEnvOverrides()
	if err != nil {
		return nil, err
	}

	cli := config.CLIOverrides{
		ConfigPath: flags.ConfigPath,
		TokenPath:  flags.TokenPath,
	}

	// --output-dir only exists on download.
	if f := cmd.Flags().Lookup("output-dir"); f != nil && f.Changed {
		cli.OutputDir = f.Value.String()
	}

	resolved, err := config.Resolve(env, cli)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	stderr := cmd.ErrOrStderr()

	return &CLIContext{
		Cfg:         resolved,
		Logger:      buildLogger(resolved, flags, stderr),
		Flags:       flags,
		Stdout:      cmd.OutOrStdout(),
		Stderr:      stderr,
		stdin:       bufio.NewReader(cmd.InOrStdin()),
		interactive: !flags.Script && stdinIsTerminal(),
	}, nil
}

// buildLogger creates an slog.Logger configured by the resolved config and
// CLI flags. Config-file log level provides the baseline; --verbose and
// --quiet override it because CLI flags always win.
func buildLogger(cfg *config.Resolved, flags CLIFlags, w io.Writer) *slog.Logger {
	level := slog.LevelInfo

	if cfg != nil {
		switch cfg.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}

	if flags.Verbose {
		level = slog.LevelDebug
	}

	if flags.Quiet {
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg != nil && cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

// newNookClient builds a vendor client honoring configured endpoint
// overrides and timeout.
func newNookClient(cc *CLIContext) *nook.Client {
	ep := cc.Cfg.Endpoints

	return nook.NewClient(nook.Endpoints{
		Login:   ep.Login,
		CCHash:  ep.CCHash,
		Sync:    ep.Sync,
		License: ep.License,
	}, &http.Client{Timeout: cc.Cfg.Timeout}, cc.Logger)
}

// exitOnError prints a user-friendly error message to stderr and exits.
func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
