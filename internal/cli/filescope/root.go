// Package filescope implements the filescope command line interface. The
// view subcommand renders one page of a columnar file in the terminal and
// the serve subcommand exposes the same fetch pipeline over HTTP.
package filescope

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/filescope/filescope/internal/config"
	"github.com/filescope/filescope/internal/observability"
)

// Options injects the process environment so tests can run commands
// without touching real env vars or streams.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
	Lookup config.LookupFunc
}

type app struct {
	cfg    config.Config
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

// Run executes the CLI with the given arguments and returns a process
// exit code.
func Run(ctx context.Context, args []string, opts Options) int {
	root := NewRootCommand(opts)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

// NewRootCommand builds the root command with all subcommands attached.
func NewRootCommand(opts Options) *cobra.Command {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Lookup == nil {
		opts.Lookup = os.LookupEnv
	}

	a := &app{stdout: opts.Stdout, stderr: opts.Stderr}

	root := &cobra.Command{
		Use:           "filescope",
		Short:         "Paged viewer for parquet and CSV files",
		Long:          "filescope pages through parquet and CSV files using an embedded analytical engine,\nlocally in the terminal or as an HTTP service.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load("filescope", opts.Lookup)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.cfg = cfg
			a.logger = observability.NewLogger(cfg, opts.Stderr)
			return nil
		},
	}
	root.SetOut(opts.Stdout)
	root.SetErr(opts.Stderr)

	root.AddCommand(newViewCommand(a))
	root.AddCommand(newServeCommand(a))
	return root
}
