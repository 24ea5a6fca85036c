// Package app wires the command line interface together.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const version = "0.2.0"

// Sentinel errors that map RunE outcomes to exit codes. Anything else
// coming out of Execute is treated as a usage or configuration error.
var (
	errDirty     = errors.New("files need formatting")
	errRunFailed = errors.New("some files failed")
)

type rootOptions struct {
	configPath string
	verbose    bool
	quiet      bool
	noColor    bool
}

// Run executes the CLI and returns the process exit code: 0 when all
// files are clean, 1 when --check found dirty files or any file
// failed, 2 for usage and configuration errors.
func Run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, errDirty) || errors.Is(err, errRunFailed) {
			return 1
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 2
	}
	return 0
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "tsreorg",
		Short:         "Reorganize TypeScript and TSX source files",
		Long:          "tsreorg sorts imports, top-level declarations, class members, object keys,\nJSX attributes, and union members while keeping comments attached to the\ncode they describe.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if opts.quiet {
				level = slog.LevelError
			}
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "explicit tsreorg.toml path (default: discovered upward)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVarP(&opts.quiet, "quiet", "q", false, "only log errors")
	pf.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(newFmtCmd(opts), newWatchCmd(opts), newCacheCmd())
	return root
}
