package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tsreorg/tsreorg/internal/cache"
	"github.com/tsreorg/tsreorg/internal/config"
	"github.com/tsreorg/tsreorg/internal/driver"
	"github.com/tsreorg/tsreorg/internal/fileutil"
	"github.com/tsreorg/tsreorg/internal/pipeline"
)

func newFmtCmd(root *rootOptions) *cobra.Command {
	var (
		write      bool
		check      bool
		showDiff   bool
		toStdout   bool
		noCache    bool
		extensions []string
		workers    int
	)

	cmd := &cobra.Command{
		Use:   "fmt [paths...]",
		Short: "Reorganize files, or report what would change",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				paths = []string{"."}
			}

			cfg, cfgPath, err := loadConfig(root.configPath, paths[0])
			if err != nil {
				return err
			}
			if cfgPath != "" {
				slog.Debug("using config", "path", cfgPath)
			}
			if cmd.Flags().Changed("extensions") {
				cfg.Extensions = extensions
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}

			files, err := fileutil.Resolve(paths, cfg.Extensions, cfg.Exclude)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Println("no files to format")
				return nil
			}

			if toStdout {
				if len(files) != 1 {
					return fmt.Errorf("--stdout requires exactly one file, got %d", len(files))
				}
				content, err := os.ReadFile(files[0])
				if err != nil {
					return err
				}
				out, _, err := pipeline.Run(cmd.Context(), content, files[0], cfg.Rules())
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}

			var store *cache.Cache
			if !noCache {
				store = openCache()
			}

			opts := driver.Options{
				Write:   write && !check,
				Diff:    showDiff,
				Workers: cfg.Workers,
				Rules:   cfg.Rules(),
			}
			results, sum, err := driver.Process(cmd.Context(), files, opts, store)
			if err != nil {
				return err
			}
			saveCache(store)

			printResults(results, write && !check, check)
			printSummary(sum, write && !check, check)

			switch {
			case sum.Failed > 0:
				return errRunFailed
			case check && sum.Changed > 0:
				return errDirty
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&write, "write", "w", false, "rewrite files in place")
	flags.BoolVar(&check, "check", false, "exit non-zero when files need formatting")
	flags.BoolVar(&showDiff, "diff", false, "print a unified diff of pending changes")
	flags.BoolVar(&toStdout, "stdout", false, "print the formatted result of one file to stdout")
	flags.BoolVar(&noCache, "no-cache", false, "format every file even when cached as clean")
	flags.StringSliceVar(&extensions, "extensions", nil, "file extensions to format (overrides config)")
	flags.IntVarP(&workers, "workers", "j", 0, "parallel workers (default: number of CPUs)")
	return cmd
}

// loadConfig honors an explicit --config path and otherwise discovers
// tsreorg.toml upward from the first argument.
func loadConfig(explicit, startArg string) (config.Config, string, error) {
	if explicit != "" {
		cfg, err := config.Load(explicit)
		return cfg, explicit, err
	}
	dir := startArg
	if info, err := os.Stat(startArg); err == nil && !info.IsDir() {
		dir = filepath.Dir(startArg)
	}
	return config.Discover(dir)
}

// openCache never fails a run; a machine without a resolvable cache
// directory just formats everything.
func openCache() *cache.Cache {
	path, err := cache.DefaultPath()
	if err != nil {
		slog.Debug("cache disabled", "err", err)
		return nil
	}
	return cache.Open(path)
}

func printResults(results []driver.Result, write, check bool) {
	for _, res := range results {
		switch {
		case res.Err != nil:
			color.Red("✗ %v", res.Err)
		case res.Cached:
			slog.Debug("unchanged (cached)", "file", res.Path)
		case res.Changed && write:
			color.Green("✓ %s", res.Path)
		case res.Changed && check:
			color.Red("✗ %s needs formatting", res.Path)
		case res.Changed:
			fmt.Printf("would reformat %s\n", res.Path)
		default:
			slog.Debug("unchanged", "file", res.Path)
		}
		if res.Diff != "" {
			fmt.Print(res.Diff)
		}
	}
}

func printSummary(sum driver.Summary, write, check bool) {
	if sum.Total <= 1 {
		return
	}
	fmt.Printf("\n%s\n", strings.Repeat("─", 37))
	fmt.Printf("Total files:      %d\n", sum.Total)
	switch {
	case write:
		fmt.Printf("Reformatted:      %d\n", sum.Changed)
	case check:
		fmt.Printf("Need formatting:  %d\n", sum.Changed)
	default:
		fmt.Printf("Would reformat:   %d\n", sum.Changed)
	}
	fmt.Printf("Unchanged:        %d", sum.Unchanged)
	if sum.Cached > 0 {
		fmt.Printf(" (%d cached)", sum.Cached)
	}
	fmt.Println()
	if sum.Failed > 0 {
		color.Red("Errors:           %d", sum.Failed)
	}
}
