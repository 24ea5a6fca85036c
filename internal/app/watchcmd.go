package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tsreorg/tsreorg/internal/cache"
	"github.com/tsreorg/tsreorg/internal/driver"
	"github.com/tsreorg/tsreorg/internal/fileutil"
	"github.com/tsreorg/tsreorg/internal/watch"
)

func newWatchCmd(root *rootOptions) *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Watch for changes and reformat files as they are saved",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			roots := args
			if len(roots) == 0 {
				roots = []string{"."}
			}

			cfg, cfgPath, err := loadConfig(root.configPath, roots[0])
			if err != nil {
				return err
			}
			if cfgPath != "" {
				slog.Debug("using config", "path", cfgPath)
			}

			var store *cache.Cache
			if !noCache {
				store = openCache()
			}
			opts := driver.Options{
				Write:   true,
				Workers: cfg.Workers,
				Rules:   cfg.Rules(),
			}

			// Full pass first so the tree starts clean.
			files, err := fileutil.Resolve(roots, cfg.Extensions, cfg.Exclude)
			if err != nil {
				return err
			}
			results, sum, err := driver.Process(cmd.Context(), files, opts, store)
			if err != nil {
				return err
			}
			printResults(results, true, false)
			printSummary(sum, true, false)
			saveCache(store)

			fmt.Println("watching for changes, press ctrl-c to stop")
			err = watch.Run(cmd.Context(), roots, cfg.Extensions, cfg.Exclude, opts, store,
				func(results []driver.Result, sum driver.Summary) {
					printResults(results, true, false)
					saveCache(store)
				})
			if errors.Is(err, context.Canceled) {
				fmt.Println("\nstopped")
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "format every file even when cached as clean")
	return cmd
}

func saveCache(store *cache.Cache) {
	if err := store.Save(); err != nil {
		slog.Warn("saving cache", "err", err)
	}
}
