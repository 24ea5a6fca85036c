package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsreorg/tsreorg/internal/cache"
)

func newCacheCmd() *cobra.Command {
	var storePath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the clean-file cache",
	}
	cmd.PersistentFlags().StringVar(&storePath, "path", "", "cache store location (default: user cache directory)")

	resolve := func() (string, error) {
		if storePath != "" {
			return storePath, nil
		}
		return cache.DefaultPath()
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the cache store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolve()
			if err != nil {
				return err
			}
			if err := cache.Clear(path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show where the cache lives and how many entries it holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolve()
			if err != nil {
				return err
			}
			store := cache.Open(path)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d entries\n", path, store.Len())
			return nil
		},
	}

	cmd.AddCommand(clearCmd, statusCmd)
	return cmd
}
