package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
)

// clearer is implemented by caches that can drop all their entries.
type clearer interface {
	Clear(ctx context.Context) (int, error)
}

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var redisURL string
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached progressions and exports",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			status := cmd.ErrOrStderr()

			if redisURL == "" && os.Getenv(redisURLEnv) == "" {
				dir, err := cacheDir()
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
				if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
					printInfo(status, "Cache is empty")
					return nil
				}
			}

			cc, err := newCache(ctx, cacheFlags{redisURL: redisURL})
			if err != nil {
				return err
			}
			defer cc.Close()

			cl, ok := cc.(clearer)
			if !ok {
				printInfo(status, "Caching is disabled")
				return nil
			}
			n, err := cl.Clear(ctx)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess(status, "Cleared %d cached entries", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&redisURL, "redis", "", "clear the Redis cache at this URL (env "+redisURLEnv+")")
	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
