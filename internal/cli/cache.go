package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pathrank/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the ranking and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var redis string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached rankings and rendered graphs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cc, err := c.newCache(ctx, cacheFlags{redis: redis})
			if err != nil {
				return err
			}
			defer cc.Close()

			clearer, ok := cc.(cache.Clearer)
			if _, null := cc.(cache.NullCache); null || !ok {
				printInfo(cmd.OutOrStdout(), "Caching is disabled")
				return nil
			}
			if err := clearer.Clear(ctx); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess(cmd.OutOrStdout(), "Cleared cache")
			switch v := cc.(type) {
			case *cache.FileCache:
				printDetail(cmd.OutOrStdout(), "Directory: %s", v.Dir())
			case *cache.RedisCache:
				printDetail(cmd.OutOrStdout(), "Redis keys: %s*", cache.DefaultRedisPrefix)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&redis, "redis", "", "clear this Redis cache instead of the configured one")
	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
