package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blocktower/pkg/cache"
	"github.com/matzehuels/blocktower/pkg/config"
	"github.com/matzehuels/blocktower/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached entry from the file cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.config.Cache.Backend != config.CacheFile {
				return errors.New(errors.ErrCodeUnsupported, "cache clear only supports the file backend (configured: %s)", c.config.Cache.Backend)
			}
			dir, err := c.config.CacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}

			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			defer fc.Close()

			count, err := fc.Clear()
			if err != nil {
				return err
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.config.Cache.Backend == config.CacheRedis {
				fmt.Fprintln(cmd.OutOrStdout(), c.config.Cache.RedisURL)
				return nil
			}
			dir, err := c.config.CacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
