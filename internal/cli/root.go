package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/blocktower/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
// The configuration file is loaded before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Blocktower packs Bitcoin blocks into fee-coloured squares",
		Long:         `Blocktower lays out the transactions of a Bitcoin block, or of the next block projected from a node's mempool, as squares sized by virtual size and coloured by fee rate.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/blocktower/config.toml)")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
