package cli

import (
	"context"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blocktower/pkg/errors"
	"github.com/matzehuels/blocktower/pkg/pipeline"
	"github.com/matzehuels/blocktower/pkg/scene"
	"github.com/matzehuels/blocktower/pkg/source"
)

// watchResolution is the default grid size in the terminal, where each
// cell takes two columns.
const watchResolution = 32

// watchOpts holds the command-line flags for the watch command.
type watchOpts struct {
	scene     sceneFlags
	interval  time.Duration
	direction string
}

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var opts watchOpts

	cmd := &cobra.Command{
		Use:   "watch [file]",
		Short: "Animate the projected next block in the terminal",
		Long: `Poll the node's mempool and redraw the projected next block whenever it
changes. With a file argument the file is re-read on every poll instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dir, err := scene.ParseDirection(opts.direction)
			if err != nil {
				return err
			}
			if opts.interval <= 0 {
				return errors.New(errors.ErrCodeInvalidInput, "interval must be positive, got %s", opts.interval)
			}

			popts := opts.scene.options(cmd, c.config.Scene)
			if !cmd.Flags().Changed("resolution") {
				popts.Resolution = watchResolution
			}
			// The terminal owns the screen; keep scene tracing out of it.
			popts.Logger = newLogger(io.Discard, LogInfo)

			var src source.Source
			if len(args) == 1 {
				if err := errors.ValidatePath(args[0]); err != nil {
					return err
				}
				src = source.FileSource{Path: args[0]}
			} else {
				rpc, closeSrc, err := c.nodeSource(0, popts.BlockLimit)
				if err != nil {
					return err
				}
				defer closeSrc()
				src = rpc
			}

			live, err := pipeline.NewLive(src, popts, pipeline.WithDirection(dir))
			if err != nil {
				return err
			}
			defer live.Close()

			return runWatch(ctx, live, opts.interval)
		},
	}

	opts.scene.register(cmd)
	opts.scene.registerProject(cmd)
	cmd.Flags().DurationVar(&opts.interval, "interval", 5*time.Second, "poll interval")
	cmd.Flags().StringVar(&opts.direction, "direction", string(scene.Left), "edge new transactions enter from: left, right")

	return cmd
}

// runWatch runs the terminal view until the user quits or ctx is cancelled.
func runWatch(ctx context.Context, live *pipeline.Live, interval time.Duration) error {
	p := tea.NewProgram(newWatchModel(ctx, live, interval), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if ctx.Err() != nil {
		return nil
	}
	return err
}
