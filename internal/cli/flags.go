package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/blocktower/pkg/config"
	"github.com/matzehuels/blocktower/pkg/pipeline"
	"github.com/matzehuels/blocktower/pkg/scene"
)

// sceneFlags holds the scene flags shared by render, watch and serve.
// Flags the user did not set fall back to the [scene] config section.
type sceneFlags struct {
	width      float64
	height     float64
	resolution int
	blockLimit int64
	project    bool
}

func (f *sceneFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.Float64Var(&f.width, "width", scene.DefaultWidth, "renderer width in pixels")
	fl.Float64Var(&f.height, "height", scene.DefaultHeight, "renderer height in pixels")
	fl.IntVar(&f.resolution, "resolution", scene.DefaultResolution, "grid cells per side")
	fl.Int64Var(&f.blockLimit, "block-limit", scene.DefaultBlockLimit, "block capacity in vbytes")
}

// registerProject adds --project for commands that load arbitrary sets.
func (f *sceneFlags) registerProject(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.project, "project", false, "keep only the transactions that fit one block, by fee rate")
}

// options merges cfg with the flags set on cmd.
func (f *sceneFlags) options(cmd *cobra.Command, cfg config.Scene) pipeline.Options {
	opts := pipeline.Options{
		Width:      cfg.Width,
		Height:     cfg.Height,
		Resolution: cfg.Resolution,
		BlockLimit: cfg.BlockLimit,
		Project:    f.project,
	}
	fl := cmd.Flags()
	if fl.Changed("width") {
		opts.Width = f.width
	}
	if fl.Changed("height") {
		opts.Height = f.height
	}
	if fl.Changed("resolution") {
		opts.Resolution = f.resolution
	}
	if fl.Changed("block-limit") {
		opts.BlockLimit = f.blockLimit
	}
	return opts
}
