package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blocktower/pkg/errors"
	"github.com/matzehuels/blocktower/pkg/pipeline"
	"github.com/matzehuels/blocktower/pkg/source"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	scene   sceneFlags
	output  string // output file (single format) or base path
	formats string // comma-separated output formats
	theme   string // colour theme
	titles  bool   // hover titles in SVG output
	mempool bool   // project the next block from the node's mempool
	block   int64  // load a mined block from the node
	noCache bool
	refresh bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Lay out a block and write SVG, JSON, PNG or PDF",
		Long: `Lay out a set of transactions and write the result.

The transactions come from exactly one of:
  - a file: a JSON transaction list, a JSON snapshot, or a raw block (binary or hex)
  - --mempool: the next block projected from the node's mempool
  - --block N: the block mined at height N`,
		Example: `  blocktower render block.hex -f svg,json
  blocktower render --mempool -o next.svg --titles
  blocktower render --block 840000 --theme mono -f pdf`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			popts := opts.scene.options(cmd, c.config.Scene)
			src, closeSrc, err := c.renderSource(args, &opts, popts.BlockLimit)
			if err != nil {
				return err
			}
			defer closeSrc()

			popts.Formats = pipeline.ParseFormats(opts.formats)
			popts.Theme = opts.theme
			popts.Titles = opts.titles
			popts.Refresh = opts.refresh
			popts.CacheSource = opts.block > 0
			popts.Logger = loggerFromContext(ctx)

			runner, err := c.newRunner(ctx, opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			return runRender(ctx, runner, src, popts, outputBase(opts.output, src))
		},
	}

	opts.scene.register(cmd)
	opts.scene.registerProject(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", pipeline.FormatSVG, "output format(s): svg, json, png, pdf (comma-separated)")
	cmd.Flags().StringVar(&opts.theme, "theme", pipeline.DefaultTheme, "colour theme: mempool, mono")
	cmd.Flags().BoolVar(&opts.titles, "titles", false, "add hover titles to SVG squares")
	cmd.Flags().BoolVar(&opts.mempool, "mempool", false, "project the next block from the node's mempool")
	cmd.Flags().Int64Var(&opts.block, "block", 0, "load the block mined at this height from the node")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results and overwrite them")
	cmd.MarkFlagsMutuallyExclusive("mempool", "block")

	return cmd
}

// renderSource picks the transaction source from the arguments.
func (c *CLI) renderSource(args []string, opts *renderOpts, blockLimit int64) (source.Source, func(), error) {
	nop := func() {}
	fromNode := opts.mempool || opts.block > 0
	switch {
	case len(args) == 1 && fromNode:
		return nil, nop, errors.New(errors.ErrCodeInvalidInput, "give either a file or --mempool/--block, not both")
	case len(args) == 1:
		if err := errors.ValidatePath(args[0]); err != nil {
			return nil, nop, err
		}
		return source.FileSource{Path: args[0]}, nop, nil
	case opts.block < 0:
		return nil, nop, errors.New(errors.ErrCodeInvalidInput, "block height must be positive, got %d", opts.block)
	case fromNode:
		return c.nodeSource(opts.block, blockLimit)
	}
	return nil, nop, errors.New(errors.ErrCodeInvalidInput, "nothing to render: give a file, --mempool or --block N")
}

// runRender executes the pipeline and writes one file per format.
func runRender(ctx context.Context, runner *pipeline.Runner, src source.Source, opts pipeline.Options, base string) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	var spin *Spinner
	if _, remote := src.(*source.RPCSource); remote {
		spin = newSpinnerWithContext(ctx, fmt.Sprintf("Loading %s from node...", src.Name()))
		spin.Start()
	}
	result, err := runner.Execute(ctx, src, opts)
	if spin != nil {
		spin.Stop()
		if err != nil && spin.Cancelled() {
			return ctx.Err()
		}
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Packed %d transactions", result.Stats.Placed))

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, base)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", StyleHighlight.Render(src.Name()))
	printStats(result.Stats, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// writeArtifacts writes each format to base + "." + format, or to base
// itself when it already carries the only format's extension. Any other
// format extension on base is replaced.
func writeArtifacts(artifacts map[string][]byte, formats []string, base string) ([]string, error) {
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	ext := strings.TrimPrefix(filepath.Ext(base), ".")
	single := len(formats) == 1 && ext == formats[0]
	if !single && pipeline.ValidFormats[ext] {
		base = strings.TrimSuffix(base, "."+ext)
	}
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := base + "." + format
		if single {
			path = base
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// outputBase derives the output path. Without --output, file sources write
// next to the input and node sources into the working directory.
func outputBase(output string, src source.Source) string {
	if output != "" {
		return output
	}
	if f, ok := src.(source.FileSource); ok {
		return strings.TrimSuffix(f.Path, filepath.Ext(f.Path))
	}
	return strings.ReplaceAll(src.Name(), ":", "-")
}
