package cli

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/blocktower/internal/server"
	blockerrors "github.com/matzehuels/blocktower/pkg/errors"
	"github.com/matzehuels/blocktower/pkg/observability"
	"github.com/matzehuels/blocktower/pkg/observability/prom"
	"github.com/matzehuels/blocktower/pkg/pipeline"
	"github.com/matzehuels/blocktower/pkg/render/styles"
	"github.com/matzehuels/blocktower/pkg/scene"
	"github.com/matzehuels/blocktower/pkg/source"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	scene     sceneFlags
	addr      string
	poll      time.Duration
	theme     string
	direction string
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve a live scene of the projected next block over HTTP",
		Long: `Serve a live scene over HTTP while polling the node's mempool.

Routes:
  GET  /scene          JSON snapshot
  GET  /scene.svg      SVG rendering (?titles=true for hover titles)
  GET  /scene/tx       hit test at ?x=&y=
  GET  /scene/tx/{id}  one transaction
  POST /scene/resize   {"width": w, "height": h}
  GET  /metrics        Prometheus metrics`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			if !cmd.Flags().Changed("addr") {
				opts.addr = c.config.Server.Addr
			}
			if !cmd.Flags().Changed("poll") && c.config.Server.Poll.Duration > 0 {
				opts.poll = c.config.Server.Poll.Duration
			}
			if opts.poll <= 0 {
				return blockerrors.New(blockerrors.ErrCodeInvalidInput, "poll interval must be positive, got %s", opts.poll)
			}
			dir, err := scene.ParseDirection(opts.direction)
			if err != nil {
				return err
			}
			theme, ok := styles.Themes[opts.theme]
			if !ok {
				return pipeline.ValidateTheme(opts.theme)
			}

			popts := opts.scene.options(cmd, c.config.Scene)
			popts.Logger = logger

			var src source.Source
			if len(args) == 1 {
				if err := blockerrors.ValidatePath(args[0]); err != nil {
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

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			metrics := prom.New(reg)
			observability.SetSceneHooks(metrics)
			observability.SetNodeHooks(metrics)
			observability.SetPipelineHooks(metrics)
			observability.SetCacheHooks(metrics)
			defer observability.Reset()

			srv := server.New(live,
				server.WithLogger(logger),
				server.WithTheme(theme),
				server.WithGatherer(reg),
				server.WithAllowedOrigins(c.config.Server.AllowedOrigins),
			)

			printInfo("Serving %s on %s", StyleHighlight.Render(src.Name()), StyleLink.Render(opts.addr))
			printDetail("polling every %s", opts.poll)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return live.Run(gctx, opts.poll, func(d source.Delta) {
					logger.Debug("scene updated", "added", len(d.Add), "removed", len(d.Remove), "changed", len(d.Change))
				})
			})
			g.Go(func() error {
				return srv.ListenAndServe(gctx, opts.addr)
			})
			if err := g.Wait(); err != nil && !errors.Is(err, ctx.Err()) {
				return err
			}
			printSuccess("Server stopped")
			return nil
		},
	}

	opts.scene.register(cmd)
	opts.scene.registerProject(cmd)
	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().DurationVar(&opts.poll, "poll", 5*time.Second, "source poll interval")
	cmd.Flags().StringVar(&opts.theme, "theme", pipeline.DefaultTheme, "colour theme for /scene.svg: mempool, mono")
	cmd.Flags().StringVar(&opts.direction, "direction", string(scene.Left), "edge new transactions enter from: left, right")

	return cmd
}
