package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blocktower/pkg/cache"
	"github.com/matzehuels/blocktower/pkg/observability"
	"github.com/matzehuels/blocktower/pkg/render"
	"github.com/matzehuels/blocktower/pkg/render/sink"
	"github.com/matzehuels/blocktower/pkg/scene"
	"github.com/matzehuels/blocktower/pkg/source"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so cache keys stay identical.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, src source.Source, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	txs, loadHit, err := r.LoadWithCacheInfo(ctx, src, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Txs = txs
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.TxCount = len(txs)
	result.CacheInfo.LoadHit = loadHit

	r.Logger.Info("loaded transactions",
		"source", src.Name(),
		"txs", len(txs),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	snap, txHash, layoutHit, err := r.LayoutWithCacheInfo(ctx, txs, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Snapshot = snap
	result.TxHash = txHash
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Placed = len(snap.Items)
	result.Stats.Rows = snap.Rows
	result.Stats.TotalVSize = snap.TotalVSize()
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("packed scene",
		"placed", len(snap.Items),
		"rows", snap.Rows,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, snap, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo loads transactions from src and reports whether they
// came from cache. Sources are only cached when opts.CacheSource is set.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, src source.Source, opts Options) ([]scene.Tx, bool, error) {
	r.applyLogger(&opts)
	name := src.Name()
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, name)
	start := time.Now()

	kind, ref, _ := strings.Cut(name, ":")
	cacheKey := r.Keyer.SourceKey(kind, ref)

	if opts.CacheSource && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var txs []scene.Tx
			if err := json.Unmarshal(data, &txs); err == nil {
				observability.Cache().OnCacheHit(ctx, "source")
				hooks.OnLoadComplete(ctx, name, len(txs), time.Since(start), nil)
				return txs, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "source")
	}

	txs, err := src.Load(ctx)
	hooks.OnLoadComplete(ctx, name, len(txs), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if opts.CacheSource {
		// Mined blocks never change; the mempool does.
		ttl := cache.TTLSource
		if kind == "block" {
			ttl = cache.TTLLayout
		}
		r.store(ctx, "source", cacheKey, txs, ttl)
	}
	return txs, false, nil
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards the cache hit info.
func (r *Runner) Load(ctx context.Context, src source.Source, opts Options) ([]scene.Tx, error) {
	txs, _, err := r.LoadWithCacheInfo(ctx, src, opts)
	return txs, err
}

// LayoutWithCacheInfo packs txs into a scene and returns its snapshot, the
// content hash of txs and whether the layout came from cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, txs []scene.Tx, opts Options) (scene.Snapshot, string, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return scene.Snapshot{}, "", false, err
	}
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(txs))
	start := time.Now()

	txData, err := json.Marshal(txs)
	if err != nil {
		hooks.OnLayoutComplete(ctx, 0, time.Since(start), err)
		return scene.Snapshot{}, "", false, fmt.Errorf("serialize transactions for cache key: %w", err)
	}
	txHash := cache.Hash(txData)
	keyOpts := opts.LayoutKeyOpts()
	cacheKey := r.Keyer.LayoutKey(txHash, keyOpts)
	if opts.Project {
		cacheKey += ":projected"
	}

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var snap scene.Snapshot
			if err := json.Unmarshal(data, &snap); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				hooks.OnLayoutComplete(ctx, snap.Rows, time.Since(start), nil)
				return snap, txHash, true, nil
			}
			// Corrupt entries fall through to recompute.
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	s := BuildScene(txs, opts, scene.WithID(txHash[:12]))
	snap := s.Snapshot()
	s.Destroy()
	hooks.OnLayoutComplete(ctx, snap.Rows, time.Since(start), nil)

	r.store(ctx, "layout", cacheKey, snap, cache.TTLLayout)
	return snap, txHash, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and keeps only the snapshot.
func (r *Runner) Layout(ctx context.Context, txs []scene.Tx, opts Options) (scene.Snapshot, error) {
	snap, _, _, err := r.LayoutWithCacheInfo(ctx, txs, opts)
	return snap, err
}

// RenderWithCacheInfo generates every format in opts.Formats for snap. The
// hit flag is true only when all formats came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, snap scene.Snapshot, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	layoutData, err := json.Marshal(snap)
	if err != nil {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := true
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		allCached = false

		data, err := renderFormat(ctx, snap, format, opts)
		if err != nil {
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, false, fmt.Errorf("%s: %w", format, err)
		}
		artifacts[format] = data
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		} else {
			opts.Logger.Debug("cache write failed", "key", cacheKey, "error", err)
		}
	}

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return artifacts, allCached, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, snap scene.Snapshot, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, snap, opts)
	return artifacts, err
}

// BuildScene creates a scene sized by opts and packs txs into it. With
// opts.Project the transactions are first reduced to one projected block.
func BuildScene(txs []scene.Tx, opts Options, sceneOpts ...scene.Option) *scene.Scene {
	opts.SetLayoutDefaults()
	if opts.Project {
		txs = source.Project(txs, opts.BlockLimit)
	}
	sceneOpts = append([]scene.Option{scene.WithLogger(opts.Logger)}, sceneOpts...)
	s := scene.New(opts.SceneConfig(), sceneOpts...)
	s.Enter(txs, scene.Left)
	return s
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func renderFormat(ctx context.Context, snap scene.Snapshot, format string, opts Options) ([]byte, error) {
	svgOpts := []sink.SVGOption{sink.WithTheme(opts.ThemeStyle())}
	if opts.Titles {
		svgOpts = append(svgOpts, sink.WithTitles())
	}

	switch format {
	case FormatSVG:
		return sink.RenderSVG(snap, svgOpts...), nil
	case FormatJSON:
		return sink.RenderJSON(snap, sink.WithJSONTheme(opts.Theme))
	case FormatPNG:
		return render.ToPNG(ctx, sink.RenderSVG(snap, svgOpts...), DefaultPNGScale)
	case FormatPDF:
		return render.ToPDF(ctx, sink.RenderSVG(snap, svgOpts...))
	}
	return nil, ValidateFormat(format)
}

// store writes v as JSON under key, logging rather than failing on errors.
func (r *Runner) store(ctx context.Context, keyType, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		r.Logger.Debug("cache encode failed", "key", key, "error", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
