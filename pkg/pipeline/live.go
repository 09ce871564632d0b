package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blocktower/pkg/errors"
	"github.com/matzehuels/blocktower/pkg/observability"
	"github.com/matzehuels/blocktower/pkg/scene"
	"github.com/matzehuels/blocktower/pkg/source"
)

// Live keeps one scene in step with a polled source. Each refresh diffs the
// new transaction set against the previous one and applies the difference
// as a scene update; when most of the scene disappears at once (a block was
// mined) the scene is rebuilt instead.
//
// Live serializes access to its scene, so it is safe for concurrent use.
type Live struct {
	mu      sync.Mutex
	scene   *scene.Scene
	src     source.Source
	opts    Options
	dir     scene.Direction
	prev    []scene.Tx
	entered bool
	logger  *log.Logger
}

// LiveOption configures a Live scene.
type LiveOption func(*liveConfig)

type liveConfig struct {
	dir       scene.Direction
	sceneOpts []scene.Option
}

// WithDirection sets the edge transactions animate across. Defaults to [scene.Left].
func WithDirection(d scene.Direction) LiveOption {
	return func(c *liveConfig) { c.dir = d }
}

// WithSceneOptions passes options through to [scene.New].
func WithSceneOptions(opts ...scene.Option) LiveOption {
	return func(c *liveConfig) { c.sceneOpts = append(c.sceneOpts, opts...) }
}

// NewLive creates an empty live scene over src. Only the layout fields and
// Project of opts are used.
func NewLive(src source.Source, opts Options, liveOpts ...LiveOption) (*Live, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	cfg := liveConfig{dir: scene.Left}
	for _, o := range liveOpts {
		o(&cfg)
	}
	sceneOpts := append([]scene.Option{scene.WithLogger(opts.Logger)}, cfg.sceneOpts...)
	return &Live{
		scene:  scene.New(opts.SceneConfig(), sceneOpts...),
		src:    src,
		opts:   opts,
		dir:    cfg.dir,
		logger: opts.Logger,
	}, nil
}

// Source returns the polled source.
func (l *Live) Source() source.Source { return l.src }

// Refresh loads the source once and applies the change to the scene.
func (l *Live) Refresh(ctx context.Context) (source.Delta, error) {
	txs, err := l.src.Load(ctx)
	if err != nil {
		return source.Delta{}, err
	}
	return l.Apply(ctx, txs), nil
}

// Apply moves the scene to txs and returns what changed.
func (l *Live) Apply(ctx context.Context, txs []scene.Tx) source.Delta {
	if l.opts.Project {
		txs = source.Project(txs, l.opts.BlockLimit)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()
	delta := source.Diff(l.prev, txs)
	var op string
	switch {
	case !l.entered:
		op = "enter"
		l.scene.Enter(txs, l.dir)
		l.entered = true
	case delta.Empty():
		return delta
	case len(l.prev) > 0 && 2*len(delta.Remove) > len(l.prev):
		op = "replace"
		l.scene.Replace(txs, nil, l.dir)
	default:
		op = "update"
		l.scene.Update(delta.Add, delta.Remove, delta.Change, l.dir, false)
	}
	l.prev = txs

	hooks := observability.Scene()
	hooks.OnSceneUpdate(ctx, op, len(delta.Add), len(delta.Remove), time.Since(start))
	hooks.OnSceneSize(ctx, l.scene.Len(), l.scene.Layout().Height())
	l.logger.Debug("scene "+op,
		"added", len(delta.Add),
		"removed", len(delta.Remove),
		"changed", len(delta.Change),
		"txs", l.scene.Len())
	return delta
}

// Run refreshes the scene every interval until ctx is cancelled. Load
// errors are logged and retried on the next tick. onUpdate, if set, is
// called after every refresh that changed the scene.
func (l *Live) Run(ctx context.Context, interval time.Duration, onUpdate func(source.Delta)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		delta, err := l.Refresh(ctx)
		switch {
		case err != nil && ctx.Err() == nil:
			l.logger.Warn("refresh failed", "source", l.src.Name(), "error", err)
		case err == nil && !delta.Empty() && onUpdate != nil:
			onUpdate(delta)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Resize changes the renderer dimensions of the scene.
func (l *Live) Resize(ctx context.Context, width, height float64) error {
	if err := errors.ValidateDimensions(width, height); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := errors.ValidateCellSize(width, l.scene.GridWidth()); err != nil {
		return err
	}
	start := time.Now()
	l.scene.Resize(width, height)
	observability.Scene().OnSceneUpdate(ctx, "resize", 0, 0, time.Since(start))
	return nil
}

// Snapshot copies the scene's current placements.
func (l *Live) Snapshot() scene.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.scene.Snapshot()
}

// TxAt returns the placed item under pointer position p.
func (l *Live) TxAt(p scene.Point) (scene.Item, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id, ok := l.scene.TxAt(p)
	if !ok {
		return scene.Item{}, false
	}
	return l.item(id)
}

// Tx returns the placed item with the given id.
func (l *Live) Tx(id string) (scene.Item, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.item(id)
}

// Do runs fn with exclusive access to the scene.
func (l *Live) Do(fn func(*scene.Scene)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.scene)
}

// Close releases every view in the scene.
func (l *Live) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.scene.Destroy()
	l.prev = nil
	l.entered = false
}

func (l *Live) item(id string) (scene.Item, bool) {
	v, ok := l.scene.View(id)
	if !ok {
		return scene.Item{}, false
	}
	return scene.Item{Tx: v.Tx, Grid: v.Grid, Screen: l.scene.GridToScreen(v.Grid)}, true
}
