package scene

import (
	"io"
	"math"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/blocktower/pkg/grid"
)

// Default scene parameters, matching a 1 MvB block on a 75×75 grid.
const (
	DefaultResolution = 75
	DefaultBlockLimit = int64(1_000_000)
	DefaultWidth      = 750.0
	DefaultHeight     = 750.0
)

// Animation timing.
const (
	moveDuration = time.Second
	exitDelay    = 50 * time.Millisecond
	replaceDelay = 200 * time.Millisecond
	updateDelay  = 100 * time.Millisecond
	resizeDelay  = 50 * time.Millisecond
)

// Config fixes the dimensions of a scene.
type Config struct {
	Width      float64 // renderer width in pixels
	Height     float64 // renderer height in pixels
	Resolution int     // grid cells per side
	BlockLimit int64   // block capacity in virtual bytes
}

// DefaultConfig returns the configuration used when fields are left zero.
func DefaultConfig() Config {
	return Config{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Resolution: DefaultResolution,
		BlockLimit: DefaultBlockLimit,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Width == 0 {
		c.Width = d.Width
	}
	if c.Height == 0 {
		c.Height = d.Height
	}
	if c.Resolution <= 0 {
		c.Resolution = d.Resolution
	}
	if c.BlockLimit <= 0 {
		c.BlockLimit = d.BlockLimit
	}
	return c
}

// Option configures a Scene.
type Option func(*Scene)

// WithRenderer sets the renderer receiving commands. Defaults to [Discard].
func WithRenderer(r Renderer) Option { return func(s *Scene) { s.renderer = r } }

// WithClock sets the clock used to timestamp commands.
func WithClock(c clock.Clock) Option { return func(s *Scene) { s.clock = c } }

// WithLogger sets the logger used for debug tracing.
func WithLogger(l *log.Logger) Option { return func(s *Scene) { s.logger = l } }

// WithID overrides the generated scene id.
func WithID(id string) Option { return func(s *Scene) { s.id = id } }

// Scene is one rendered block: a grid layout, the live views placed on it
// and the transform into renderer space.
type Scene struct {
	id       string
	renderer Renderer
	clock    clock.Clock
	logger   *log.Logger

	gridWidth     int
	gridHeight    int
	vbytesPerUnit float64

	width, height float64
	cellSize      float64
	unitPadding   float64
	unitWidth     float64

	layout      *grid.Layout
	views       map[string]*View
	dirty       bool
	initialised bool
}

// New returns an empty scene sized by cfg. Zero fields of cfg take the
// values of [DefaultConfig].
func New(cfg Config, opts ...Option) *Scene {
	cfg = cfg.withDefaults()
	s := &Scene{
		renderer:      Discard,
		clock:         clock.New(),
		gridWidth:     cfg.Resolution,
		gridHeight:    cfg.Resolution,
		vbytesPerUnit: grid.VBytesPerUnit(cfg.BlockLimit, cfg.Resolution),
		views:         make(map[string]*View),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	s.layout = grid.NewLayout(s.gridWidth, s.gridHeight)
	s.Resize(cfg.Width, cfg.Height)
	s.initialised = true
	return s
}

// ID returns the scene's unique id.
func (s *Scene) ID() string { return s.id }

// Width returns the renderer width.
func (s *Scene) Width() float64 { return s.width }

// Height returns the renderer height.
func (s *Scene) Height() float64 { return s.height }

// GridWidth returns the number of grid columns.
func (s *Scene) GridWidth() int { return s.gridWidth }

// CellSize returns the width of one grid cell in renderer units.
func (s *Scene) CellSize() float64 { return s.cellSize }

// UnitPadding returns the gap kept on each side of a square.
func (s *Scene) UnitPadding() float64 { return s.unitPadding }

// UnitWidth returns the drawn width of a 1×1 square.
func (s *Scene) UnitWidth() float64 { return s.unitWidth }

// VBytesPerUnit returns the virtual bytes represented by one grid cell.
func (s *Scene) VBytesPerUnit() float64 { return s.vbytesPerUnit }

// Layout returns the scene's grid layout. Callers must not mutate it.
func (s *Scene) Layout() *grid.Layout { return s.layout }

// Len returns the number of live views.
func (s *Scene) Len() int { return len(s.views) }

// View returns the live view for id.
func (s *Scene) View(id string) (*View, bool) {
	v, ok := s.views[id]
	return v, ok
}

// Size returns the side length in cells the scene gives tx.
func (s *Scene) Size(tx Tx) int {
	return grid.SizeOf(tx.VSize, s.vbytesPerUnit, s.gridWidth)
}

// Resize changes the renderer dimensions. Once the scene is initialised every
// live view is moved to its new position.
func (s *Scene) Resize(width, height float64) {
	s.width = width
	s.height = height
	s.cellSize = width / float64(s.gridWidth)
	s.unitPadding = max(1, math.Floor(width/1000))
	s.unitWidth = s.cellSize - 2*s.unitPadding
	s.dirty = true
	s.logger.Debug("resize", "scene", s.id, "width", width, "height", height, "cell", s.cellSize)

	if s.initialised {
		s.updateAll(s.clock.Now(), resizeDelay, Left)
	}
}

// GridToScreen converts a grid square to renderer space.
func (s *Scene) GridToScreen(sq grid.Square) Rect {
	slot := float64(sq.S) * s.cellSize
	return Rect{
		X: s.width + 2*s.unitPadding - s.cellSize*float64(sq.Y) - slot,
		Y: s.height - (s.cellSize*float64(sq.X) + slot - s.unitPadding),
		S: slot - 2*s.unitPadding,
	}
}

// ScreenToGrid returns the grid cell under pointer position p.
func (s *Scene) ScreenToGrid(p Point) (x, y int) {
	x = int(math.Floor((p.Y - s.unitPadding) / s.cellSize))
	y = int(math.Floor((s.width + 2*s.unitPadding - p.X) / s.cellSize))
	return x, y
}

// Center returns the pointer position at the middle of renderer rect r.
func (s *Scene) Center(r Rect) Point {
	return Point{X: r.X + r.S/2, Y: s.height - r.Y - r.S/2}
}

// TxAt returns the id of the transaction drawn under pointer position p.
func (s *Scene) TxAt(p Point) (string, bool) {
	x, y := s.ScreenToGrid(p)
	return s.layout.TxAt(x, y)
}
