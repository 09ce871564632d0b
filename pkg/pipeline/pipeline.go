// Package pipeline provides the load → layout → render pipeline for blocktower.
//
// This package implements the batch path shared by the `render` command and
// the HTTP API. Centralizing it keeps cache keys, defaults and validation
// identical across entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Fetch transactions from a [source.Source] (file, mempool, block)
//  2. Layout: Pack them into a [scene.Scene] and take a [scene.Snapshot]
//  3. Render: Generate output in various formats (SVG, JSON, PNG, PDF)
//
// Each stage can be run independently or as part of the complete pipeline,
// and each one is cached through a [cache.Cache].
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, source.FileSource{Path: "block.json"}, pipeline.Options{
//	    Formats: []string{"svg", "json"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blocktower/pkg/cache"
	"github.com/matzehuels/blocktower/pkg/errors"
	"github.com/matzehuels/blocktower/pkg/render/styles"
	"github.com/matzehuels/blocktower/pkg/scene"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultPNGScale is the rasterization scale for PNG output.
	DefaultPNGScale = 2.0
)

// DefaultTheme is the default colour theme.
var DefaultTheme = styles.Mempool.Name

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// =============================================================================
// Options
// =============================================================================

// Options configures a pipeline run. Zero values take the defaults of
// [scene.DefaultConfig] and [DefaultTheme].
type Options struct {
	// Scene
	Width      float64 // renderer width in pixels
	Height     float64 // renderer height in pixels
	Resolution int     // grid cells per side
	BlockLimit int64   // block capacity in vbytes

	// Project keeps only the transactions a miner would select for one
	// block before packing (see [source.Project]).
	Project bool

	// Render
	Formats []string // svg, json, png, pdf
	Theme   string   // colour theme name
	Titles  bool     // add hover titles to SVG squares

	// Caching
	Refresh     bool // ignore cached entries and overwrite them
	CacheSource bool // cache loaded transactions by source name

	Logger *log.Logger

	validated bool
}

// ValidateAndSetDefaults checks every field and applies defaults for the
// full pipeline. Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for scene construction.
func (o *Options) SetLayoutDefaults() {
	d := scene.DefaultConfig()
	if o.Width == 0 {
		o.Width = d.Width
	}
	if o.Height == 0 {
		o.Height = d.Height
	}
	if o.Resolution == 0 {
		o.Resolution = d.Resolution
	}
	if o.BlockLimit == 0 {
		o.BlockLimit = d.BlockLimit
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout sets layout defaults and validates scene dimensions.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := errors.ValidateDimensions(o.Width, o.Height); err != nil {
		return err
	}
	if err := errors.ValidateResolution(o.Resolution); err != nil {
		return err
	}
	if err := errors.ValidateCellSize(o.Width, o.Resolution); err != nil {
		return err
	}
	if o.BlockLimit < 0 {
		return errors.New(errors.ErrCodeInvalidDimensions, "block limit must be positive, got %d", o.BlockLimit)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Theme == "" {
		o.Theme = DefaultTheme
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender sets render defaults and validates formats and theme.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateTheme(o.Theme)
}

// SceneConfig returns the scene configuration described by o.
func (o *Options) SceneConfig() scene.Config {
	return scene.Config{
		Width:      o.Width,
		Height:     o.Height,
		Resolution: o.Resolution,
		BlockLimit: o.BlockLimit,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:      o.Width,
		Height:     o.Height,
		Resolution: o.Resolution,
		BlockLimit: o.BlockLimit,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	theme := o.Theme
	if o.Titles && format != FormatJSON {
		theme += "+titles"
	}
	return cache.ArtifactKeyOpts{Format: format, Theme: theme}
}

// ThemeStyle returns the styles.Theme named by o.Theme.
func (o *Options) ThemeStyle() styles.Theme {
	if t, ok := styles.Themes[o.Theme]; ok {
		return t
	}
	return styles.Mempool
}

// =============================================================================
// Result
// =============================================================================

// Result holds the output of a pipeline run.
type Result struct {
	Txs       []scene.Tx        // loaded transactions
	TxHash    string            // content hash of Txs
	Snapshot  scene.Snapshot    // packed scene
	Artifacts map[string][]byte // rendered output keyed by format
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats records timing and size information.
type Stats struct {
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
	TxCount    int   // transactions loaded
	Placed     int   // transactions on the grid
	Rows       int   // occupied grid rows
	TotalVSize int64 // sum of placed vsizes
}

// CacheInfo reports which stages were served from cache.
type CacheInfo struct {
	LoadHit   bool
	LayoutHit bool
	RenderHit bool
}

// =============================================================================
// Validation
// =============================================================================

// ValidateFormat checks a single output format.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be one of: svg, json, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks every format in the list.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateTheme checks that a colour theme exists.
func ValidateTheme(name string) error {
	if _, ok := styles.Themes[name]; !ok {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid theme %q", name)
	}
	return nil
}

// ParseFormats splits a comma-separated format list, trimming blanks.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
