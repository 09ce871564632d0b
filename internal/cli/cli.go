// Package cli implements the blocktower command-line interface.
//
// This package provides commands for packing Bitcoin blocks and projected
// mempool blocks into fee-coloured square layouts, watching the mempool live
// in the terminal, serving a live scene over HTTP and managing the artifact
// cache. The CLI is built using cobra and logs via charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - render: Lay out a block (file, mempool or height) as SVG, JSON, PNG or PDF
//   - watch: Animate the projected next block in the terminal
//   - serve: Expose a live scene over HTTP
//   - cache: Manage the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blocktower/pkg/cache"
	"github.com/matzehuels/blocktower/pkg/config"
	"github.com/matzehuels/blocktower/pkg/pipeline"
	"github.com/matzehuels/blocktower/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "blocktower"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     config.Config
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config returns the loaded configuration.
func (c *CLI) Config() config.Config {
	return c.config
}

// loadConfig reads the configuration file selected by --config.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.config = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(nil, c.config.RPC.Network+":")
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

// newCache opens the configured cache backend. A file cache that cannot be
// created degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.config.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, c.config.Cache.RedisURL, cache.WithKeyPrefix(appName+":"))
	}

	dir, err := c.config.CacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cache disabled", "dir", dir, "error", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// =============================================================================
// Sources
// =============================================================================

// nodeSource connects to the configured node. height zero selects the
// projected mempool block. The returned func closes the connection.
func (c *CLI) nodeSource(height, blockLimit int64) (*source.RPCSource, func(), error) {
	client, err := source.Dial(c.config.RPC)
	if err != nil {
		return nil, nil, err
	}
	src := source.NewRPCSource(client,
		source.WithHeight(height),
		source.WithBlockLimit(blockLimit),
		source.WithTimeout(c.config.RPC.Timeout.Duration),
		source.WithRateLimit(c.config.RPC.RateLimit),
	)
	return src, client.Shutdown, nil
}
