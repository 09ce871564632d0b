// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about pipeline execution, cache operations, node RPC calls
// and live scene updates.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so library packages never
// import a metrics backend. The Prometheus implementation lives in the prom
// subpackage.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    m := prom.New(prometheus.DefaultRegisterer)
//	    observability.SetPipelineHooks(m)
//	    observability.SetCacheHooks(m)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnLoadStart(ctx, "mempool")
//	// ... fetch transactions ...
//	observability.Pipeline().OnLoadComplete(ctx, "mempool", len(txs), duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the load → layout → render pipeline.
type PipelineHooks interface {
	// Load events
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, txCount int, duration time.Duration, err error)

	// Layout events
	OnLayoutStart(ctx context.Context, txCount int)
	OnLayoutComplete(ctx context.Context, rows int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Node Hooks
// =============================================================================

// NodeHooks receives events from bitcoind RPC calls.
type NodeHooks interface {
	// OnCall records an outgoing RPC call.
	OnCall(ctx context.Context, method string)

	// OnResult records the outcome of an RPC call.
	OnResult(ctx context.Context, method string, duration time.Duration, err error)
}

// =============================================================================
// Scene Hooks
// =============================================================================

// SceneHooks receives events from live scenes driven by `watch` and `serve`.
type SceneHooks interface {
	// OnSceneUpdate records one lifecycle operation (enter, update, resize...).
	OnSceneUpdate(ctx context.Context, op string, added, removed int, duration time.Duration)

	// OnSceneSize records the number of transactions and rows after an update.
	OnSceneSize(ctx context.Context, txCount, rows int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, int)                                {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, int, time.Duration, error)       {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                           {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)  {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopNodeHooks is a no-op implementation of NodeHooks.
type NoopNodeHooks struct{}

func (NoopNodeHooks) OnCall(context.Context, string)                         {}
func (NoopNodeHooks) OnResult(context.Context, string, time.Duration, error) {}

// NoopSceneHooks is a no-op implementation of SceneHooks.
type NoopSceneHooks struct{}

func (NoopSceneHooks) OnSceneUpdate(context.Context, string, int, int, time.Duration) {}
func (NoopSceneHooks) OnSceneSize(context.Context, int, int)                          {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	nodeHooks     NodeHooks     = NoopNodeHooks{}
	sceneHooks    SceneHooks    = NoopSceneHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetNodeHooks registers custom node RPC hooks.
func SetNodeHooks(h NodeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		nodeHooks = h
	}
}

// SetSceneHooks registers custom scene hooks.
func SetSceneHooks(h SceneHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sceneHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Node returns the registered node RPC hooks.
func Node() NodeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return nodeHooks
}

// Scene returns the registered scene hooks.
func Scene() SceneHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sceneHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	nodeHooks = NoopNodeHooks{}
	sceneHooks = NoopSceneHooks{}
}
