// Package pkg provides the core libraries for Blocktower block visualization.
//
// # Overview
//
// Blocktower packs the transactions of a Bitcoin block, or of the next block
// projected from a node's mempool, into a square grid. Each transaction
// becomes a square whose area tracks its virtual size and whose colour tracks
// its fee rate. The pkg directory is organized into four main areas:
//
//  1. Domain logic ([grid], [scene])
//  2. Inputs ([source])
//  3. Outputs ([render], [render/sink], [render/styles])
//  4. Orchestration and infrastructure ([pipeline], [cache], [config],
//     [observability], [errors])
//
// # Architecture
//
// The typical data flow through Blocktower:
//
//	bitcoind RPC / block file / JSON list
//	         ↓
//	    [source] package (load, project, diff)
//	         ↓
//	    [grid] package (first-fit square packing)
//	         ↓
//	    [scene] package (screen geometry + enter/update/exit lifecycle)
//	         ↓
//	    [render/sink] package (SVG, JSON) → [render] (PNG, PDF)
//
// # Quick Start
//
// Project the next block from a node and render it:
//
//	client, _ := source.Dial(config.Default().RPC)
//	defer client.Shutdown()
//	src := source.NewRPCSource(client)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Execute(ctx, src, pipeline.Options{Formats: []string{"svg"}})
//	os.WriteFile("next.svg", result.Artifacts["svg"], 0o644)
//
// # Main Packages
//
// [grid] - Packs squares bottom-up into a fixed-width grid of unbounded
// height. Rows track free intervals so placement is first fit by row, then
// by column.
//
// [scene] - Converts grid squares to screen rectangles and drives the
// enter/update/replace/exit lifecycle of transaction views, including
// resizing and hit testing.
//
// [source] - Transaction inputs: bitcoind JSON-RPC (mempool and mined
// blocks), serialized blocks, JSON files, and the helpers that project a
// block from a mempool and diff two transaction sets.
//
// [render/sink] - SVG and JSON writers for scene snapshots.
//
// [render] - SVG to PNG/PDF conversion through external tools.
//
// [pipeline] - Load → layout → render with caching, shared by every CLI
// command, plus the live scene used by watch and serve.
//
// [cache] - File, Redis and no-op caches with the keyers that name layouts
// and artifacts.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/grid/...               # Specific package
//	go test -run Example                 # Examples only
//	go test -tags integration ./pkg/...  # Include integration tests
//
// [grid]: https://pkg.go.dev/github.com/matzehuels/blocktower/pkg/grid
// [scene]: https://pkg.go.dev/github.com/matzehuels/blocktower/pkg/scene
// [source]: https://pkg.go.dev/github.com/matzehuels/blocktower/pkg/source
// [render]: https://pkg.go.dev/github.com/matzehuels/blocktower/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/blocktower/pkg/render/sink
// [render/styles]: https://pkg.go.dev/github.com/matzehuels/blocktower/pkg/render/styles
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/blocktower/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/blocktower/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/blocktower/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/blocktower/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/blocktower/pkg/errors
package pkg
