// Package render turns scene snapshots into files.
//
// # Overview
//
//   - [sink] writes a [scene.Snapshot] as SVG or JSON
//   - [styles] maps fee rates to colours and holds the themes
//   - [ToPDF] and [ToPNG] convert SVG output with the external rsvg-convert
//     tool (from librsvg)
//
//	svg := sink.RenderSVG(snap, sink.WithTheme(styles.Mempool))
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// [sink]: github.com/matzehuels/blocktower/pkg/render/sink
// [styles]: github.com/matzehuels/blocktower/pkg/render/styles
// [scene.Snapshot]: github.com/matzehuels/blocktower/pkg/scene#Snapshot
package render
