// Package sink writes scene snapshots to output formats.
//
// # SVG
//
// [RenderSVG] draws every placed transaction as a square filled with its fee
// colour. Snapshot rectangles use a bottom-left origin; the sink flips them
// into SVG's top-left coordinate system, so the image matches what an
// animating renderer shows once all moves have finished.
//
//	svg := sink.RenderSVG(snap, sink.WithTheme(styles.Mono), sink.WithTitles())
//
// # JSON
//
// [RenderJSON] writes the snapshot itself plus block totals. The output can
// be read back with source.Decode.
package sink
