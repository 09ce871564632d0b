// Package grid packs square transactions onto a fixed-width grid.
//
// # Overview
//
// Every transaction occupies an S×S block of cells. A [Layout] owns an ordered
// list of [Row] values that grows by appending whenever nothing in the
// existing rows fits. Each row tracks which horizontal spans are occupied
// (and by which transaction) and which are free.
//
// # Placement
//
// [Layout.Insert] searches rows from the bottom upward. For a starting row it
// walks the free intervals that can hold the square, narrowing the candidate
// span row by row until S rows have been crossed or the search runs off the
// top of the grid. The first success in row-then-interval order wins, so the
// placement is deterministic for a given insertion order but not globally
// optimal. When no existing row can host the square it is placed at column 0
// of a brand-new row, which always succeeds.
//
//	l := grid.New(10)
//	a := l.Insert("a", 2) // {X:0 Y:0 S:2}
//	b := l.Insert("b", 2) // {X:2 Y:0 S:2}
//	l.Remove("a")         // cells return to the free pool
//
// # Sizing
//
// [SizeOf] converts a virtual size into a side length in cells using the
// scale returned by [VBytesPerUnit]. The scale reserves a 5% margin so the
// largest legal block still fits inside a resolution×resolution grid.
//
// # Invariants
//
// After every mutation:
//
//   - no two placed squares overlap
//   - the free and occupied spans of each row tile [0, width) exactly
//   - no two free spans of a row touch
//
// # Concurrency
//
// A Layout is not safe for concurrent use. It is owned by exactly one scene,
// which mutates and reads it from a single goroutine.
package grid
