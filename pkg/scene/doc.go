// Package scene orchestrates one visible block of transactions.
//
// A [Scene] owns a [grid.Layout], the live set of transaction [View] values
// and the transform between grid cells and renderer coordinates. It drives
// the transaction lifecycle and describes every visual change as a [Command]
// handed to a [Renderer]. The scene never draws and never waits for an
// animation to finish.
//
// # Lifecycle
//
//   - [Scene.Enter] mounts a fresh set of transactions.
//   - [Scene.Replace] exits the removed transactions, discards the layout and
//     re-packs everything by descending fee rate.
//   - [Scene.Update] adds, removes and re-rates transactions incrementally.
//   - [Scene.Exit] slides every transaction off-screen.
//   - [Scene.Destroy] releases all renderer resources.
//
// New transactions are first teleported off-screen (1.4 scene widths away on
// the side given by the [Direction]) and then moved into place, so they slide
// in instead of popping up.
//
// # Coordinates
//
// The grid is laid out left-to-right, bottom-to-top. [Scene.GridToScreen]
// rotates it 90° counter-clockwise and flips it vertically into renderer
// space, whose origin is the bottom-left corner. [Scene.ScreenToGrid] maps a
// pointer position, whose origin is the top-left corner, back to the cell
// under it. The two are not exact inverses: the inverse drops the square's
// size and is meant for hit-testing only.
//
// # Concurrency
//
// A Scene is not safe for concurrent use. Hosts that share one between
// goroutines must serialize access.
package scene
