// Package source loads the transactions a scene displays.
//
// Transactions come from three places:
//
//   - A bitcoind node over JSON-RPC ([RPCSource]): either the projected next
//     block built from the mempool, or a mined block by height.
//   - A serialized block ([DecodeBlock]), as returned by `getblock <hash> 0`.
//   - A JSON file listing transactions ([ReadFile]), the format written by
//     `blocktower render --format json`.
//
// Mempool snapshots are cut down to one block with [Project], which keeps the
// highest fee-rate transactions that fit the block limit. [Diff] compares two
// loads so that a live scene can be updated incrementally.
package source
