package source

import (
	"cmp"
	"slices"

	"github.com/matzehuels/blocktower/pkg/scene"
)

// Project selects the transactions a miner would include in the next block:
// walking txs by descending fee rate, each one is taken if it still fits in
// limit virtual bytes and skipped otherwise. Ties are broken by id so the
// result does not depend on input order. txs is not modified.
func Project(txs []scene.Tx, limit int64) []scene.Tx {
	sorted := slices.Clone(txs)
	slices.SortFunc(sorted, func(a, b scene.Tx) int {
		if c := cmp.Compare(b.Rate(), a.Rate()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	out := sorted[:0]
	var used int64
	for _, tx := range sorted {
		if tx.VSize <= 0 || used+tx.VSize > limit {
			continue
		}
		used += tx.VSize
		out = append(out, tx)
	}
	return out
}
