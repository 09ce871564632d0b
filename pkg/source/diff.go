package source

import "github.com/matzehuels/blocktower/pkg/scene"

// Delta is the change between two loads of a source.
type Delta struct {
	Add    []scene.Tx // in next but not prev
	Remove []string   // ids in prev but not next
	Change []scene.Tx // in both, with different fee data
}

// Empty reports whether nothing changed.
func (d Delta) Empty() bool {
	return len(d.Add) == 0 && len(d.Remove) == 0 && len(d.Change) == 0
}

// Diff compares two transaction sets by id. Add and Change keep the order of
// next; Remove keeps the order of prev.
func Diff(prev, next []scene.Tx) Delta {
	before := make(map[string]scene.Tx, len(prev))
	for _, tx := range prev {
		before[tx.ID] = tx
	}
	after := make(map[string]struct{}, len(next))

	var d Delta
	for _, tx := range next {
		after[tx.ID] = struct{}{}
		old, ok := before[tx.ID]
		switch {
		case !ok:
			d.Add = append(d.Add, tx)
		case old != tx:
			d.Change = append(d.Change, tx)
		}
	}
	for _, tx := range prev {
		if _, ok := after[tx.ID]; !ok {
			d.Remove = append(d.Remove, tx.ID)
		}
	}
	return d
}
