package source

import (
	"context"

	"github.com/matzehuels/blocktower/pkg/scene"
)

// Source produces a set of transactions to lay out.
type Source interface {
	// Name identifies what is loaded, e.g. "mempool" or "block:840000".
	// It is used in logs and cache keys.
	Name() string

	// Load fetches the transactions.
	Load(ctx context.Context) ([]scene.Tx, error)
}

// Static is a Source over a fixed transaction list.
type Static struct {
	Label string
	Txs   []scene.Tx
}

// Name returns the label.
func (s Static) Name() string { return s.Label }

// Load returns a copy of the list.
func (s Static) Load(context.Context) ([]scene.Tx, error) {
	return append([]scene.Tx(nil), s.Txs...), nil
}

var _ Source = Static{}
