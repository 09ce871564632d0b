package scene

import (
	"cmp"
	"slices"

	"github.com/matzehuels/blocktower/pkg/grid"
)

// Item is one placed transaction in a Snapshot.
type Item struct {
	Tx     Tx          `json:"tx"`
	Grid   grid.Square `json:"grid"`
	Screen Rect        `json:"screen"`
}

// Snapshot is an immutable copy of a scene's placements, consumed by sinks
// and the HTTP API.
type Snapshot struct {
	ID            string  `json:"id"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	GridWidth     int     `json:"grid_width"`
	Rows          int     `json:"rows"`
	CellSize      float64 `json:"cell_size"`
	UnitPadding   float64 `json:"unit_padding"`
	VBytesPerUnit float64 `json:"vbytes_per_unit"`
	Items         []Item  `json:"items"`
}

// Snapshot copies the current placements, ordered bottom row first and left
// to right within a row.
func (s *Scene) Snapshot() Snapshot {
	items := make([]Item, 0, len(s.views))
	for _, v := range s.views {
		items = append(items, Item{Tx: v.Tx, Grid: v.Grid, Screen: s.GridToScreen(v.Grid)})
	}
	slices.SortFunc(items, func(a, b Item) int {
		if c := cmp.Compare(a.Grid.Y, b.Grid.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.Grid.X, b.Grid.X)
	})
	return Snapshot{
		ID:            s.id,
		Width:         s.width,
		Height:        s.height,
		GridWidth:     s.gridWidth,
		Rows:          s.layout.Height(),
		CellSize:      s.cellSize,
		UnitPadding:   s.unitPadding,
		VBytesPerUnit: s.vbytesPerUnit,
		Items:         items,
	}
}

// TotalVSize sums the virtual size of every item.
func (s Snapshot) TotalVSize() int64 {
	var n int64
	for _, it := range s.Items {
		n += it.Tx.VSize
	}
	return n
}

// TotalFees sums the absolute fees of every item.
func (s Snapshot) TotalFees() int64 {
	var n int64
	for _, it := range s.Items {
		n += it.Tx.Fee
	}
	return n
}
