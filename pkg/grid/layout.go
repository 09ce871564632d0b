package grid

import "maps"

// Layout is the packing surface: rows that grow upward on demand plus the
// square assigned to every placed transaction.
type Layout struct {
	width     int
	maxHeight int
	rows      []*Row
	squares   map[string]Square
}

// New returns an empty layout width cells wide. The search depth is bounded
// by width, which is also the tallest square SizeOf can produce.
func New(width int) *Layout {
	return NewLayout(width, width)
}

// NewLayout returns an empty layout width cells wide whose fit search never
// recurses deeper than height rows.
func NewLayout(width, height int) *Layout {
	if height < width {
		height = width
	}
	return &Layout{
		width:     width,
		maxHeight: height,
		squares:   make(map[string]Square),
	}
}

// Width returns the number of columns.
func (l *Layout) Width() int { return l.width }

// Height returns the number of rows allocated so far.
func (l *Layout) Height() int { return len(l.rows) }

// Len returns the number of placed transactions.
func (l *Layout) Len() int { return len(l.squares) }

// Rows returns the allocated rows, bottom first. The slice is shared; callers
// must not mutate the rows.
func (l *Layout) Rows() []*Row { return l.rows }

// Row returns row y, or nil when it has not been allocated.
func (l *Layout) Row(y int) *Row {
	if y < 0 || y >= len(l.rows) {
		return nil
	}
	return l.rows[y]
}

// Position returns the square assigned to id.
func (l *Layout) Position(id string) (Square, bool) {
	sq, ok := l.squares[id]
	return sq, ok
}

// Squares returns a copy of the id → square map.
func (l *Layout) Squares() map[string]Square { return maps.Clone(l.squares) }

// TxAt returns the id occupying cell (x, y).
func (l *Layout) TxAt(x, y int) (string, bool) {
	row := l.Row(y)
	if row == nil || x < 0 || x >= l.width {
		return "", false
	}
	return row.OccupantAt(x)
}

// Insert places id as a size×size square and returns its position.
// The size is clamped to [1, width]. An id that is already placed is moved.
func (l *Layout) Insert(id string, size int) Square {
	if _, ok := l.squares[id]; ok {
		l.Remove(id)
	}
	size = l.clamp(size)
	sq := l.Fit(size)
	for y := sq.Y; y < sq.Top(); y++ {
		for y >= len(l.rows) {
			l.addRow()
		}
		l.rows[y].Insert(sq.X, sq.S, id)
	}
	l.squares[id] = sq
	return sq
}

// Remove frees the square held by id. It reports false for unknown ids.
func (l *Layout) Remove(id string) bool {
	sq, ok := l.squares[id]
	if !ok {
		return false
	}
	for y := sq.Y; y < sq.Top() && y < len(l.rows); y++ {
		l.rows[y].Remove(sq.X, sq.S)
	}
	delete(l.squares, id)
	return true
}

// Fit returns where a size×size square would be placed without placing it.
func (l *Layout) Fit(size int) Square {
	size = l.clamp(size)
	for y := range l.rows {
		if sq, ok := l.findFit(0, l.width, y, y, size); ok {
			return sq
		}
	}
	return Square{X: 0, Y: len(l.rows), S: size}
}

// findFit narrows [left, right) row by row starting at start. It succeeds
// once size rows have been crossed or the search climbs past the last
// allocated row, since everything above is empty.
func (l *Layout) findFit(left, right, row, start, size int) (Square, bool) {
	if row-start >= size || row >= len(l.rows) {
		return Square{X: left, Y: start, S: size}, true
	}
	if row-start >= l.maxHeight {
		return Square{}, false
	}
	for _, slot := range l.rows[row].SlotsBetween(left, right) {
		lo, hi := max(left, slot.Left), min(right, slot.Right)
		if hi-lo < size {
			continue
		}
		if sq, ok := l.findFit(lo, hi, row+1, start, size); ok {
			return sq, true
		}
	}
	return Square{}, false
}

func (l *Layout) addRow() *Row {
	row := NewRow(len(l.rows), l.width)
	l.rows = append(l.rows, row)
	return row
}

func (l *Layout) clamp(size int) int {
	return min(max(size, 1), l.width)
}
