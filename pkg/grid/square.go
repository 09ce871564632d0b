package grid

import "fmt"

// Square is a placement on the grid. X is the column of its left edge, Y the
// row of its bottom edge and S its side length in cells.
type Square struct {
	X int `json:"x"`
	Y int `json:"y"`
	S int `json:"s"`
}

// Right returns the first column past the square.
func (s Square) Right() int { return s.X + s.S }

// Top returns the first row past the square.
func (s Square) Top() int { return s.Y + s.S }

// Area returns the number of cells covered by the square.
func (s Square) Area() int { return s.S * s.S }

// Contains reports whether cell (x, y) lies inside the square.
func (s Square) Contains(x, y int) bool {
	return x >= s.X && x < s.Right() && y >= s.Y && y < s.Top()
}

// Overlaps reports whether the two squares share at least one cell.
func (s Square) Overlaps(o Square) bool {
	return s.X < o.Right() && o.X < s.Right() && s.Y < o.Top() && o.Y < s.Top()
}

func (s Square) String() string {
	return fmt.Sprintf("{x:%d y:%d s:%d}", s.X, s.Y, s.S)
}

// Interval is a half-open horizontal span [Left, Right) within one row.
type Interval struct {
	Left, Right int
}

// Width returns the number of columns in the span.
func (i Interval) Width() int { return i.Right - i.Left }

// intersects reports whether the span overlaps [left, right).
func (i Interval) intersects(left, right int) bool {
	return i.Left < right && i.Right > left
}

// Slot is an occupied span tagged with the transaction that owns it.
type Slot struct {
	Interval
	ID string
}
