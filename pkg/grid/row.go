package grid

import "slices"

// Row tracks the occupied and free spans of one grid row.
//
// Both lists are kept sorted by left bound. Free spans are merged so that no
// two of them touch; together with the occupied spans they tile [0, width).
type Row struct {
	y        int
	width    int
	occupied []Slot
	free     []Interval
}

// NewRow returns an empty row at index y spanning [0, width).
func NewRow(y, width int) *Row {
	return &Row{
		y:     y,
		width: width,
		free:  []Interval{{Left: 0, Right: width}},
	}
}

// Y returns the row index.
func (r *Row) Y() int { return r.y }

// Width returns the number of columns in the row.
func (r *Row) Width() int { return r.width }

// Insert marks [left, left+width) as occupied by id.
//
// The range must lie within free space; callers find it with a fit search
// first. Every overlapping free span is split, trimmed or dropped.
func (r *Row) Insert(left, width int, id string) {
	slot := Slot{Interval: Interval{Left: left, Right: left + width}, ID: id}

	idx := slices.IndexFunc(r.occupied, func(s Slot) bool { return s.Left >= slot.Right })
	if idx < 0 {
		idx = len(r.occupied)
	}
	r.occupied = slices.Insert(r.occupied, idx, slot)

	for i := 0; i < len(r.free); i++ {
		f := r.free[i]
		if !f.intersects(slot.Left, slot.Right) {
			continue
		}
		var rest []Interval
		if f.Left < slot.Left {
			rest = append(rest, Interval{Left: f.Left, Right: slot.Left})
		}
		if f.Right > slot.Right {
			rest = append(rest, Interval{Left: slot.Right, Right: f.Right})
		}
		r.free = slices.Replace(r.free, i, i+1, rest...)
		i += len(rest) - 1
	}
}

// Remove releases the occupied span starting at left and returns its columns
// to the free pool. Ranges that were never inserted are ignored.
func (r *Row) Remove(left, width int) {
	idx := slices.IndexFunc(r.occupied, func(s Slot) bool {
		return s.Left == left && s.Width() == width
	})
	if idx < 0 {
		return
	}
	r.occupied = slices.Delete(r.occupied, idx, idx+1)

	span := Interval{Left: left, Right: left + width}
	pos := slices.IndexFunc(r.free, func(f Interval) bool { return f.Left >= span.Right })
	if pos < 0 {
		pos = len(r.free)
	}
	r.free = slices.Insert(r.free, pos, span)
	r.normalize()
}

// normalize merges free spans whose bounds touch.
func (r *Row) normalize() {
	if len(r.free) < 2 {
		return
	}
	merged := r.free[:1]
	for _, f := range r.free[1:] {
		last := &merged[len(merged)-1]
		if last.Right == f.Left {
			last.Right = f.Right
			continue
		}
		merged = append(merged, f)
	}
	r.free = merged
}

// OccupantAt returns the id whose span contains column x.
func (r *Row) OccupantAt(x int) (string, bool) {
	for _, s := range r.occupied {
		if s.Left > x {
			break
		}
		if x < s.Right {
			return s.ID, true
		}
	}
	return "", false
}

// SlotsBetween returns the free spans that intersect [left, right).
func (r *Row) SlotsBetween(left, right int) []Interval {
	var out []Interval
	for _, f := range r.free {
		if f.Left >= right {
			break
		}
		if f.intersects(left, right) {
			out = append(out, f)
		}
	}
	return out
}

// Free returns a copy of the free spans.
func (r *Row) Free() []Interval { return slices.Clone(r.free) }

// Occupied returns a copy of the occupied spans.
func (r *Row) Occupied() []Slot { return slices.Clone(r.occupied) }

// Empty reports whether nothing occupies the row.
func (r *Row) Empty() bool { return len(r.occupied) == 0 }
