package grid

import "math"

// visualMargin shrinks the effective resolution so a block filled to its
// capacity still fits inside the grid.
const visualMargin = 1.05

// VBytesPerUnit returns how many virtual bytes one grid cell represents for a
// block of the given capacity drawn on a resolution×resolution grid.
func VBytesPerUnit(capacity int64, resolution int) float64 {
	side := float64(resolution) / visualMargin
	return float64(capacity) / (side * side)
}

// SizeOf returns the side length in cells of a transaction of vsize virtual
// bytes, clamped to [1, width]. It is non-decreasing in vsize.
func SizeOf(vsize int64, vbytesPerUnit float64, width int) int {
	if vbytesPerUnit <= 0 || vsize <= 0 {
		return 1
	}
	s := int(math.Round(math.Sqrt(float64(vsize) / vbytesPerUnit)))
	return min(max(s, 1), max(width, 1))
}
