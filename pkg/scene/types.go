package scene

import (
	"strings"

	"github.com/matzehuels/blocktower/pkg/errors"
)

// Tx is the input unit placed on the grid.
type Tx struct {
	ID      string  `json:"id"`
	VSize   int64   `json:"vsize"`
	Fee     int64   `json:"fee,omitempty"`
	FeeRate float64 `json:"rate,omitempty"`
}

// Rate returns the fee rate in sat/vB, deriving it from Fee when FeeRate is
// unset.
func (t Tx) Rate() float64 {
	if t.FeeRate > 0 || t.VSize <= 0 {
		return t.FeeRate
	}
	return float64(t.Fee) / float64(t.VSize)
}

// Direction names the screen edge transactions animate across.
type Direction string

const (
	// Left moves the block toward the left edge: new transactions enter
	// from the right and leaving ones exit to the left.
	Left Direction = "left"
	// Right is the mirror image of Left.
	Right Direction = "right"
)

// offscreen is how many scene widths away entering and exiting
// transactions are parked.
const offscreen = 1.4

// ParseDirection converts "left" or "right" (any case) to a Direction.
// The empty string yields Left.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case "", Left:
		return Left, nil
	case Right:
		return Right, nil
	}
	return "", errors.New(errors.ErrCodeInvalidDirection, "invalid direction %q (must be 'left' or 'right')", s)
}

// entryOffset is the horizontal shift applied to a transaction's target
// position before it slides in.
func (d Direction) entryOffset(width float64) float64 {
	if d == Right {
		return -width * offscreen
	}
	return width * offscreen
}

// exitOffset is the horizontal shift a leaving transaction slides by.
func (d Direction) exitOffset(width float64) float64 {
	return -d.entryOffset(width)
}

// Rect is a square in renderer space. X and Y locate its bottom-left corner
// with the origin at the bottom-left of the scene; S is the side length.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	S float64 `json:"s"`
}

// Point is a pointer position with the origin at the top-left of the scene.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
