package grid

import (
	"fmt"
	"maps"
	"math/rand/v2"
	"testing"
)

func TestInsertSingleSmall(t *testing.T) {
	l := New(10)
	size := SizeOf(250, 250, l.Width())
	if size != 1 {
		t.Fatalf("SizeOf(250) = %d, want 1", size)
	}

	got := l.Insert("a", size)
	if want := (Square{X: 0, Y: 0, S: 1}); got != want {
		t.Errorf("Insert() = %v, want %v", got, want)
	}
	if l.Height() != 1 {
		t.Errorf("Height() = %d, want 1", l.Height())
	}
	if id, ok := l.TxAt(0, 0); !ok || id != "a" {
		t.Errorf("TxAt(0,0) = %q,%v, want a,true", id, ok)
	}
}

func TestInsertSameRowBeforeNewRow(t *testing.T) {
	l := New(10)
	first := l.Insert("a", 2)
	second := l.Insert("b", 2)

	if want := (Square{X: 0, Y: 0, S: 2}); first != want {
		t.Errorf("first = %v, want %v", first, want)
	}
	if want := (Square{X: 2, Y: 0, S: 2}); second != want {
		t.Errorf("second = %v, want %v", second, want)
	}
	if l.Height() != 2 {
		t.Errorf("Height() = %d, want 2", l.Height())
	}
}

func TestRemoveThenReinsertReusesSlot(t *testing.T) {
	l := New(9)
	for _, id := range []string{"a", "b", "c"} {
		l.Insert(id, 3)
	}
	mid, _ := l.Position("b")

	if !l.Remove("b") {
		t.Fatal("Remove(b) = false")
	}
	got := l.Insert("d", 3)
	if got != mid {
		t.Errorf("reinsert = %v, want freed slot %v", got, mid)
	}
	if l.Height() != 3 {
		t.Errorf("Height() = %d, want 3 (no new rows)", l.Height())
	}
}

func TestRemoveUnknownIsNoop(t *testing.T) {
	l := New(4)
	l.Insert("a", 1)
	if l.Remove("missing") {
		t.Error("Remove(missing) = true, want false")
	}
	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1", l.Len())
	}
}

func TestInsertClampsSize(t *testing.T) {
	tests := []struct {
		name string
		size int
		want int
	}{
		{"zero", 0, 1},
		{"negative", -3, 1},
		{"too wide", 12, 5},
		{"exact", 5, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(5)
			if got := l.Insert("a", tt.size); got.S != tt.want {
				t.Errorf("Insert(%d).S = %d, want %d", tt.size, got.S, tt.want)
			}
		})
	}
}

func TestInsertFullWidthFallsBackToNewRow(t *testing.T) {
	l := New(4)
	l.Insert("a", 1)
	got := l.Insert("big", 4)
	if want := (Square{X: 0, Y: 1, S: 4}); got != want {
		t.Errorf("Insert(big) = %v, want %v", got, want)
	}
	if l.Height() != 5 {
		t.Errorf("Height() = %d, want 5", l.Height())
	}
}

func TestFitDoesNotMutate(t *testing.T) {
	l := New(6)
	l.Insert("a", 2)
	before := l.Squares()
	if got := l.Fit(2); got != (Square{X: 2, Y: 0, S: 2}) {
		t.Errorf("Fit(2) = %v", got)
	}
	if !maps.Equal(before, l.Squares()) {
		t.Error("Fit mutated the layout")
	}
}

func TestInsertExistingIDMoves(t *testing.T) {
	l := New(6)
	l.Insert("a", 2)
	l.Insert("a", 3)
	if l.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", l.Len())
	}
	sq, _ := l.Position("a")
	if sq.S != 3 {
		t.Errorf("S = %d, want 3", sq.S)
	}
	checkInvariants(t, l)
}

func TestDeterministicPlacement(t *testing.T) {
	sizes := []int{5, 3, 3, 2, 2, 2, 1, 1, 1, 1, 4, 1}
	build := func() map[string]Square {
		l := New(12)
		for i, s := range sizes {
			l.Insert(fmt.Sprintf("tx%d", i), s)
		}
		return l.Squares()
	}
	if a, b := build(), build(); !maps.Equal(a, b) {
		t.Errorf("layouts differ:\n%v\n%v", a, b)
	}
}

func TestRandomOperationsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 42))
	l := New(20)
	var live []string

	for i := 0; i < 2000; i++ {
		if len(live) > 0 && rng.IntN(3) == 0 {
			j := rng.IntN(len(live))
			l.Remove(live[j])
			live = append(live[:j], live[j+1:]...)
		} else {
			id := fmt.Sprintf("tx%d", i)
			l.Insert(id, 1+rng.IntN(6))
			live = append(live, id)
		}
		checkInvariants(t, l)
		if t.Failed() {
			t.Fatalf("invariant broken after op %d", i)
		}
	}
}

// checkInvariants verifies tiling, normalization, slot bookkeeping,
// no-overlap and the area bound.
func checkInvariants(t *testing.T, l *Layout) {
	t.Helper()

	for _, row := range l.Rows() {
		covered := make([]int, l.Width())
		for _, s := range row.Occupied() {
			for x := s.Left; x < s.Right; x++ {
				covered[x]++
			}
		}
		free := row.Free()
		for i, f := range free {
			if f.Left >= f.Right {
				t.Errorf("row %d: empty free span %v", row.Y(), f)
			}
			if i > 0 && free[i-1].Right == f.Left {
				t.Errorf("row %d: touching free spans %v %v", row.Y(), free[i-1], f)
			}
			for x := f.Left; x < f.Right; x++ {
				covered[x]++
			}
		}
		for x, n := range covered {
			if n != 1 {
				t.Errorf("row %d: column %d covered %d times", row.Y(), x, n)
			}
		}
	}

	squares := l.Squares()
	area := 0
	for id, sq := range squares {
		area += sq.Area()
		for y := sq.Y; y < sq.Top(); y++ {
			for x := sq.X; x < sq.Right(); x++ {
				if got, ok := l.TxAt(x, y); !ok || got != id {
					t.Errorf("cell (%d,%d) = %q, want %q", x, y, got, id)
				}
			}
		}
		for other, o := range squares {
			if other != id && sq.Overlaps(o) {
				t.Errorf("%s %v overlaps %s %v", id, sq, other, o)
			}
		}
	}
	if limit := l.Width() * l.Height(); area > limit {
		t.Errorf("placed area %d exceeds grid area %d", area, limit)
	}
}
