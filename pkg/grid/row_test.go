package grid

import (
	"slices"
	"testing"
)

func TestRowInsert(t *testing.T) {
	tests := []struct {
		name     string
		inserts  []Interval
		wantFree []Interval
	}{
		{
			name:     "from left side",
			inserts:  []Interval{{0, 3}},
			wantFree: []Interval{{3, 10}},
		},
		{
			name:     "from right side",
			inserts:  []Interval{{7, 10}},
			wantFree: []Interval{{0, 7}},
		},
		{
			name:     "from middle",
			inserts:  []Interval{{4, 6}},
			wantFree: []Interval{{0, 4}, {6, 10}},
		},
		{
			name:     "totally covered",
			inserts:  []Interval{{0, 4}, {6, 10}, {4, 6}},
			wantFree: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRow(0, 10)
			for i, in := range tt.inserts {
				r.Insert(in.Left, in.Width(), string(rune('a'+i)))
			}
			if got := r.Free(); !slices.Equal(got, tt.wantFree) {
				t.Errorf("Free() = %v, want %v", got, tt.wantFree)
			}
		})
	}
}

func TestRowOccupiedSorted(t *testing.T) {
	r := NewRow(0, 10)
	r.Insert(6, 2, "c")
	r.Insert(0, 2, "a")
	r.Insert(3, 2, "b")

	var ids []string
	for _, s := range r.Occupied() {
		ids = append(ids, s.ID)
	}
	if want := []string{"a", "b", "c"}; !slices.Equal(ids, want) {
		t.Errorf("occupied order = %v, want %v", ids, want)
	}
}

func TestRowRemoveNormalizes(t *testing.T) {
	r := NewRow(0, 9)
	r.Insert(0, 3, "a")
	r.Insert(3, 3, "b")
	r.Insert(6, 3, "c")

	r.Remove(3, 3)
	if got, want := r.Free(), []Interval{{3, 6}}; !slices.Equal(got, want) {
		t.Fatalf("after middle remove Free() = %v, want %v", got, want)
	}

	r.Remove(0, 3)
	if got, want := r.Free(), []Interval{{0, 6}}; !slices.Equal(got, want) {
		t.Fatalf("after left remove Free() = %v, want %v", got, want)
	}

	r.Remove(6, 3)
	if got, want := r.Free(), []Interval{{0, 9}}; !slices.Equal(got, want) {
		t.Fatalf("after last remove Free() = %v, want %v", got, want)
	}
	if !r.Empty() {
		t.Error("Empty() = false")
	}
}

func TestRowRemoveUnknownRange(t *testing.T) {
	r := NewRow(0, 5)
	r.Insert(1, 2, "a")
	r.Remove(0, 1)
	if got, want := r.Free(), []Interval{{0, 1}, {3, 5}}; !slices.Equal(got, want) {
		t.Errorf("Free() = %v, want %v", got, want)
	}
}

func TestRowOccupantAt(t *testing.T) {
	r := NewRow(0, 10)
	r.Insert(2, 3, "a")
	r.Insert(7, 1, "b")

	tests := []struct {
		x      int
		want   string
		wantOK bool
	}{
		{0, "", false},
		{2, "a", true},
		{4, "a", true},
		{5, "", false},
		{7, "b", true},
		{8, "", false},
	}
	for _, tt := range tests {
		got, ok := r.OccupantAt(tt.x)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("OccupantAt(%d) = %q,%v, want %q,%v", tt.x, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestRowSlotsBetween(t *testing.T) {
	r := NewRow(0, 10)
	r.Insert(3, 2, "a")

	got := r.SlotsBetween(2, 6)
	if want := []Interval{{0, 3}, {5, 10}}; !slices.Equal(got, want) {
		t.Errorf("SlotsBetween(2,6) = %v, want %v", got, want)
	}
	if got := r.SlotsBetween(3, 5); len(got) != 0 {
		t.Errorf("SlotsBetween(3,5) = %v, want none", got)
	}
}
