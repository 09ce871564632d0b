package scene

import (
	"cmp"
	"maps"
	"slices"
	"time"

	"github.com/matzehuels/blocktower/pkg/grid"
)

// Enter mounts txs as a brand-new block sliding in from dir.
func (s *Scene) Enter(txs []Tx, dir Direction) {
	s.Replace(txs, nil, dir)
}

// Replace rebuilds the scene around txs. Views listed in removed, and live
// views missing from txs, slide off-screen toward dir and are returned. The
// layout is then discarded and every remaining transaction is re-packed by
// descending fee rate, ties keeping their order in txs.
func (s *Scene) Replace(txs []Tx, removed []Tx, dir Direction) []*View {
	start := s.clock.Now()

	next := make(map[string]struct{}, len(txs))
	for _, tx := range txs {
		next[tx.ID] = struct{}{}
	}
	gone := make([]string, 0, len(removed))
	for _, tx := range removed {
		gone = append(gone, tx.ID)
	}
	for _, id := range s.sortedIDs() {
		if _, ok := next[id]; !ok {
			gone = append(gone, id)
		}
	}
	out := s.removeBatch(gone, start, dir)

	for i, tx := range txs {
		if v, ok := s.views[tx.ID]; ok {
			v.Tx = tx
			v.order = i
			continue
		}
		s.views[tx.ID] = &View{Tx: tx, order: i}
	}

	s.layout = grid.NewLayout(s.gridWidth, s.gridHeight)
	for _, v := range s.byFeeRate(slices.Collect(maps.Values(s.views))) {
		s.place(v)
	}

	s.logger.Debug("replace", "scene", s.id, "txs", len(s.views), "removed", len(out), "rows", s.layout.Height())
	s.updateAll(start, replaceDelay, dir)
	return out
}

// Exit slides every live view off-screen toward dir and returns them.
func (s *Scene) Exit(dir Direction) []*View {
	out := s.removeBatch(s.sortedIDs(), s.clock.Now(), dir)
	s.logger.Debug("exit", "scene", s.id, "removed", len(out))
	return out
}

// Update changes the scene incrementally. Ids in remove slide off toward dir
// (unknown ids are ignored). Transactions in change keep their square but
// take the new fee data. Transactions in add are packed into the free space
// of the current layout by descending fee rate; with resetLayout the whole
// layout is rebuilt instead. Removed views are returned.
func (s *Scene) Update(add []Tx, remove []string, change []Tx, dir Direction, resetLayout bool) []*View {
	start := s.clock.Now()
	out := s.removeBatch(remove, start, dir)

	for _, tx := range change {
		if v, ok := s.views[tx.ID]; ok {
			v.Tx = tx
			v.dirty = true
		}
	}

	base := len(s.views)
	var fresh []*View
	for i, tx := range add {
		if v, ok := s.views[tx.ID]; ok {
			v.Tx = tx
			v.dirty = true
			continue
		}
		v := &View{Tx: tx, order: base + i}
		s.views[tx.ID] = v
		fresh = append(fresh, v)
	}

	if resetLayout {
		s.layout = grid.NewLayout(s.gridWidth, s.gridHeight)
		fresh = slices.Collect(maps.Values(s.views))
	}
	for _, v := range s.byFeeRate(fresh) {
		s.place(v)
	}

	s.logger.Debug("update", "scene", s.id, "added", len(add), "removed", len(out), "changed", len(change), "reset", resetLayout)
	s.updateAll(start, updateDelay, dir)
	return out
}

// Destroy releases every live view and empties the scene.
func (s *Scene) Destroy() {
	start := s.clock.Now()
	for _, id := range s.sortedIDs() {
		v := s.views[id]
		s.renderer.Apply(Command{Kind: Destroy, ID: id, Tx: v.Tx, To: v.Screen, Start: start})
	}
	clear(s.views)
	s.layout = grid.NewLayout(s.gridWidth, s.gridHeight)
	s.logger.Debug("destroy", "scene", s.id)
}

// place packs v into the current layout.
func (s *Scene) place(v *View) {
	v.Grid = s.layout.Insert(v.ID(), s.Size(v.Tx))
	v.dirty = true
}

// removeBatch frees the squares of ids and slides their views away.
func (s *Scene) removeBatch(ids []string, start time.Time, dir Direction) []*View {
	var out []*View
	for _, id := range ids {
		if v := s.remove(id, start, dir); v != nil {
			out = append(out, v)
		}
	}
	return out
}

func (s *Scene) remove(id string, start time.Time, dir Direction) *View {
	v, ok := s.views[id]
	if !ok {
		return nil
	}
	s.layout.Remove(id)
	delete(s.views, id)
	s.dirty = true

	to := v.Screen
	to.X += dir.exitOffset(s.width)
	s.renderer.Apply(Command{
		Kind:     Exit,
		ID:       id,
		Tx:       v.Tx,
		To:       to,
		Start:    start,
		Duration: moveDuration,
		Delay:    exitDelay,
	})
	return v
}

// updateAll pushes new screen positions for dirty views, or for all views
// when the scene itself is dirty.
func (s *Scene) updateAll(start time.Time, delay time.Duration, dir Direction) {
	for _, id := range s.sortedIDs() {
		v := s.views[id]
		if !v.dirty && !s.dirty {
			continue
		}
		v.Screen = s.GridToScreen(v.Grid)
		s.setOnScreen(v, start, delay, dir)
	}
	s.dirty = false
}

// setOnScreen moves v to its screen position. A view that has never been
// shown is first parked off-screen so that it slides in.
func (s *Scene) setOnScreen(v *View, start time.Time, delay time.Duration, dir Direction) {
	if !v.Initialised {
		from := v.Screen
		from.X += dir.entryOffset(s.width)
		s.renderer.Apply(Command{Kind: Teleport, ID: v.ID(), Tx: v.Tx, To: from, Start: start})
		v.Initialised = true
	}
	s.renderer.Apply(Command{
		Kind:     Move,
		ID:       v.ID(),
		Tx:       v.Tx,
		To:       v.Screen,
		Start:    start,
		Duration: moveDuration,
		Delay:    delay,
	})
	v.dirty = false
}

// byFeeRate sorts views by descending fee rate, then by input order.
func (s *Scene) byFeeRate(views []*View) []*View {
	slices.SortFunc(views, func(a, b *View) int {
		if c := cmp.Compare(b.Tx.Rate(), a.Tx.Rate()); c != 0 {
			return c
		}
		if c := cmp.Compare(a.order, b.order); c != 0 {
			return c
		}
		return cmp.Compare(a.ID(), b.ID())
	})
	return views
}

func (s *Scene) sortedIDs() []string {
	return slices.Sorted(maps.Keys(s.views))
}
