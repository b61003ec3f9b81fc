package wfc

// UndoEntry records a single possibility removed during one decision's
// propagation: cell (X, Y) lost Tile from its possibility set.
type UndoEntry struct {
	X, Y int
	Tile string
}

// UndoBatch is the ordered list of removals produced by one call to
// propagateRemove. Replaying it through propagateAdd exactly reverses the
// possibility-set effect of the call that produced it.
type UndoBatch []UndoEntry

type cellKey struct{ x, y int }

// propagateRemove removes every tile in remove from the cell at (x, y),
// then propagates the consequences outward with AC-4-style support
// counting: whenever a neighbor's support for one of its own
// possibilities drops to zero, that possibility is removed too, and the
// removal is queued for further propagation. Returns whether a
// contradiction (an emptied cell) was observed anywhere during the call,
// and the undo batch needed to reverse it.
func propagateRemove(g *Grid, rules *RuleTable, x, y int, remove []string) (contradiction bool, batch UndoBatch) {
	cell := g.At(x, y)
	removedHere := make(map[string]bool, len(remove))
	for _, r := range remove {
		if !cell.Has(r) {
			continue
		}
		if cell.remove(r) {
			contradiction = true
		}
		batch = append(batch, UndoEntry{x, y, r})
		removedHere[r] = true
	}
	if len(removedHere) == 0 {
		return contradiction, batch
	}

	queue := []cellKey{{x, y}}
	pending := map[cellKey]map[string]bool{{x, y}: removedHere}
	queued := map[cellKey]bool{{x, y}: true}
	affected := map[cellKey]*Cell{{x, y}: cell}

	for len(queue) > 0 {
		k := queue[0]
		queue = queue[1:]
		queued[k] = false
		removedSet := pending[k]
		delete(pending, k)
		if len(removedSet) == 0 {
			continue
		}

		for _, d := range AllDirections() {
			neighbor := g.Neighbor(k.x, k.y, d)
			if neighbor == nil {
				continue
			}
			newlyRemoved := map[string]bool{}
			for r := range removedSet {
				for a := range rules.Allowed(r, d) {
					if !neighbor.Has(a) {
						continue
					}
					if !neighbor.decrement(a, d.Opposite()) {
						continue
					}
					if neighbor.remove(a) {
						contradiction = true
					}
					batch = append(batch, UndoEntry{neighbor.X, neighbor.Y, a})
					newlyRemoved[a] = true
				}
			}
			if len(newlyRemoved) == 0 {
				continue
			}
			nk := cellKey{neighbor.X, neighbor.Y}
			affected[nk] = neighbor
			if existing, ok := pending[nk]; ok {
				for a := range newlyRemoved {
					existing[a] = true
				}
			} else {
				pending[nk] = newlyRemoved
			}
			if !queued[nk] {
				queue = append(queue, nk)
				queued[nk] = true
			}
		}
	}

	recomputeSet := recomputeClosure(g, affected)
	recomputeSupport(g, rules, recomputeSet)

	// Safety net: a full recompute should never disagree with the
	// incremental decrements above. Run it anyway (cheap insurance per
	// the design notes) and fold in anything it catches.
	if extra, extraContradiction := enforceSupportInvariant(g, rules, recomputeSet); len(extra) > 0 {
		batch = append(batch, extra...)
		if extraContradiction {
			contradiction = true
		}
	}

	return contradiction, batch
}

// propagateAdd reverses a previously returned undo batch: every removed
// tile is re-inserted, and support is recomputed from scratch for every
// affected cell. Calling propagateAdd with the batch returned by the
// immediately preceding propagateRemove restores the grid to its exact
// pre-call state (possibilities and support).
func propagateAdd(g *Grid, rules *RuleTable, batch UndoBatch) {
	affected := make(map[cellKey]*Cell, len(batch))
	for _, e := range batch {
		c := g.At(e.X, e.Y)
		c.add(e.Tile)
		affected[cellKey{e.X, e.Y}] = c
	}
	recomputeSupport(g, rules, recomputeClosure(g, affected))
}

// recomputeClosure returns affected plus every orthogonal neighbor of an
// affected cell, as a flat slice.
func recomputeClosure(g *Grid, affected map[cellKey]*Cell) []*Cell {
	closure := make(map[cellKey]*Cell, len(affected)*2)
	for k, c := range affected {
		closure[k] = c
		for _, d := range AllDirections() {
			if nb := g.Neighbor(c.X, c.Y, d); nb != nil {
				closure[cellKey{nb.X, nb.Y}] = nb
			}
		}
	}
	cells := make([]*Cell, 0, len(closure))
	for _, c := range closure {
		cells = append(cells, c)
	}
	return cells
}

// recomputeSupport recomputes support[t][d] for every given cell from the
// current possibility sets of its neighbors. support[t][d] is, by
// definition, the count of possibilities in the neighbor on side d that
// are compatible with t.
func recomputeSupport(g *Grid, rules *RuleTable, cells []*Cell) {
	for _, c := range cells {
		for _, t := range c.Possibilities() {
			for _, d := range AllDirections() {
				neighbor := g.Neighbor(c.X, c.Y, d)
				if neighbor == nil {
					continue // out-of-bounds directions are unconstrained
				}
				count := 0
				for _, a := range neighbor.Possibilities() {
					if rules.Compatible(t, a, d) {
						count++
					}
				}
				c.setSupport(t, d, count)
			}
		}
	}
}

// enforceSupportInvariant removes any possibility whose support dropped
// to zero on an in-bounds direction but that the incremental propagation
// above failed to catch. A correct propagator never needs this; it is
// kept as the defensive recompute the design notes call for.
func enforceSupportInvariant(g *Grid, rules *RuleTable, cells []*Cell) (extra UndoBatch, contradiction bool) {
	for pass := 0; pass < 4; pass++ {
		changed := false
		for _, c := range cells {
			for _, t := range c.Possibilities() {
				violated := false
				for _, d := range AllDirections() {
					if g.Neighbor(c.X, c.Y, d) == nil {
						continue
					}
					if c.Support(t, d) == 0 {
						violated = true
						break
					}
				}
				if !violated {
					continue
				}
				if c.remove(t) {
					contradiction = true
				}
				extra = append(extra, UndoEntry{c.X, c.Y, t})
				changed = true
			}
		}
		if !changed {
			break
		}
		recomputeSupport(g, rules, cells)
	}
	return extra, contradiction
}
