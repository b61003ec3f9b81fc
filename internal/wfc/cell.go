package wfc

// Cell holds the mutable per-position state during search: the set of
// tile ids still possible here, and for each possible tile and each
// direction, a count of how many possibilities remain in that neighbor
// compatible with it (the "support").
//
// Invariant: if t is in possibilities, then for every in-bounds direction
// d, support[t][d] >= 1. Out-of-bounds directions are unconstrained and
// contribute no requirement.
type Cell struct {
	X, Y int

	possible map[string]bool
	support  map[string][4]int
}

// newCell creates a cell at (x, y) with every tile in ids possible and no
// support counts computed yet (callers must run a full support recompute
// before using the cell).
func newCell(x, y int, ids []string) *Cell {
	c := &Cell{
		X:        x,
		Y:        y,
		possible: make(map[string]bool, len(ids)),
		support:  make(map[string][4]int, len(ids)),
	}
	for _, id := range ids {
		c.possible[id] = true
		c.support[id] = [4]int{}
	}
	return c
}

// Possibilities returns the tile ids still possible in this cell. The
// returned slice is a fresh copy safe for the caller to keep.
func (c *Cell) Possibilities() []string {
	out := make([]string, 0, len(c.possible))
	for id, ok := range c.possible {
		if ok {
			out = append(out, id)
		}
	}
	return out
}

// Count returns the number of tiles still possible in this cell.
func (c *Cell) Count() int {
	n := 0
	for _, ok := range c.possible {
		if ok {
			n++
		}
	}
	return n
}

// Collapsed reports whether this cell has exactly one possibility left.
func (c *Cell) Collapsed() bool {
	return c.Count() == 1
}

// CollapsedTile returns the single remaining tile id and true if the cell
// is collapsed; otherwise it returns ("", false).
func (c *Cell) CollapsedTile() (string, bool) {
	if c.Count() != 1 {
		return "", false
	}
	for id, ok := range c.possible {
		if ok {
			return id, true
		}
	}
	return "", false
}

// Has reports whether t is currently possible in this cell.
func (c *Cell) Has(t string) bool {
	return c.possible[t]
}

// remove deletes t from the possibility set. It returns true if the cell
// is now empty (a contradiction). Removing a tile not present is a no-op.
func (c *Cell) remove(t string) (contradiction bool) {
	if !c.possible[t] {
		return c.Count() == 0
	}
	delete(c.possible, t)
	return c.Count() == 0
}

// add re-inserts t into the possibility set. Used only by the restoration
// path; support counts are recomputed separately after a batch of adds.
func (c *Cell) add(t string) {
	c.possible[t] = true
	if _, ok := c.support[t]; !ok {
		c.support[t] = [4]int{}
	}
}

// Support returns the current support count of tile t on side d.
func (c *Cell) Support(t string, d Direction) int {
	return c.support[t][d]
}

// setSupport sets the support count of tile t on side d to v.
func (c *Cell) setSupport(t string, d Direction, v int) {
	s := c.support[t]
	s[d] = v
	c.support[t] = s
}

// decrement lowers the support count of tile t on side d by one and
// reports whether it is now zero. A count already at zero stays at zero
// and is reported as zero.
func (c *Cell) decrement(t string, d Direction) (reachedZero bool) {
	s := c.support[t]
	if s[d] <= 0 {
		return true
	}
	s[d]--
	c.support[t] = s
	return s[d] == 0
}
