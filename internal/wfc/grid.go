package wfc

import "fmt"

// Grid is the height x width matrix of cells a single synthesis attempt
// owns exclusively. A fresh grid is created per attempt; nothing about it
// survives a restart.
type Grid struct {
	Width, Height int
	cells         [][]*Cell // cells[y][x]
}

// newGrid builds a fresh grid where every cell starts with the full tile
// set possible and support counts fully computed against each other, then
// strips every tile left with zero support on an in-bounds side.
func newGrid(width, height int, rules *RuleTable) *Grid {
	ids := rules.TileIDs()
	g := &Grid{Width: width, Height: height}
	g.cells = make([][]*Cell, height)
	for y := 0; y < height; y++ {
		g.cells[y] = make([]*Cell, width)
		for x := 0; x < width; x++ {
			g.cells[y][x] = newCell(x, y, ids)
		}
	}
	g.recomputeSupportAll(rules)

	all := make([]*Cell, 0, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			all = append(all, g.cells[y][x])
		}
	}
	// A tile can be unsupported from the very first cell (e.g. a 2x1 grid
	// whose single tile declares no borders at all); strip those before
	// any decision is made, exactly as the propagator's safety net would
	// mid-search.
	enforceSupportInvariant(g, rules, all)

	return g
}

// At returns the cell at (x, y). Callers must keep x, y in bounds.
func (g *Grid) At(x, y int) *Cell {
	return g.cells[y][x]
}

// InBounds reports whether (x, y) names a cell of this grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// Neighbor returns the cell adjacent to (x, y) in direction d, or nil if
// that neighbor would fall outside the grid.
func (g *Grid) Neighbor(x, y int, d Direction) *Cell {
	dx, dy := d.Offset()
	nx, ny := x+dx, y+dy
	if !g.InBounds(nx, ny) {
		return nil
	}
	return g.At(nx, ny)
}

// AllCollapsed reports whether every cell in the grid is collapsed.
func (g *Grid) AllCollapsed() bool {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if !g.cells[y][x].Collapsed() {
				return false
			}
		}
	}
	return true
}

// TotalCollapsed counts how many cells are currently collapsed.
func (g *Grid) TotalCollapsed() int {
	n := 0
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.cells[y][x].Collapsed() {
				n++
			}
		}
	}
	return n
}

// recomputeSupportAll recomputes support from scratch for every cell in
// the grid. Used only at grid construction time.
func (g *Grid) recomputeSupportAll(rules *RuleTable) {
	cells := make([]*Cell, 0, g.Width*g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			cells = append(cells, g.cells[y][x])
		}
	}
	recomputeSupport(g, rules, cells)
}

// Arrangement renders the grid as a height x width matrix of tile ids.
// Uncollapsed cells are represented by the empty string sentinel.
func (g *Grid) Arrangement() [][]string {
	out := make([][]string, g.Height)
	for y := 0; y < g.Height; y++ {
		row := make([]string, g.Width)
		for x := 0; x < g.Width; x++ {
			if id, ok := g.cells[y][x].CollapsedTile(); ok {
				row[x] = id
			} else {
				row[x] = ""
			}
		}
		out[y] = row
	}
	return out
}

// GridDimensions validates and computes the grid size from pixel target
// dimensions and a tile's pixel size, per the external interface: both
// quotients must be exact integers.
func GridDimensions(targetWidth, targetHeight, tileWidth, tileHeight int) (width, height int, err error) {
	if targetWidth <= 0 || targetHeight <= 0 || tileWidth <= 0 || tileHeight <= 0 {
		return 0, 0, fmt.Errorf("%w: dimensions must be positive", ErrInvalidInput)
	}
	if targetWidth%tileWidth != 0 {
		return 0, 0, fmt.Errorf("%w: target width %d is not a multiple of tile width %d", ErrInvalidInput, targetWidth, tileWidth)
	}
	if targetHeight%tileHeight != 0 {
		return 0, 0, fmt.Errorf("%w: target height %d is not a multiple of tile height %d", ErrInvalidInput, targetHeight, tileHeight)
	}
	return targetWidth / tileWidth, targetHeight / tileHeight, nil
}
