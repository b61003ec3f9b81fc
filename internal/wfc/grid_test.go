package wfc

import "testing"

func mustRules(t *testing.T, tiles []TileDescriptor) *RuleTable {
	t.Helper()
	rt, err := NewRuleTable(tiles)
	if err != nil {
		t.Fatalf("unexpected error building rule table: %v", err)
	}
	return rt
}

func TestNewGridFullyPossible(t *testing.T) {
	rt := mustRules(t, []TileDescriptor{
		{ID: "a", Width: 16, Height: 16, Borders: [4][]string{North: {"a"}, South: {"a"}, East: {"a"}, West: {"a"}}},
	})
	g := newGrid(3, 2, rt)
	if g.Width != 3 || g.Height != 2 {
		t.Fatalf("unexpected grid size %dx%d", g.Width, g.Height)
	}
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if !g.At(x, y).Has("a") {
				t.Errorf("expected (%d,%d) to have tile a", x, y)
			}
		}
	}
}

func TestNewGridStripsUnsupportedTile(t *testing.T) {
	// A single tile declaring no borders at all cannot legally sit next to
	// itself, so a 2x1 grid should strip it immediately, leaving every
	// cell empty.
	rt := mustRules(t, []TileDescriptor{{ID: "lonely", Width: 16, Height: 16}})
	g := newGrid(2, 1, rt)
	if g.At(0, 0).Count() != 0 {
		t.Errorf("expected cell (0,0) to be stripped to 0 possibilities, got %d", g.At(0, 0).Count())
	}
	if g.At(1, 0).Count() != 0 {
		t.Errorf("expected cell (1,0) to be stripped to 0 possibilities, got %d", g.At(1, 0).Count())
	}
}

func TestNewGridSingleCellNeedsNoSupport(t *testing.T) {
	// A 1x1 grid has no in-bounds neighbors, so even a tile declaring no
	// borders at all stays possible and the grid starts already collapsed.
	rt := mustRules(t, []TileDescriptor{{ID: "lonely", Width: 16, Height: 16}})
	g := newGrid(1, 1, rt)
	if !g.AllCollapsed() {
		t.Fatal("expected a 1x1 grid with one tile to start collapsed")
	}
}

func TestGridNeighborOutOfBounds(t *testing.T) {
	rt := mustRules(t, []TileDescriptor{{ID: "a", Width: 16, Height: 16, Borders: [4][]string{North: {"a"}, South: {"a"}, East: {"a"}, West: {"a"}}}})
	g := newGrid(2, 2, rt)
	if n := g.Neighbor(0, 0, North); n != nil {
		t.Errorf("expected nil neighbor north of (0,0), got %v", n)
	}
	if n := g.Neighbor(0, 0, East); n == nil {
		t.Error("expected a neighbor east of (0,0)")
	}
}

func TestGridArrangementUsesEmptySentinel(t *testing.T) {
	rt := mustRules(t, []TileDescriptor{
		{ID: "a", Width: 16, Height: 16, Borders: [4][]string{North: {"a", "b"}, South: {"a", "b"}, East: {"a", "b"}, West: {"a", "b"}}},
		{ID: "b", Width: 16, Height: 16, Borders: [4][]string{North: {"a", "b"}, South: {"a", "b"}, East: {"a", "b"}, West: {"a", "b"}}},
	})
	g := newGrid(1, 1, rt)
	arr := g.Arrangement()
	if arr[0][0] != "" {
		t.Errorf("expected uncollapsed cell to render as empty string, got %q", arr[0][0])
	}
}

func TestGridDimensions(t *testing.T) {
	w, h, err := GridDimensions(64, 32, 16, 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w != 4 || h != 2 {
		t.Fatalf("got %dx%d, want 4x2", w, h)
	}
}

func TestGridDimensionsRejectsNonMultiple(t *testing.T) {
	if _, _, err := GridDimensions(50, 32, 16, 16); err == nil {
		t.Fatal("expected error for non-exact width division")
	}
}

func TestGridDimensionsRejectsNonPositive(t *testing.T) {
	if _, _, err := GridDimensions(0, 32, 16, 16); err == nil {
		t.Fatal("expected error for non-positive target width")
	}
}
