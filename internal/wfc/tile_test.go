package wfc

import "testing"

func TestDirectionOpposite(t *testing.T) {
	cases := map[Direction]Direction{
		North: South,
		South: North,
		East:  West,
		West:  East,
	}
	for d, want := range cases {
		if got := d.Opposite(); got != want {
			t.Errorf("%v.Opposite() = %v, want %v", d, got, want)
		}
	}
}

func TestDirectionOffset(t *testing.T) {
	cases := []struct {
		d      Direction
		dx, dy int
	}{
		{North, 0, -1},
		{East, 1, 0},
		{South, 0, 1},
		{West, -1, 0},
	}
	for _, c := range cases {
		dx, dy := c.d.Offset()
		if dx != c.dx || dy != c.dy {
			t.Errorf("%v.Offset() = (%d, %d), want (%d, %d)", c.d, dx, dy, c.dx, c.dy)
		}
	}
}

func TestTileDeclares(t *testing.T) {
	tile := TileDescriptor{ID: "grass", Width: 16, Height: 16, Borders: [4][]string{
		North: {"grass", "water"},
	}}
	if !tile.declares(North, "water") {
		t.Error("expected grass to declare water on north")
	}
	if tile.declares(East, "water") {
		t.Error("did not expect grass to declare water on east")
	}
}

func TestValidateTileSetRejectsEmpty(t *testing.T) {
	if _, err := validateTileSet(nil); err == nil {
		t.Fatal("expected error for empty tile set")
	}
}

func TestValidateTileSetRejectsNonUniformSize(t *testing.T) {
	tiles := []TileDescriptor{
		{ID: "a", Width: 16, Height: 16},
		{ID: "b", Width: 32, Height: 16},
	}
	if _, err := validateTileSet(tiles); err == nil {
		t.Fatal("expected error for mismatched tile dimensions")
	}
}

func TestValidateTileSetRejectsEmptyID(t *testing.T) {
	tiles := []TileDescriptor{{ID: "", Width: 16, Height: 16}}
	if _, err := validateTileSet(tiles); err == nil {
		t.Fatal("expected error for empty tile id")
	}
}

func TestValidateTileSetDedupesLastWins(t *testing.T) {
	tiles := []TileDescriptor{
		{ID: "a", Width: 16, Height: 16, Borders: [4][]string{North: {"first"}}},
		{ID: "a", Width: 16, Height: 16, Borders: [4][]string{North: {"second"}}},
	}
	out, err := validateTileSet(tiles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 tile after dedup, got %d", len(out))
	}
	if out[0].Borders[North][0] != "second" {
		t.Errorf("expected last occurrence to win, got %v", out[0].Borders[North])
	}
}
