package wfc

import "testing"

func TestNewRuleTableRejectsInvalidTiles(t *testing.T) {
	if _, err := NewRuleTable(nil); err == nil {
		t.Fatal("expected error for empty tile set")
	}
}

func TestCompatibleEitherSideDeclares(t *testing.T) {
	// grass declares water on its east side; water declares nothing back.
	// The relation should still be compatible in both directions.
	tiles := []TileDescriptor{
		{ID: "grass", Width: 16, Height: 16, Borders: [4][]string{East: {"water"}}},
		{ID: "water", Width: 16, Height: 16},
	}
	rt, err := NewRuleTable(tiles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rt.Compatible("grass", "water", East) {
		t.Error("expected grass -> water east to be compatible")
	}
	if !rt.Compatible("water", "grass", West) {
		t.Error("expected water -> grass west to be compatible via grass's declaration")
	}
}

func TestCompatibleNeitherSideDeclares(t *testing.T) {
	tiles := []TileDescriptor{
		{ID: "a", Width: 16, Height: 16},
		{ID: "b", Width: 16, Height: 16},
	}
	rt, err := NewRuleTable(tiles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rt.Compatible("a", "b", North) {
		t.Error("expected a, b incompatible when neither declares the other")
	}
}

func TestAllowedSetMatchesCompatible(t *testing.T) {
	tiles := []TileDescriptor{
		{ID: "a", Width: 16, Height: 16, Borders: [4][]string{North: {"a", "b"}}},
		{ID: "b", Width: 16, Height: 16, Borders: [4][]string{North: {"a"}}},
	}
	rt, err := NewRuleTable(tiles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	allowed := rt.Allowed("a", North)
	for _, id := range []string{"a", "b"} {
		if !allowed[id] {
			t.Errorf("expected %q in Allowed(a, North)", id)
		}
	}
}

func TestCompatibleUnknownTile(t *testing.T) {
	tiles := []TileDescriptor{{ID: "a", Width: 16, Height: 16}}
	rt, err := NewRuleTable(tiles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rt.Compatible("missing", "a", North) {
		t.Error("expected false for an unknown source tile")
	}
}

func TestTileIDsAndHas(t *testing.T) {
	tiles := []TileDescriptor{
		{ID: "a", Width: 16, Height: 16},
		{ID: "b", Width: 16, Height: 16},
	}
	rt, err := NewRuleTable(tiles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rt.Has("a") || !rt.Has("b") || rt.Has("c") {
		t.Error("Has did not match expected membership")
	}
	ids := rt.TileIDs()
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %d", len(ids))
	}
}
