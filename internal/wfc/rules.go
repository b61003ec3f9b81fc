package wfc

// RuleTable is the compiled adjacency relation: Allowed[t][d] is the set of
// tile ids permitted on side d of a cell currently holding tile t. It is
// immutable after construction and, per the concurrency model, may be
// shared across concurrent syntheses.
type RuleTable struct {
	tiles   []TileDescriptor
	byID    map[string]*TileDescriptor
	allowed map[string][4]map[string]bool
}

// NewRuleTable compiles the adjacency relation for a tile set. Two tiles A
// and B are compatible across direction d (from A toward B) iff
// B.id is declared by A on side d, OR A.id is declared by B on the
// opposite side. This "either side declares it" rule unions asymmetric
// border hints into a symmetric relation.
//
// Complexity is O(T^2 * 4) for T tiles, which is acceptable for the tile
// counts (a few hundred at most) this solver targets.
func NewRuleTable(tiles []TileDescriptor) (*RuleTable, error) {
	deduped, err := validateTileSet(tiles)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*TileDescriptor, len(deduped))
	for i := range deduped {
		byID[deduped[i].ID] = &deduped[i]
	}

	rt := &RuleTable{
		tiles:   deduped,
		byID:    byID,
		allowed: make(map[string][4]map[string]bool, len(deduped)),
	}

	for _, t := range deduped {
		var sets [4]map[string]bool
		for _, d := range AllDirections() {
			sets[d] = make(map[string]bool)
			for _, u := range deduped {
				if rt.compatible(&t, u.ID, d) {
					sets[d][u.ID] = true
				}
			}
		}
		rt.allowed[t.ID] = sets
	}

	return rt, nil
}

// compatible implements the symmetric predicate above for the ordered pair
// (a, otherID, d): a sits at the current cell, otherID is the candidate
// for the neighbor on side d.
func (rt *RuleTable) compatible(a *TileDescriptor, otherID string, d Direction) bool {
	if a.declares(d, otherID) {
		return true
	}
	other, ok := rt.byID[otherID]
	if !ok {
		return false
	}
	return other.declares(d.Opposite(), a.ID)
}

// Allowed returns the set of tile ids permitted on side d of a cell
// holding tile t. The returned map must not be mutated.
func (rt *RuleTable) Allowed(t string, d Direction) map[string]bool {
	return rt.allowed[t][d]
}

// Tiles returns the deduplicated, validated tile descriptors the table was
// built from, in their original relative order.
func (rt *RuleTable) Tiles() []TileDescriptor {
	return rt.tiles
}

// TileIDs returns the ids of all tiles known to the table.
func (rt *RuleTable) TileIDs() []string {
	ids := make([]string, len(rt.tiles))
	for i, t := range rt.tiles {
		ids[i] = t.ID
	}
	return ids
}

// Has reports whether id names a tile known to the table.
func (rt *RuleTable) Has(id string) bool {
	_, ok := rt.byID[id]
	return ok
}

// Compatible reports whether tiles a and b may sit adjacent to each other
// with b on side d of a. It is exported for the validator and for callers
// that want to check a single pair without going through a grid.
func (rt *RuleTable) Compatible(a, b string, d Direction) bool {
	ta, ok := rt.byID[a]
	if !ok {
		return false
	}
	return rt.compatible(ta, b, d)
}
