package wfc

// Violation names one orthogonal adjacency that fails the compatibility
// predicate in a completed or partial arrangement.
type Violation struct {
	X, Y                 int
	Tile                 string
	NeighborX, NeighborY int
	NeighborTile         string
	Dir                  Direction
}

// Validate walks arrangement and reports every in-bounds orthogonal pair
// that fails the adjacency relation. Uncollapsed cells (the empty-string
// sentinel) are skipped, since a partial arrangement has nothing to
// validate there. A correct solver produces zero violations on success.
//
// Each unordered pair is checked once, via the East and South directions
// from the lower-indexed cell, to avoid reporting the same violated pair
// twice.
func Validate(arrangement [][]string, rules *RuleTable) []Violation {
	var violations []Violation
	height := len(arrangement)
	for y := 0; y < height; y++ {
		row := arrangement[y]
		for x := 0; x < len(row); x++ {
			tile := row[x]
			if tile == "" {
				continue
			}
			for _, d := range []Direction{East, South} {
				dx, dy := d.Offset()
				nx, ny := x+dx, y+dy
				if ny < 0 || ny >= height || nx < 0 || nx >= len(row) {
					continue
				}
				neighborTile := arrangement[ny][nx]
				if neighborTile == "" {
					continue
				}
				if !rules.Compatible(tile, neighborTile, d) {
					violations = append(violations, Violation{
						X: x, Y: y, Tile: tile,
						NeighborX: nx, NeighborY: ny, NeighborTile: neighborTile,
						Dir: d,
					})
				}
			}
		}
	}
	return violations
}

// CompatibilityScore counts every ordered, directed adjacency (a -> b in
// direction d) in arrangement that satisfies the compatibility
// predicate. Unlike Validate, this checks all four directions from every
// cell, so a satisfied pair is counted twice (once from each side) -
// useful purely for reporting, never for guiding search.
func CompatibilityScore(arrangement [][]string, rules *RuleTable) int {
	score := 0
	height := len(arrangement)
	for y := 0; y < height; y++ {
		row := arrangement[y]
		for x := 0; x < len(row); x++ {
			tile := row[x]
			if tile == "" {
				continue
			}
			for _, d := range AllDirections() {
				dx, dy := d.Offset()
				nx, ny := x+dx, y+dy
				if ny < 0 || ny >= height || nx < 0 || nx >= len(row) {
					continue
				}
				neighborTile := arrangement[ny][nx]
				if neighborTile == "" {
					continue
				}
				if rules.Compatible(tile, neighborTile, d) {
					score++
				}
			}
		}
	}
	return score
}
