package wfc

import (
	"encoding/binary"
	"math/rand"
	"sort"
	"time"

	"golang.org/x/crypto/blake2b"
)

// Selector implements the minimum-entropy cell choice and the tile choice
// within a chosen cell. When seed is non-zero, both choices are fully
// determined by (cell position, seed, iteration) via a blake2b digest, so
// that a fixed seed reproduces the same decision sequence; when seed is
// zero, a time-seeded math/rand source drives both choices.
type Selector struct {
	seed int64
	rng  *rand.Rand
}

// NewSelector creates a selector for the given seed. A seed of 0 means
// "no determinism requested" and falls back to a time-seeded source.
func NewSelector(seed int64) *Selector {
	s := &Selector{seed: seed}
	if seed != 0 {
		s.rng = rand.New(rand.NewSource(seed))
	} else {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s
}

// seedHash folds a handful of integers into a deterministic uint64 via
// blake2b, used to derive reproducible per-decision randomness from the
// synthesis seed.
func seedHash(parts ...int64) uint64 {
	buf := make([]byte, 0, 8*len(parts))
	for _, p := range parts {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(p))
	}
	sum := blake2b.Sum256(buf)
	return binary.LittleEndian.Uint64(sum[:8])
}

type cellCandidate struct {
	x, y int
	rank uint64
}

// SelectCell picks the next cell to decide, among uncollapsed cells,
// using minimum remaining possibilities ("entropy"). Ties are broken by a
// deterministic position-and-seed hash; up to poolSize of the
// lowest-ranked tied cells form a candidate pool, and one of them is
// chosen (by seeded hash, or at random) to add exploration diversity.
//
// If an uncollapsed cell with zero possibilities is found, hasContradiction
// is true and the caller must backtrack before issuing any further
// decision; ok is only true when a valid decision cell was chosen.
func (s *Selector) SelectCell(g *Grid, poolSize int, iteration int) (x, y int, hasContradiction, ok bool) {
	if poolSize < 1 {
		poolSize = 1
	}

	minCount := -1
	var candidates []cellCandidate
	for cy := 0; cy < g.Height; cy++ {
		for cx := 0; cx < g.Width; cx++ {
			cell := g.At(cx, cy)
			if cell.Collapsed() {
				continue
			}
			n := cell.Count()
			if n == 0 {
				return 0, 0, true, false
			}
			if minCount == -1 || n < minCount {
				minCount = n
				candidates = candidates[:0]
			}
			if n == minCount {
				candidates = append(candidates, cellCandidate{cx, cy, seedHash(int64(cx), int64(cy), s.seed)})
			}
		}
	}

	if len(candidates) == 0 {
		return 0, 0, false, false
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].rank < candidates[j].rank })
	if len(candidates) > poolSize {
		candidates = candidates[:poolSize]
	}

	idx := 0
	if len(candidates) > 1 {
		if s.seed != 0 {
			idx = int(seedHash(s.seed, int64(iteration)) % uint64(len(candidates)))
		} else {
			idx = s.rng.Intn(len(candidates))
		}
	}

	chosen := candidates[idx]
	return chosen.x, chosen.y, false, true
}

// SelectTile samples a tile uniformly from the possibilities of the cell
// at (x, y) — either by a seeded Fisher-Yates shuffle derived from
// (x, y, seed, iteration), or uniformly at random when seed is zero.
func (s *Selector) SelectTile(g *Grid, x, y, iteration int) string {
	cell := g.At(x, y)
	ids := cell.Possibilities()
	sort.Strings(ids) // stable base ordering before shuffling

	if len(ids) <= 1 {
		if len(ids) == 0 {
			return ""
		}
		return ids[0]
	}

	rng := s.rng
	if s.seed != 0 {
		h := seedHash(int64(x), int64(y), s.seed, int64(iteration))
		rng = rand.New(rand.NewSource(int64(h)))
	}
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	return ids[0]
}
