package wfc

import (
	"context"
	"fmt"
)

// Options configures one Synthesizer run.
type Options struct {
	// MaxAttempts bounds the total number of attempts, the first one
	// included; each attempt starts from a fresh grid.
	MaxAttempts int

	// MaxIterationsPerAttempt bounds decisions-plus-backtracks within a
	// single attempt before it is abandoned and a new one started. Zero
	// means "derive a generous budget from the grid's cell count".
	MaxIterationsPerAttempt int

	// CandidatePoolSize is the number of lowest-entropy tied cells the
	// selector may choose among, widened automatically when
	// contradictions cluster.
	CandidatePoolSize int

	// MaxConsecutiveContradictions is how many contradictions in a row
	// are tolerated; one more than this widens the candidate pool by one.
	MaxConsecutiveContradictions int

	// Seed drives every deterministic choice the selector makes. Zero
	// means unseeded (time-seeded, non-reproducible).
	Seed int64

	// ProgressEvery emits an EventProgress after each successful decision
	// whose iteration number is a multiple of N. Zero disables progress
	// events.
	ProgressEvery int
}

// DefaultOptions returns the option set used when a caller has no
// stronger opinion.
func DefaultOptions() Options {
	return Options{
		MaxAttempts:                  15,
		MaxIterationsPerAttempt:      0,
		CandidatePoolSize:            3,
		MaxConsecutiveContradictions: 5,
		Seed:                         0,
		ProgressEvery:                200,
	}
}

func (o Options) normalize() Options {
	if o.MaxAttempts < 1 {
		o.MaxAttempts = 1
	}
	if o.CandidatePoolSize < 1 {
		o.CandidatePoolSize = 1
	}
	if o.MaxConsecutiveContradictions < 1 {
		o.MaxConsecutiveContradictions = 1
	}
	return o
}

// Synthesizer runs the search driver described by the rule table and
// options against fresh grids until a full arrangement is found or the
// attempt budget is exhausted.
type Synthesizer struct {
	rules *RuleTable
	opts  Options
	sink  Sink
}

// NewSynthesizer validates tiles into a rule table and returns a
// Synthesizer ready to Run. A nil sink is replaced with NullSink.
func NewSynthesizer(tiles []TileDescriptor, opts Options, sink Sink) (*Synthesizer, error) {
	rules, err := NewRuleTable(tiles)
	if err != nil {
		return nil, err
	}
	if sink == nil {
		sink = NullSink{}
	}
	return &Synthesizer{rules: rules, opts: opts.normalize(), sink: sink}, nil
}

// Run attempts to produce a width x height arrangement, restarting from
// a fresh grid up to MaxAttempts times. It returns ErrNoSolution
// (wrapped) if every attempt is exhausted, or ErrCancelled (wrapped) if
// ctx is done before an attempt starts or between iterations of one.
func (s *Synthesizer) Run(ctx context.Context, width, height int) ([][]string, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: grid dimensions must be positive", ErrInvalidInput)
	}

	maxIter := s.opts.MaxIterationsPerAttempt
	if maxIter <= 0 {
		maxIter = width * height * 30
	}
	if maxIter < width*height {
		maxIter = width * height
	}

	for attempt := 1; attempt <= s.opts.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())
		default:
		}

		s.sink.Emit(Event{
			Kind:          EventAttemptStart,
			AttemptNumber: attempt,
			MaxAttempts:   s.opts.MaxAttempts,
		})

		arrangement, solved, cancelled := s.runAttempt(ctx, width, height, attempt, maxIter)
		if cancelled {
			return nil, fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())
		}

		score := CompatibilityScore(arrangement, s.rules)
		if solved {
			s.sink.Emit(Event{
				Kind:          EventResult,
				AttemptNumber: attempt,
				Result: &Result{
					Success:            true,
					Arrangement:        arrangement,
					AttemptNumber:      attempt,
					CompatibilityScore: score,
				},
			})
			return arrangement, nil
		}

		s.sink.Emit(Event{
			Kind:          EventResult,
			AttemptNumber: attempt,
			Result: &Result{
				Success:            false,
				IsPartial:          true,
				Arrangement:        arrangement,
				AttemptNumber:      attempt,
				CompatibilityScore: score,
			},
		})
	}

	err := fmt.Errorf("%w: no valid arrangement after %d attempts", ErrNoSolution, s.opts.MaxAttempts)
	s.sink.Emit(Event{
		Kind:          EventResult,
		AttemptNumber: s.opts.MaxAttempts,
		Result: &Result{
			Success:       false,
			IsPartial:     false,
			AttemptNumber: s.opts.MaxAttempts,
			Err:           err,
		},
	})
	return nil, err
}

// runAttempt drives a single attempt to completion, exhaustion, or
// terminal failure (no undo batch left to backtrack into).
func (s *Synthesizer) runAttempt(ctx context.Context, width, height, attempt, maxIter int) (arrangement [][]string, solved bool, cancelled bool) {
	grid := newGrid(width, height, s.rules)

	attemptSeed := int64(0)
	if s.opts.Seed != 0 {
		attemptSeed = s.opts.Seed + int64(attempt)*1000
	}
	selector := NewSelector(attemptSeed)

	var undoStack []UndoBatch
	poolSize := s.opts.CandidatePoolSize
	consecutiveContradictions := 0

	backtrack := func() bool {
		if len(undoStack) == 0 {
			return false
		}
		last := undoStack[len(undoStack)-1]
		undoStack = undoStack[:len(undoStack)-1]
		propagateAdd(grid, s.rules, last)
		return true
	}

	widenOnContradiction := func() {
		consecutiveContradictions++
		if consecutiveContradictions > s.opts.MaxConsecutiveContradictions {
			poolSize++
			consecutiveContradictions = 0
		}
	}

	iteration := 0
	for {
		select {
		case <-ctx.Done():
			return grid.Arrangement(), false, true
		default:
		}

		if grid.AllCollapsed() {
			return grid.Arrangement(), true, false
		}

		iteration++
		if iteration > maxIter {
			return grid.Arrangement(), false, false
		}

		x, y, hasContradiction, ok := selector.SelectCell(grid, poolSize, iteration)
		if hasContradiction {
			if !backtrack() {
				return grid.Arrangement(), false, false
			}
			widenOnContradiction()
			continue
		}
		if !ok {
			// No uncollapsed cell left but AllCollapsed said otherwise is
			// not reachable; treat defensively as done.
			return grid.Arrangement(), grid.AllCollapsed(), false
		}

		tile := selector.SelectTile(grid, x, y, iteration)
		cell := grid.At(x, y)
		remove := make([]string, 0, cell.Count())
		for _, t := range cell.Possibilities() {
			if t != tile {
				remove = append(remove, t)
			}
		}

		contradiction, batch := propagateRemove(grid, s.rules, x, y, remove)
		if !contradiction {
			undoStack = append(undoStack, batch)
			consecutiveContradictions = 0
			if s.opts.ProgressEvery > 0 && iteration%s.opts.ProgressEvery == 0 {
				pos := Position{X: x, Y: y}
				s.sink.Emit(Event{
					Kind:               EventProgress,
					AttemptNumber:      attempt,
					Iteration:          iteration,
					TotalCollapsed:     grid.TotalCollapsed(),
					TotalCells:         width * height,
					CollapsedCell:      &pos,
					PropagationChanges: len(batch),
				})
			}
			continue
		}

		// This decision collapsed some cell to zero possibilities.
		// Undo it, forbid the tried tile at this cell, and continue —
		// the cell stays in the pool with one fewer possibility.
		propagateAdd(grid, s.rules, batch)
		cellEmptied := cell.remove(tile)
		widenOnContradiction()
		if cellEmptied {
			if !backtrack() {
				return grid.Arrangement(), false, false
			}
		}
	}
}
