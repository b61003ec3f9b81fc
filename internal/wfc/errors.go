package wfc

import "errors"

// Sentinel errors returned across the package boundary. Contradictions
// raised inside the propagator are never surfaced this way; they are a
// tagged return value caught and retried by the search driver.
var (
	ErrInvalidInput = errors.New("wfc: invalid input")
	ErrNoSolution   = errors.New("wfc: failed to find a valid arrangement")
	ErrCancelled    = errors.New("wfc: synthesis cancelled")
)
