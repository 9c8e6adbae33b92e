package converge

import "errors"

var (
	// ErrEmptyOverlap indicates series without a usable common time window.
	ErrEmptyOverlap = errors.New("converge: empty overlap")
	// ErrInsufficientLevels indicates fewer than two resolution levels.
	ErrInsufficientLevels = errors.New("converge: need at least two levels")
	// ErrAlignment indicates a failed time-shift estimate.
	ErrAlignment = errors.New("converge: time alignment failed")
)
