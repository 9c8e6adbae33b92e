package waveform

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmpty indicates a series without samples.
	ErrEmpty = errors.New("waveform: empty series")
	// ErrNoModes indicates a series without any mode data.
	ErrNoModes = errors.New("waveform: no modes")
	// ErrLengthMismatch indicates a mode whose sample count differs from the time axis.
	ErrLengthMismatch = errors.New("waveform: mode length does not match time axis")
	// ErrNonMonotonicTimes indicates a time axis that is not strictly increasing.
	ErrNonMonotonicTimes = errors.New("waveform: times not strictly increasing")
	// ErrNonFinite indicates a NaN or Inf time or sample value.
	ErrNonFinite = errors.New("waveform: non-finite value")
	// ErrModeMismatch indicates series that disagree on their mode sets.
	ErrModeMismatch = errors.New("waveform: mode sets differ")
	// ErrOutOfDomain indicates a resampling grid reaching outside the series' time domain.
	ErrOutOfDomain = errors.New("waveform: grid outside time domain")
	// ErrEmptyWindow indicates an empty or degenerate time window.
	ErrEmptyWindow = errors.New("waveform: empty time window")
	// ErrInvalidSpacing indicates a non-positive or non-finite grid spacing.
	ErrInvalidSpacing = errors.New("waveform: invalid grid spacing")
)

// ModeMismatchError describes how one series' mode set differs from the
// reference (first) series of an operation.
type ModeMismatchError struct {
	// Index is the position of the offending series in the argument list.
	Index   int
	Missing []Mode // present in the reference, absent here
	Extra   []Mode // present here, absent in the reference
}

func (e *ModeMismatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "waveform: mode sets differ (series %d", e.Index)
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, ", missing %s", joinModes(e.Missing))
	}
	if len(e.Extra) > 0 {
		fmt.Fprintf(&b, ", extra %s", joinModes(e.Extra))
	}
	b.WriteString(")")
	return b.String()
}

func (e *ModeMismatchError) Unwrap() error {
	return ErrModeMismatch
}

func joinModes(modes []Mode) string {
	parts := make([]string, len(modes))
	for i, m := range modes {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}
