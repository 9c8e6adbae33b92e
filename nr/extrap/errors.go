package extrap

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-nrwave/waveform"
)

var (
	// ErrInsufficientRadii indicates fewer distinct radii than a fit needs.
	ErrInsufficientRadii = errors.New("extrap: insufficient radii")
	// ErrUnderdeterminedFit indicates a fit order >= the number of radii.
	ErrUnderdeterminedFit = errors.New("extrap: underdetermined fit")
	// ErrInvalidOrder indicates a negative fit order.
	ErrInvalidOrder = errors.New("extrap: invalid order")
	// ErrInvalidRadius indicates a non-positive or non-finite radius.
	ErrInvalidRadius = errors.New("extrap: invalid radius")
	// ErrSeriesCount indicates a series count that differs from the radius count.
	ErrSeriesCount = errors.New("extrap: series count does not match radii")
	// ErrGridMismatch indicates input series on different time grids.
	ErrGridMismatch = errors.New("extrap: series not on a common time grid")
	// ErrSingularFit indicates a numerically singular least-squares system.
	ErrSingularFit = errors.New("extrap: singular fit")
	// ErrNonFiniteResult indicates an extrapolated NaN or Inf.
	ErrNonFiniteResult = errors.New("extrap: non-finite result")
	// ErrUnknownComponents indicates an unrecognized component mode name.
	ErrUnknownComponents = errors.New("extrap: unknown components")
)

// UnderdeterminedFitError reports a fit order that the available radii
// cannot support. It matches both ErrUnderdeterminedFit and
// ErrInsufficientRadii.
type UnderdeterminedFitError struct {
	Order int
	Radii int
}

func (e *UnderdeterminedFitError) Error() string {
	return fmt.Sprintf("extrap: underdetermined fit: order %d needs more than %d radii", e.Order, e.Radii)
}

func (e *UnderdeterminedFitError) Is(target error) bool {
	return target == ErrUnderdeterminedFit || target == ErrInsufficientRadii
}

// SampleError tags a failure with the mode and time sample it occurred at.
type SampleError struct {
	Mode  waveform.Mode
	Index int
	Time  float64
	Err   error
}

func (e *SampleError) Error() string {
	return fmt.Sprintf("extrap: mode %s sample %d (t=%g): %v", e.Mode, e.Index, e.Time, e.Err)
}

func (e *SampleError) Unwrap() error {
	return e.Err
}
