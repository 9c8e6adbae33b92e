// Package extrap extrapolates waveform data from finite extraction radii to
// future null infinity.
//
// For every mode and every retarded-time sample, the values recorded at the
// R extraction radii are fitted by ordinary least squares with a polynomial
// of order N in 1/r, separately for the real and imaginary parts, and the
// fit is evaluated at 1/r = 0. Only the value at the origin is kept; the
// coefficients are discarded after every sample, so no single polynomial is
// assumed to describe the whole waveform.
//
// A fit of order N needs at least N+1 distinct radii. Requests with
// N >= R fail with [ErrUnderdeterminedFit]; that error also matches
// [ErrInsufficientRadii] under errors.Is.
//
// The extrapolator never interpolates in time: every input series must
// already share one time grid (see waveform.CommonGrid).
package extrap
