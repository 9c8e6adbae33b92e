// Package interp provides interpolation strategies for resampling
// non-uniformly sampled series onto a new grid.
//
// Available methods, from cheapest to highest quality:
//
//   - [Linear]:  piecewise linear interpolation (default)
//   - [Hermite]: piecewise cubic Hermite with centered finite-difference tangents
//
// Both implement the Interpolate(dst, xs, ys, at) contract expected by
// waveform.Series.Resample. [ParseMethod] and [New] select a strategy by
// name, e.g. from configuration.
package interp
