// Package waveform provides the immutable in-memory representation of
// spherical-harmonic mode data recorded by a numerical-relativity
// simulation.
//
// A [Series] holds a strictly increasing time axis and, for every mode
// (ℓ, m), one complex sample per time. Series are never mutated after
// construction: [New] copies its inputs, accessors return copies, and every
// transformation ([Series.WithTimes], [Series.Slice], [Series.Resample])
// returns a new series that owns its buffers.
//
// Series that are combined in one operation must carry the same mode set;
// [SameModes] reports a [ModeMismatchError] otherwise.
//
// Common workflows:
//   - New(times, data, RadiusTag(r)) to wrap extracted data
//   - Intersect and CommonGrid to build a shared time grid
//   - Resample(grid, interp.Linear{}) to move a series onto that grid
package waveform
