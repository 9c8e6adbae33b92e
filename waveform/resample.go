package waveform

import (
	"fmt"
	"math"
	"slices"

	"github.com/cwbudde/algo-nrwave/dsp/interp"
)

// Interpolator evaluates samples ys taken at strictly increasing xs at the
// points in at, writing into dst. Implementations live in package interp.
type Interpolator interface {
	Interpolate(dst, xs, ys, at []float64) error
}

// Resample evaluates every mode of s on grid, interpolating real and
// imaginary parts independently. A nil ip selects linear interpolation.
// Resampling onto the series' own time axis returns an exact copy.
func (s *Series) Resample(grid []float64, ip Interpolator) (*Series, error) {
	if len(grid) == 0 {
		return nil, ErrEmpty
	}
	if err := checkTimes(grid); err != nil {
		return nil, err
	}
	if slices.Equal(grid, s.times) {
		return s.Copy(), nil
	}

	tol := 1e-12 * math.Max(1, math.Abs(s.End()-s.Start()))
	if grid[0] < s.Start()-tol || grid[len(grid)-1] > s.End()+tol {
		return nil, fmt.Errorf("%w: [%g, %g] not within [%g, %g]",
			ErrOutOfDomain, grid[0], grid[len(grid)-1], s.Start(), s.End())
	}
	if ip == nil {
		ip = interp.Linear{}
	}

	re := make([]float64, len(s.times))
	im := make([]float64, len(s.times))
	outRe := make([]float64, len(grid))
	outIm := make([]float64, len(grid))

	data := make(map[Mode][]complex128, len(s.data))
	for _, m := range s.modes {
		for i, c := range s.data[m] {
			re[i] = real(c)
			im[i] = imag(c)
		}
		if err := ip.Interpolate(outRe, s.times, re, grid); err != nil {
			return nil, fmt.Errorf("waveform: resample mode %s: %w", m, err)
		}
		if err := ip.Interpolate(outIm, s.times, im, grid); err != nil {
			return nil, fmt.Errorf("waveform: resample mode %s: %w", m, err)
		}
		out := make([]complex128, len(grid))
		for i := range out {
			out[i] = complex(outRe[i], outIm[i])
		}
		data[m] = out
	}

	return newOwned(slices.Clone(grid), data, s.tag), nil
}
