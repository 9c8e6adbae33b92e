package waveform

import (
	"fmt"
	"math"
	"slices"
)

// maxGridSamples caps grids built by UniformGrid.
const maxGridSamples = 1 << 26

// Window is a closed time interval [Start, End].
type Window struct {
	Start float64
	End   float64
}

// Duration returns End - Start.
func (w Window) Duration() float64 {
	return w.End - w.Start
}

// Contains reports whether t lies in the window.
func (w Window) Contains(t float64) bool {
	return t >= w.Start && t <= w.End
}

// Intersect returns the common time domain of all series.
func Intersect(series ...*Series) (Window, error) {
	if len(series) == 0 {
		return Window{}, ErrEmptyWindow
	}
	w := Window{Start: series[0].Start(), End: series[0].End()}
	for _, s := range series[1:] {
		w.Start = math.Max(w.Start, s.Start())
		w.End = math.Min(w.End, s.End())
	}
	if !(w.End > w.Start) {
		return w, fmt.Errorf("%w: [%g, %g]", ErrEmptyWindow, w.Start, w.End)
	}
	return w, nil
}

// indexRange returns [lo, hi) covering the samples of s inside w.
func (s *Series) indexRange(w Window) (lo, hi int) {
	lo, _ = slices.BinarySearch(s.times, w.Start)
	hi, found := slices.BinarySearch(s.times, w.End)
	if found {
		hi++
	}
	return lo, hi
}

// CountIn returns the number of samples of s inside w.
func (s *Series) CountIn(w Window) int {
	lo, hi := s.indexRange(w)
	if hi < lo {
		return 0
	}
	return hi - lo
}

// UniformGrid returns equally spaced points from start to end inclusive with
// spacing no larger than dt.
func UniformGrid(start, end, dt float64) ([]float64, error) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidSpacing, dt)
	}
	span := end - start
	if !(span > 0) || math.IsInf(span, 0) {
		return nil, fmt.Errorf("%w: [%g, %g]", ErrEmptyWindow, start, end)
	}

	steps := math.Ceil(span/dt - 1e-9)
	if steps < 1 {
		steps = 1
	}
	if steps >= maxGridSamples {
		return nil, fmt.Errorf("%w: %g over [%g, %g] needs %.0f samples", ErrInvalidSpacing, dt, start, end, steps)
	}

	n := int(steps)
	step := span / float64(n)
	grid := make([]float64, n+1)
	for i := range grid {
		grid[i] = start + float64(i)*step
	}
	grid[n] = end
	return grid, nil
}

// CommonGrid returns a grid covering w for all series. When every series
// samples w at exactly the same times that spanning grid is reused;
// otherwise a uniform grid is built at the finest median spacing, which is
// never coarser than the sparsest input.
func CommonGrid(w Window, series ...*Series) ([]float64, error) {
	if len(series) == 0 || !(w.End > w.Start) {
		return nil, ErrEmptyWindow
	}

	if shared, ok := sharedTimes(w, series); ok {
		return shared, nil
	}

	dt := math.Inf(1)
	for _, s := range series {
		_, med := s.Spacing()
		if med > 0 && med < dt {
			dt = med
		}
	}
	return UniformGrid(w.Start, w.End, dt)
}

func sharedTimes(w Window, series []*Series) ([]float64, bool) {
	lo, hi := series[0].indexRange(w)
	if hi-lo < 2 {
		return nil, false
	}
	ref := series[0].times[lo:hi]
	if ref[0] != w.Start || ref[len(ref)-1] != w.End {
		return nil, false
	}
	for _, s := range series[1:] {
		l, h := s.indexRange(w)
		if !slices.Equal(ref, s.times[l:h]) {
			return nil, false
		}
	}
	return slices.Clone(ref), true
}
