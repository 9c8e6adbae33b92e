package waveform

import (
	"fmt"
	"math"
	"math/cmplx"
	"slices"
)

// Series is an immutable time series of complex mode amplitudes.
type Series struct {
	times []float64
	data  map[Mode][]complex128
	modes []Mode
	tag   Tag
}

// New validates and copies times and data into a new Series.
func New(times []float64, data map[Mode][]complex128, tag Tag) (*Series, error) {
	if len(times) == 0 {
		return nil, ErrEmpty
	}
	if len(data) == 0 {
		return nil, ErrNoModes
	}
	if err := checkTimes(times); err != nil {
		return nil, err
	}

	owned := make(map[Mode][]complex128, len(data))
	for m, samples := range data {
		if len(samples) != len(times) {
			return nil, fmt.Errorf("%w: mode %s has %d samples, want %d",
				ErrLengthMismatch, m, len(samples), len(times))
		}
		for i, v := range samples {
			if cmplx.IsNaN(v) || cmplx.IsInf(v) {
				return nil, fmt.Errorf("%w: mode %s sample %d", ErrNonFinite, m, i)
			}
		}
		owned[m] = slices.Clone(samples)
	}

	return newOwned(slices.Clone(times), owned, tag), nil
}

// newOwned wraps buffers the caller hands over. No validation, no copies.
func newOwned(times []float64, data map[Mode][]complex128, tag Tag) *Series {
	modes := make([]Mode, 0, len(data))
	for m := range data {
		modes = append(modes, m)
	}
	SortModes(modes)
	return &Series{times: times, data: data, modes: modes, tag: tag}
}

func checkTimes(times []float64) error {
	for i, t := range times {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return fmt.Errorf("%w: time %d", ErrNonFinite, i)
		}
		if i > 0 && t <= times[i-1] {
			return fmt.Errorf("%w: index %d (%g <= %g)", ErrNonMonotonicTimes, i, t, times[i-1])
		}
	}
	return nil
}

// Len returns the number of time samples.
func (s *Series) Len() int {
	return len(s.times)
}

// Tag returns the provenance tag.
func (s *Series) Tag() Tag {
	return s.tag
}

// Modes returns the sorted mode set.
func (s *Series) Modes() []Mode {
	return slices.Clone(s.modes)
}

// HasMode reports whether m is present.
func (s *Series) HasMode(m Mode) bool {
	_, ok := s.data[m]
	return ok
}

// Times returns a copy of the time axis.
func (s *Series) Times() []float64 {
	return slices.Clone(s.times)
}

// TimeAt returns the i-th time.
func (s *Series) TimeAt(i int) float64 {
	return s.times[i]
}

// Start returns the first time.
func (s *Series) Start() float64 {
	return s.times[0]
}

// End returns the last time.
func (s *Series) End() float64 {
	return s.times[len(s.times)-1]
}

// Samples returns a copy of the samples for mode m.
func (s *Series) Samples(m Mode) ([]complex128, bool) {
	v, ok := s.data[m]
	if !ok {
		return nil, false
	}
	return slices.Clone(v), true
}

// At returns sample i of mode m, or 0 when the mode is absent.
func (s *Series) At(m Mode, i int) complex128 {
	v, ok := s.data[m]
	if !ok {
		return 0
	}
	return v[i]
}

// Parts returns the real and imaginary parts of mode m in fresh slices.
func (s *Series) Parts(m Mode) (re, im []float64, ok bool) {
	v, ok := s.data[m]
	if !ok {
		return nil, nil, false
	}
	re = make([]float64, len(v))
	im = make([]float64, len(v))
	for i, c := range v {
		re[i] = real(c)
		im[i] = imag(c)
	}
	return re, im, true
}

// Amplitude returns |h| of mode m.
func (s *Series) Amplitude(m Mode) ([]float64, bool) {
	v, ok := s.data[m]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(v))
	for i, c := range v {
		out[i] = cmplx.Abs(c)
	}
	return out, true
}

// Phase returns the unwrapped phase arg(h) of mode m.
func (s *Series) Phase(m Mode) ([]float64, bool) {
	v, ok := s.data[m]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(v))
	for i, c := range v {
		out[i] = cmplx.Phase(c)
	}
	return UnwrapPhase(out), true
}

// Copy returns a deep copy, optionally retagged.
func (s *Series) Copy() *Series {
	return s.WithTag(s.tag)
}

// WithTag returns a deep copy carrying tag.
func (s *Series) WithTag(tag Tag) *Series {
	data := make(map[Mode][]complex128, len(s.data))
	for m, v := range s.data {
		data[m] = slices.Clone(v)
	}
	return newOwned(slices.Clone(s.times), data, tag)
}

// WithTimes returns a copy of s on a new time axis of equal length.
func (s *Series) WithTimes(times []float64) (*Series, error) {
	if len(times) != len(s.times) {
		return nil, fmt.Errorf("%w: %d times for %d samples", ErrLengthMismatch, len(times), len(s.times))
	}
	if err := checkTimes(times); err != nil {
		return nil, err
	}
	out := s.Copy()
	out.times = slices.Clone(times)
	return out, nil
}

// Shift returns a copy with every time offset by dt.
func (s *Series) Shift(dt float64) (*Series, error) {
	times := make([]float64, len(s.times))
	for i, t := range s.times {
		times[i] = t + dt
	}
	return s.WithTimes(times)
}

// Slice returns samples [start, end) as a new series.
func (s *Series) Slice(start, end int) (*Series, error) {
	if start < 0 {
		start = 0
	}
	if end > len(s.times) {
		end = len(s.times)
	}
	if start >= end {
		return nil, ErrEmpty
	}
	data := make(map[Mode][]complex128, len(s.data))
	for m, v := range s.data {
		data[m] = slices.Clone(v[start:end])
	}
	return newOwned(slices.Clone(s.times[start:end]), data, s.tag), nil
}

// SelectModes narrows s to modes. Every requested mode must be present.
func (s *Series) SelectModes(modes []Mode) (*Series, error) {
	data := make(map[Mode][]complex128, len(modes))
	var missing []Mode
	for _, m := range modes {
		v, ok := s.data[m]
		if !ok {
			missing = append(missing, m)
			continue
		}
		data[m] = slices.Clone(v)
	}
	if len(missing) > 0 {
		SortModes(missing)
		return nil, &ModeMismatchError{Missing: missing}
	}
	if len(data) == 0 {
		return nil, ErrNoModes
	}
	return newOwned(slices.Clone(s.times), data, s.tag), nil
}

// Spacing returns the minimum and median sample spacing. Both are zero for
// single-sample series.
func (s *Series) Spacing() (minDt, medianDt float64) {
	if len(s.times) < 2 {
		return 0, 0
	}
	d := make([]float64, len(s.times)-1)
	for i := range d {
		d[i] = s.times[i+1] - s.times[i]
	}
	slices.Sort(d)
	n := len(d)
	if n%2 == 0 {
		medianDt = (d[n/2-1] + d[n/2]) / 2
	} else {
		medianDt = d[n/2]
	}
	return d[0], medianDt
}

// SameModes reports whether every series carries the mode set of the first.
func SameModes(series ...*Series) error {
	if len(series) < 2 {
		return nil
	}
	ref := series[0].modes
	for i, s := range series[1:] {
		missing, extra := diffModes(ref, s.modes)
		if len(missing) > 0 || len(extra) > 0 {
			return &ModeMismatchError{Index: i + 1, Missing: missing, Extra: extra}
		}
	}
	return nil
}

// UnwrapPhase removes 2π jumps from a phase sequence, returning a new slice.
func UnwrapPhase(phase []float64) []float64 {
	out := make([]float64, len(phase))
	if len(phase) == 0 {
		return out
	}
	out[0] = phase[0]
	offset := 0.0
	for i := 1; i < len(phase); i++ {
		d := phase[i] - phase[i-1]
		if d > math.Pi {
			offset -= 2 * math.Pi * math.Round(d/(2*math.Pi))
		} else if d < -math.Pi {
			offset += 2 * math.Pi * math.Round(-d/(2*math.Pi))
		}
		out[i] = phase[i] + offset
	}
	return out
}
