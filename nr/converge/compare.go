package converge

import (
	"math"
	"slices"

	"github.com/cwbudde/algo-nrwave/waveform"
)

// Report is the outcome of comparing two waveforms. It is not modified
// after Compare returns.
type Report struct {
	// A and B identify the compared series, usually the coarser level first.
	A, B waveform.Tag
	// Window is the common time window; Grid samples it.
	Window waveform.Window
	Grid   []float64
	// ResampledA and ResampledB are the inputs evaluated on Grid.
	ResampledA *waveform.Series
	ResampledB *waveform.Series
	// Shift is the time offset applied to B before differencing.
	Shift float64
	// Modes holds one entry per compared mode.
	Modes map[waveform.Mode]ModeDiff
	// Order is undefined for a single pair.
	Order OrderEstimate
}

// SortedModes returns the compared modes in canonical order.
func (r *Report) SortedModes() []waveform.Mode {
	out := make([]waveform.Mode, 0, len(r.Modes))
	for m := range r.Modes {
		out = append(out, m)
	}
	waveform.SortModes(out)
	return out
}

// MaxAbs returns the largest |h_a - h_b| over all modes.
func (r *Report) MaxAbs() float64 {
	var v float64
	for _, d := range r.Modes {
		v = math.Max(v, d.MaxAbs)
	}
	return v
}

// Compare differences a and b over their common window. Both series must
// carry the same modes.
func Compare(a, b *waveform.Series, opts ...Option) (*Report, error) {
	cfg := applyOptions(opts)

	if err := waveform.SameModes(a, b); err != nil {
		return nil, err
	}

	shift := 0.0
	if cfg.align {
		var err error
		shift, err = EstimateShift(a, b, opts...)
		if err != nil {
			return nil, err
		}
		if b, err = b.Shift(shift); err != nil {
			return nil, err
		}
	}

	w, err := Overlap(a, b)
	if err != nil {
		return nil, err
	}
	grid, err := waveform.CommonGrid(w, a, b)
	if err != nil {
		return nil, err
	}
	ra, err := a.Resample(grid, cfg.interp)
	if err != nil {
		return nil, err
	}
	rb, err := b.Resample(grid, cfg.interp)
	if err != nil {
		return nil, err
	}

	modes := make(map[waveform.Mode]ModeDiff, len(ra.Modes()))
	for _, m := range ra.Modes() {
		ha, _ := ra.Samples(m)
		hb, _ := rb.Samples(m)
		modes[m] = diffMode(m, grid, ha, hb)
	}

	return &Report{
		A:          a.Tag(),
		B:          b.Tag(),
		Window:     w,
		Grid:       slices.Clone(grid),
		ResampledA: ra,
		ResampledB: rb,
		Shift:      shift,
		Modes:      modes,
		Order:      Undefined(ReasonSinglePair),
	}, nil
}
