package converge

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-nrwave/waveform"
)

// maxAlignSamples bounds the per-series length of the alignment grid.
const maxAlignSamples = 1 << 22

// EstimateShift returns the time offset that, added to b's times, best
// lines up b's amplitude with a's. The amplitude of one mode is sampled on
// uniform grids of equal spacing, cross-correlated via FFT and the
// correlation peak is refined to sub-sample accuracy with a parabola.
func EstimateShift(a, b *waveform.Series, opts ...Option) (float64, error) {
	cfg := applyOptions(opts)

	m, err := alignmentMode(a, b, cfg)
	if err != nil {
		return 0, err
	}

	dt := math.Inf(1)
	for _, s := range []*waveform.Series{a, b} {
		_, med := s.Spacing()
		if med > 0 && med < dt {
			dt = med
		}
	}
	if math.IsInf(dt, 1) {
		return 0, fmt.Errorf("%w: series need at least two samples", ErrAlignment)
	}

	xa, err := sampledAmplitude(a, m, dt, cfg.interp)
	if err != nil {
		return 0, err
	}
	xb, err := sampledAmplitude(b, m, dt, cfg.interp)
	if err != nil {
		return 0, err
	}

	corr, err := crossCorrelate(xa, xb)
	if err != nil {
		return 0, err
	}
	peak, value := findPeak(corr)
	if !(value > 0) {
		return 0, fmt.Errorf("%w: mode %s has no amplitude", ErrAlignment, m)
	}

	lag := float64(peak-(len(xb)-1)) + refinePeak(corr, peak)
	return a.Start() - b.Start() + lag*dt, nil
}

func alignmentMode(a, b *waveform.Series, cfg config) (waveform.Mode, error) {
	if cfg.hasMode {
		if !a.HasMode(cfg.alignMode) || !b.HasMode(cfg.alignMode) {
			return cfg.alignMode, &waveform.ModeMismatchError{Missing: []waveform.Mode{cfg.alignMode}}
		}
		return cfg.alignMode, nil
	}

	dominant := waveform.Mode{L: 2, M: 2}
	if a.HasMode(dominant) && b.HasMode(dominant) {
		return dominant, nil
	}

	best, bestPeak := waveform.Mode{}, -1.0
	for _, m := range a.Modes() {
		if !b.HasMode(m) {
			continue
		}
		amp, _ := a.Amplitude(m)
		peak := 0.0
		for _, v := range amp {
			peak = math.Max(peak, v)
		}
		if peak > bestPeak {
			best, bestPeak = m, peak
		}
	}
	if bestPeak < 0 {
		return best, fmt.Errorf("%w: no mode shared by both series", ErrAlignment)
	}
	return best, nil
}

// sampledAmplitude evaluates |h_m| of s at s.Start() + i*dt.
func sampledAmplitude(s *waveform.Series, m waveform.Mode, dt float64, ip waveform.Interpolator) ([]float64, error) {
	span := s.End() - s.Start()
	n := int(math.Floor(span/dt+1e-9)) + 1
	if n > maxAlignSamples {
		return nil, fmt.Errorf("%w: %d samples at spacing %g", ErrAlignment, n, dt)
	}

	grid := make([]float64, n)
	for i := range grid {
		grid[i] = math.Min(s.Start()+float64(i)*dt, s.End())
	}
	if n > 1 && grid[n-1] <= grid[n-2] {
		grid = grid[:n-1]
	}

	narrowed, err := s.SelectModes([]waveform.Mode{m})
	if err != nil {
		return nil, err
	}
	r, err := narrowed.Resample(grid, ip)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAlignment, err)
	}
	amp, _ := r.Amplitude(m)
	return amp, nil
}

// crossCorrelate returns sum_i a[i+lag]*b[i] for lag = k-(len(b)-1).
func crossCorrelate(a, b []float64) ([]float64, error) {
	n, m := len(a), len(b)
	size := nextPowerOf2(n + m - 1)

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("converge: fft plan: %w", err)
	}

	aPadded := make([]complex128, size)
	bPadded := make([]complex128, size)
	for i, v := range a {
		aPadded[i] = complex(v, 0)
	}
	for i, v := range b {
		bPadded[i] = complex(v, 0)
	}

	aFreq := make([]complex128, size)
	bFreq := make([]complex128, size)
	if err := plan.Forward(aFreq, aPadded); err != nil {
		return nil, fmt.Errorf("converge: forward fft: %w", err)
	}
	if err := plan.Forward(bFreq, bPadded); err != nil {
		return nil, fmt.Errorf("converge: forward fft: %w", err)
	}

	for i := range aFreq {
		aFreq[i] *= complex(real(bFreq[i]), -imag(bFreq[i]))
	}
	if err := plan.Inverse(aPadded, aFreq); err != nil {
		return nil, fmt.Errorf("converge: inverse fft: %w", err)
	}

	// Positive lags wrap to the front, negative lags to the back.
	out := make([]float64, n+m-1)
	for i := range n {
		out[m-1+i] = real(aPadded[i])
	}
	for i := range m - 1 {
		out[i] = real(aPadded[size-m+1+i])
	}
	return out, nil
}

func findPeak(corr []float64) (int, float64) {
	if len(corr) == 0 {
		return -1, 0
	}
	idx, val := 0, corr[0]
	for i, v := range corr {
		if v > val {
			idx, val = i, v
		}
	}
	return idx, val
}

// refinePeak fits a parabola through the peak and its neighbours and
// returns the vertex offset in samples, within [-0.5, 0.5].
func refinePeak(corr []float64, i int) float64 {
	if i <= 0 || i >= len(corr)-1 {
		return 0
	}
	y0, y1, y2 := corr[i-1], corr[i], corr[i+1]
	den := y0 - 2*y1 + y2
	if den == 0 {
		return 0
	}
	d := 0.5 * (y0 - y2) / den
	return math.Max(-0.5, math.Min(0.5, d))
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
