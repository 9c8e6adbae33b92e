package extrap

import (
	"fmt"
	"math"
	"math/cmplx"
	"slices"
	"strings"

	"github.com/cwbudde/algo-nrwave/waveform"
)

// Components selects which representation of the complex amplitude is
// fitted across radii.
type Components int

const (
	// ComponentsReIm fits real and imaginary parts independently.
	ComponentsReIm Components = iota
	// ComponentsAmpPhase fits amplitude and unwrapped phase independently.
	ComponentsAmpPhase
)

func (c Components) String() string {
	if c == ComponentsAmpPhase {
		return "ampphase"
	}
	return "reim"
}

// ParseComponents maps "reim" or "ampphase" to a Components value. The empty
// string selects ComponentsReIm.
func ParseComponents(name string) (Components, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "reim":
		return ComponentsReIm, nil
	case "ampphase", "amp-phase":
		return ComponentsAmpPhase, nil
	default:
		return ComponentsReIm, fmt.Errorf("%w: %q", ErrUnknownComponents, name)
	}
}

// Extrapolator fits across a fixed set of extraction radii.
// It is immutable and safe for concurrent use.
type Extrapolator struct {
	radii []float64
	inv   []float64
}

// New validates radii and prepares an extrapolator for them.
func New(radii []float64) (*Extrapolator, error) {
	inv := make([]float64, len(radii))
	for i, r := range radii {
		if !(r > 0) || math.IsInf(r, 0) {
			return nil, fmt.Errorf("%w: %g", ErrInvalidRadius, r)
		}
		inv[i] = 1 / r
	}
	if d := countDistinct(inv); d < 2 {
		return nil, fmt.Errorf("%w: %d distinct of %d", ErrInsufficientRadii, d, len(radii))
	}
	return &Extrapolator{radii: slices.Clone(radii), inv: inv}, nil
}

// Radii returns the extraction radii in input order.
func (e *Extrapolator) Radii() []float64 {
	return slices.Clone(e.radii)
}

// CheckOrder reports whether a fit of the given order is possible.
func (e *Extrapolator) CheckOrder(order int) error {
	return checkOrder(order, e.inv)
}

// Weights returns the linear weights that map per-radius values to the
// value at 1/r = 0 for the given order.
func (e *Extrapolator) Weights(order int) ([]float64, error) {
	return originWeights(e.inv, order)
}

// Fit extrapolates one sample: values[k] was recorded at radii[k].
func (e *Extrapolator) Fit(values []complex128, order int) (complex128, error) {
	if len(values) != len(e.inv) {
		return 0, fmt.Errorf("%w: %d values for %d radii", ErrSeriesCount, len(values), len(e.inv))
	}
	re := make([]float64, len(values))
	im := make([]float64, len(values))
	for i, v := range values {
		re[i] = real(v)
		im[i] = imag(v)
	}
	fr, err := FitReal(e.inv, re, order)
	if err != nil {
		return 0, err
	}
	fi, err := FitReal(e.inv, im, order)
	if err != nil {
		return 0, err
	}
	return complex(fr, fi), nil
}

// CheckAligned verifies that series has one entry per radius and that all
// entries share one time grid.
func (e *Extrapolator) CheckAligned(series []*waveform.Series) error {
	if len(series) != len(e.inv) {
		return fmt.Errorf("%w: %d series for %d radii", ErrSeriesCount, len(series), len(e.inv))
	}
	ref := series[0]
	for k, s := range series[1:] {
		if s.Len() != ref.Len() {
			return fmt.Errorf("%w: series %d has %d samples, want %d", ErrGridMismatch, k+1, s.Len(), ref.Len())
		}
		for i := range ref.Len() {
			if s.TimeAt(i) != ref.TimeAt(i) {
				return fmt.Errorf("%w: series %d differs at sample %d", ErrGridMismatch, k+1, i)
			}
		}
	}
	return nil
}

// ExtrapolateMode extrapolates mode m of aligned series (one per radius, in
// radius order) with a fit of the given order, returning one sample per
// grid time.
func (e *Extrapolator) ExtrapolateMode(series []*waveform.Series, m waveform.Mode, order int, comp Components) ([]complex128, error) {
	if err := e.CheckAligned(series); err != nil {
		return nil, err
	}
	w, err := e.Weights(order)
	if err != nil {
		return nil, err
	}

	data := make([][]complex128, len(series))
	for k, s := range series {
		v, ok := s.Samples(m)
		if !ok {
			return nil, &waveform.ModeMismatchError{Index: k, Missing: []waveform.Mode{m}}
		}
		data[k] = v
	}

	var out []complex128
	switch comp {
	case ComponentsAmpPhase:
		out = combineAmpPhase(data, w)
	default:
		out = combineReIm(data, w)
	}

	ref := series[0]
	for i, v := range out {
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			return nil, &SampleError{Mode: m, Index: i, Time: ref.TimeAt(i), Err: ErrNonFiniteResult}
		}
	}
	return out, nil
}

// Extrapolate runs ExtrapolateMode for every mode and returns a series on
// the common grid tagged as infinite radius.
func (e *Extrapolator) Extrapolate(series []*waveform.Series, order int, comp Components) (*waveform.Series, error) {
	if err := e.CheckAligned(series); err != nil {
		return nil, err
	}
	if err := waveform.SameModes(series...); err != nil {
		return nil, err
	}
	if err := e.CheckOrder(order); err != nil {
		return nil, err
	}

	modes := series[0].Modes()
	data := make(map[waveform.Mode][]complex128, len(modes))
	for _, m := range modes {
		v, err := e.ExtrapolateMode(series, m, order, comp)
		if err != nil {
			return nil, err
		}
		data[m] = v
	}
	return waveform.New(series[0].Times(), data, waveform.InfinityTag())
}

// combineReIm applies real weights to complex samples, which fits the real
// and imaginary parts independently.
func combineReIm(data [][]complex128, w []float64) []complex128 {
	out := make([]complex128, len(data[0]))
	for i := range out {
		var re, im float64
		for k, d := range data {
			re += w[k] * real(d[i])
			im += w[k] * imag(d[i])
		}
		out[i] = complex(re, im)
	}
	return out
}

// combineAmpPhase fits amplitude and unwrapped phase. Each radius' phase is
// moved onto the 2π branch closest to the first radius at the first sample.
func combineAmpPhase(data [][]complex128, w []float64) []complex128 {
	n := len(data[0])
	amps := make([][]float64, len(data))
	phases := make([][]float64, len(data))
	for k, d := range data {
		amps[k] = make([]float64, n)
		raw := make([]float64, n)
		for i, v := range d {
			amps[k][i] = cmplx.Abs(v)
			raw[i] = cmplx.Phase(v)
		}
		phases[k] = waveform.UnwrapPhase(raw)
	}
	for k := 1; k < len(phases); k++ {
		shift := 2 * math.Pi * math.Round((phases[0][0]-phases[k][0])/(2*math.Pi))
		if shift == 0 {
			continue
		}
		for i := range phases[k] {
			phases[k][i] += shift
		}
	}

	out := make([]complex128, n)
	for i := range out {
		var a, phi float64
		for k := range data {
			a += w[k] * amps[k][i]
			phi += w[k] * phases[k][i]
		}
		out[i] = cmplx.Rect(a, phi)
	}
	return out
}
