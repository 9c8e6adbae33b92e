package converge

import (
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/algo-nrwave/waveform"
)

// ModeDiff holds the comparison curves and summaries of one mode. All
// curves are sampled on the report grid.
type ModeDiff struct {
	Mode waveform.Mode
	// Amplitude is |h_a - h_b|.
	Amplitude []float64
	// RelAmplitude is (|h_a| - |h_b|) / |h_a|, zero where |h_a| vanishes.
	RelAmplitude []float64
	// Phase is the unwrapped arg(h_a) - arg(h_b), moved onto the 2π branch
	// nearest zero at the first sample.
	Phase []float64

	MaxAbs   float64
	MaxPhase float64
	L2       float64
	RelL2    float64
}

func diffMode(m waveform.Mode, grid []float64, a, b []complex128) ModeDiff {
	n := len(grid)
	are, aim := splitParts(a)
	bre, bim := splitParts(b)

	dre := make([]float64, n)
	dim := make([]float64, n)
	for i := range n {
		dre[i] = are[i] - bre[i]
		dim[i] = aim[i] - bim[i]
	}

	d := ModeDiff{Mode: m, Amplitude: make([]float64, n)}
	vecmath.Magnitude(d.Amplitude, dre, dim)

	absA := make([]float64, n)
	absB := make([]float64, n)
	vecmath.Magnitude(absA, are, aim)
	vecmath.Magnitude(absB, bre, bim)
	d.RelAmplitude = make([]float64, n)
	for i := range n {
		if absA[i] > 0 {
			d.RelAmplitude[i] = (absA[i] - absB[i]) / absA[i]
		}
	}

	d.Phase = phaseDiff(are, aim, bre, bim)

	for i := range n {
		d.MaxAbs = math.Max(d.MaxAbs, d.Amplitude[i])
		d.MaxPhase = math.Max(d.MaxPhase, math.Abs(d.Phase[i]))
	}

	sq := make([]float64, n)
	vecmath.Power(sq, dre, dim)
	d.L2 = math.Sqrt(trapezoid(grid, sq))

	vecmath.Power(sq, are, aim)
	if ref := math.Sqrt(trapezoid(grid, sq)); ref > 0 {
		d.RelL2 = d.L2 / ref
	} else if d.L2 > 0 {
		d.RelL2 = math.Inf(1)
	}
	return d
}

func splitParts(h []complex128) (re, im []float64) {
	re = make([]float64, len(h))
	im = make([]float64, len(h))
	for i, c := range h {
		re[i] = real(c)
		im[i] = imag(c)
	}
	return re, im
}

func phaseDiff(are, aim, bre, bim []float64) []float64 {
	pa := make([]float64, len(are))
	pb := make([]float64, len(bre))
	for i := range pa {
		pa[i] = math.Atan2(aim[i], are[i])
		pb[i] = math.Atan2(bim[i], bre[i])
	}
	pa = waveform.UnwrapPhase(pa)
	pb = waveform.UnwrapPhase(pb)

	out := make([]float64, len(pa))
	for i := range out {
		out[i] = pa[i] - pb[i]
	}
	if len(out) > 0 {
		if k := math.Round(out[0] / (2 * math.Pi)); k != 0 {
			for i := range out {
				out[i] -= 2 * math.Pi * k
			}
		}
	}
	return out
}

// trapezoid integrates y over the abscissae x.
func trapezoid(x, y []float64) float64 {
	var sum float64
	for i := 1; i < len(x); i++ {
		sum += 0.5 * (x[i] - x[i-1]) * (y[i] + y[i-1])
	}
	return sum
}
