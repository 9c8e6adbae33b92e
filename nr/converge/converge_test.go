package converge

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-nrwave/internal/testutil"
	"github.com/cwbudde/algo-nrwave/waveform"
)

var (
	m22 = waveform.Mode{L: 2, M: 2}
	m21 = waveform.Mode{L: 2, M: 1}
)

func mustSeries(t *testing.T, times []float64, data map[waveform.Mode][]complex128, tag waveform.Tag) *waveform.Series {
	t.Helper()
	s, err := waveform.New(times, data, tag)
	if err != nil {
		t.Fatalf("waveform.New: %v", err)
	}
	return s
}

func chirpSeries(t *testing.T, times []float64, tag waveform.Tag) *waveform.Series {
	t.Helper()
	return mustSeries(t, times, map[waveform.Mode][]complex128{
		m22: testutil.Chirp(times, 0.1, 0.2, 0.01),
		m21: testutil.Chirp(times, 0.03, 0.1, 0.01),
	}, tag)
}

func gaussianPulse(times []float64, center float64) []complex128 {
	out := make([]complex128, len(times))
	for i, tm := range times {
		a := math.Exp(-(tm - center) * (tm - center) / 20)
		out[i] = complex(a, 0) * cmplx.Exp(complex(0, -0.5*tm))
	}
	return out
}

// linearLevel is exactly representable by linear interpolation plus a
// constant error c*dt^p standing in for truncation error.
func linearLevel(t *testing.T, dt float64, p float64, level int) Level {
	t.Helper()
	n := int(math.Round(10/dt)) + 1
	times := testutil.UniformTimes(0, dt, n)
	h := make([]complex128, n)
	offset := complex(math.Pow(dt, p), 0)
	for i, tm := range times {
		h[i] = complex(1+0.1*tm, 0.2*tm) + offset
	}
	return Level{
		Series: mustSeries(t, times, map[waveform.Mode][]complex128{m22: h}, waveform.LevelTag(level)),
		Proxy:  dt,
	}
}

func TestCompareSelfIsZero(t *testing.T) {
	times := testutil.UniformTimes(0, 0.5, 200)
	s := chirpSeries(t, times, waveform.LevelTag(1))

	r, err := Compare(s, s)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if r.Window.Start != s.Start() || r.Window.End != s.End() {
		t.Fatalf("window = %+v, want full domain [%g, %g]", r.Window, s.Start(), s.End())
	}
	testutil.RequireSliceNearlyEqual(t, r.Grid, times, 0)
	for _, m := range r.SortedModes() {
		d := r.Modes[m]
		testutil.RequireConstant(t, d.Amplitude, 0, 0)
		testutil.RequireConstant(t, d.Phase, 0, 0)
		if d.MaxAbs != 0 || d.L2 != 0 || d.RelL2 != 0 {
			t.Fatalf("mode %s: summaries = %+v, want zero", m, d)
		}
	}
	if r.Order.Defined || r.Order.Reason != ReasonSinglePair {
		t.Fatalf("order = %+v, want undefined single pair", r.Order)
	}
}

func TestCompareConstantOffset(t *testing.T) {
	times := testutil.UniformTimes(0, 0.25, 400)
	h := testutil.Chirp(times, 0.2, 0.3, 0.005)
	delta := complex(1e-3, -2e-3)

	a := mustSeries(t, times, map[waveform.Mode][]complex128{m22: h}, waveform.LevelTag(1))
	b := mustSeries(t, times, map[waveform.Mode][]complex128{m22: testutil.AddOffset(h, delta)}, waveform.LevelTag(2))

	r, err := Compare(a, b)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	d := r.Modes[m22]
	testutil.RequireConstant(t, d.Amplitude, cmplx.Abs(delta), 1e-12)
	if math.Abs(d.MaxAbs-cmplx.Abs(delta)) > 1e-12 {
		t.Fatalf("MaxAbs = %g, want %g", d.MaxAbs, cmplx.Abs(delta))
	}
	wantL2 := cmplx.Abs(delta) * math.Sqrt(times[len(times)-1]-times[0])
	if math.Abs(d.L2-wantL2) > 1e-9 {
		t.Fatalf("L2 = %g, want %g", d.L2, wantL2)
	}
	if !(d.RelL2 > 0) {
		t.Fatalf("RelL2 = %g, want > 0", d.RelL2)
	}
}

func TestCompareRestrictsToOverlap(t *testing.T) {
	a := chirpSeries(t, testutil.UniformTimes(0, 0.1, 101), waveform.LevelTag(1))
	b := chirpSeries(t, testutil.UniformTimes(5, 0.05, 301), waveform.LevelTag(2))

	r, err := Compare(a, b)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if math.Abs(r.Window.Start-5) > 1e-12 || math.Abs(r.Window.End-a.End()) > 1e-12 {
		t.Fatalf("window = %+v, want [5, %g]", r.Window, a.End())
	}
	if r.Grid[0] != r.Window.Start || r.Grid[len(r.Grid)-1] != r.Window.End {
		t.Fatalf("grid spans [%g, %g], want window", r.Grid[0], r.Grid[len(r.Grid)-1])
	}
	if step := r.Grid[1] - r.Grid[0]; step > 0.05+1e-12 {
		t.Fatalf("grid step = %g, want <= 0.05", step)
	}
}

func TestCompareModeMismatch(t *testing.T) {
	times := testutil.UniformTimes(0, 1, 10)
	a := chirpSeries(t, times, waveform.LevelTag(1))
	b := mustSeries(t, times, map[waveform.Mode][]complex128{m22: testutil.Chirp(times, 1, 1, 0)}, waveform.LevelTag(2))

	_, err := Compare(a, b)
	if !errors.Is(err, waveform.ErrModeMismatch) {
		t.Fatalf("err = %v, want ErrModeMismatch", err)
	}
}

func TestOverlapEmpty(t *testing.T) {
	a := chirpSeries(t, testutil.UniformTimes(0, 1, 10), waveform.LevelTag(1))
	b := chirpSeries(t, testutil.UniformTimes(20, 1, 10), waveform.LevelTag(2))

	if _, err := Overlap(a, b); !errors.Is(err, ErrEmptyOverlap) {
		t.Fatalf("Overlap err = %v, want ErrEmptyOverlap", err)
	}
	if _, err := Compare(a, b); !errors.Is(err, ErrEmptyOverlap) {
		t.Fatalf("Compare err = %v, want ErrEmptyOverlap", err)
	}
}

func TestOverlapCountsSamplesOfBothSeries(t *testing.T) {
	// Each series has a single sample inside [9, 10]; together they bound it.
	a := chirpSeries(t, []float64{0, 1, 2, 10}, waveform.LevelTag(1))
	b := chirpSeries(t, []float64{9, 20, 30}, waveform.LevelTag(2))

	w, err := Overlap(a, b)
	if err != nil {
		t.Fatalf("Overlap: %v", err)
	}
	if w.Start != 9 || w.End != 10 {
		t.Fatalf("window = %+v, want [9, 10]", w)
	}
	if a.CountIn(w)+b.CountIn(w) != 2 {
		t.Fatalf("samples in window = %d + %d, want 2", a.CountIn(w), b.CountIn(w))
	}

	r, err := Compare(a, b)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, r.Grid, []float64{9, 10}, 1e-12)
}

func TestOverlapTouchingEndpoints(t *testing.T) {
	a := chirpSeries(t, testutil.UniformTimes(0, 1, 11), waveform.LevelTag(1))
	b := chirpSeries(t, testutil.UniformTimes(10, 1, 11), waveform.LevelTag(2))

	if _, err := Overlap(a, b); !errors.Is(err, ErrEmptyOverlap) {
		t.Fatalf("Overlap err = %v, want ErrEmptyOverlap", err)
	}
}

func TestPhaseDiffNormalizedToFirstBranch(t *testing.T) {
	times := testutil.UniformTimes(0, 0.1, 50)
	h := testutil.Chirp(times, 1, 0.4, 0)
	rot := make([]complex128, len(h))
	for i, v := range h {
		rot[i] = v * cmplx.Exp(complex(0, 0.3+2*math.Pi))
	}
	a := mustSeries(t, times, map[waveform.Mode][]complex128{m22: rot}, waveform.LevelTag(1))
	b := mustSeries(t, times, map[waveform.Mode][]complex128{m22: h}, waveform.LevelTag(2))

	r, err := Compare(a, b)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	testutil.RequireConstant(t, r.Modes[m22].Phase, 0.3, 1e-9)
}

func TestEstimateOrderTwoLevelsUndefined(t *testing.T) {
	levels := []Level{linearLevel(t, 0.1, 2, 1), linearLevel(t, 0.05, 2, 2)}

	est, reports, err := EstimateOrder(levels)
	if err != nil {
		t.Fatalf("EstimateOrder: %v", err)
	}
	if est.Defined || est.Reason != ReasonSinglePair {
		t.Fatalf("estimate = %+v, want undefined", est)
	}
	if len(reports) != 1 || !(reports[0].MaxAbs() > 0) {
		t.Fatalf("reports = %v, want one pair with nonzero difference", reports)
	}
}

func TestEstimateOrderRecoversKnownOrder(t *testing.T) {
	for _, p := range []float64{2, 4} {
		levels := []Level{
			linearLevel(t, 0.1, p, 1),
			linearLevel(t, 0.05, p, 2),
			linearLevel(t, 0.025, p, 3),
		}
		est, reports, err := EstimateOrder(levels)
		if err != nil {
			t.Fatalf("p=%g: EstimateOrder: %v", p, err)
		}
		if len(reports) != 2 {
			t.Fatalf("p=%g: %d reports, want 2", p, len(reports))
		}
		if !est.Defined {
			t.Fatalf("p=%g: undefined: %s", p, est.Reason)
		}
		if math.Abs(est.Order-p) > 1e-3 {
			t.Fatalf("p=%g: order = %g", p, est.Order)
		}
		if got := est.PerMode[m22]; math.Abs(got-p) > 1e-3 {
			t.Fatalf("p=%g: per-mode order = %g", p, got)
		}
		if !(est.Errors[0] > est.Errors[1]) {
			t.Fatalf("p=%g: errors %v not decreasing", p, est.Errors)
		}
	}
}

func TestEstimateOrderIdenticalLevels(t *testing.T) {
	times := testutil.UniformTimes(0, 0.5, 40)
	s := chirpSeries(t, times, waveform.LevelTag(1))
	levels := []Level{{Series: s, Proxy: 1}, {Series: s, Proxy: 0.5}, {Series: s, Proxy: 0.25}}

	est, _, err := EstimateOrder(levels)
	if err != nil {
		t.Fatalf("EstimateOrder: %v", err)
	}
	if est.Defined || est.Reason != ReasonZeroDifference {
		t.Fatalf("estimate = %+v, want zero-difference reason", est)
	}
}

func TestEstimateOrderInsufficientLevels(t *testing.T) {
	_, _, err := EstimateOrder([]Level{linearLevel(t, 0.1, 2, 1)})
	if !errors.Is(err, ErrInsufficientLevels) {
		t.Fatalf("err = %v, want ErrInsufficientLevels", err)
	}
}

func TestLevelProxyDefaultsToInverseLength(t *testing.T) {
	l := linearLevel(t, 0.1, 2, 1)
	l.Proxy = 0
	if got, want := levelProxy(l), 1/float64(l.Series.Len()); got != want {
		t.Fatalf("proxy = %g, want %g", got, want)
	}
}

func TestEstimateShiftRecoversOffset(t *testing.T) {
	times := testutil.UniformTimes(0, 0.1, 1001)
	for _, shift := range []float64{3, 3.33, -1.75} {
		a := mustSeries(t, times, map[waveform.Mode][]complex128{m22: gaussianPulse(times, 50)}, waveform.LevelTag(1))
		b := mustSeries(t, times, map[waveform.Mode][]complex128{m22: gaussianPulse(times, 50+shift)}, waveform.LevelTag(2))

		got, err := EstimateShift(a, b)
		if err != nil {
			t.Fatalf("shift %g: EstimateShift: %v", shift, err)
		}
		if math.Abs(got+shift) > 0.02 {
			t.Fatalf("shift %g: estimate = %g, want %g", shift, got, -shift)
		}
	}
}

func TestCompareWithTimeAlignment(t *testing.T) {
	times := testutil.UniformTimes(0, 0.1, 1001)
	h := gaussianPulse(times, 50)
	a := mustSeries(t, times, map[waveform.Mode][]complex128{m22: h}, waveform.LevelTag(1))
	b, err := a.Shift(2)
	if err != nil {
		t.Fatalf("Shift: %v", err)
	}

	plain, err := Compare(a, b)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	aligned, err := Compare(a, b, WithTimeAlignment(true), WithAlignmentMode(m22))
	if err != nil {
		t.Fatalf("Compare aligned: %v", err)
	}
	if math.Abs(aligned.Shift+2) > 1e-3 {
		t.Fatalf("shift = %g, want -2", aligned.Shift)
	}
	if !(aligned.MaxAbs() < 1e-2*plain.MaxAbs()) {
		t.Fatalf("aligned MaxAbs %g not well below unaligned %g", aligned.MaxAbs(), plain.MaxAbs())
	}
}

func TestEstimateShiftMissingMode(t *testing.T) {
	times := testutil.UniformTimes(0, 0.1, 100)
	a := chirpSeries(t, times, waveform.LevelTag(1))
	_, err := EstimateShift(a, a, WithAlignmentMode(waveform.Mode{L: 3, M: 3}))
	if !errors.Is(err, waveform.ErrModeMismatch) {
		t.Fatalf("err = %v, want ErrModeMismatch", err)
	}
}
