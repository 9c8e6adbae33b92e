package waveform

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-nrwave/internal/testutil"
)

var (
	m22 = Mode{L: 2, M: 2}
	m21 = Mode{L: 2, M: 1}
	m33 = Mode{L: 3, M: 3}
)

func mustSeries(t *testing.T, times []float64, data map[Mode][]complex128, tag Tag) *Series {
	t.Helper()
	s, err := New(times, data, tag)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name  string
		times []float64
		data  map[Mode][]complex128
		want  error
	}{
		{"empty", nil, map[Mode][]complex128{m22: nil}, ErrEmpty},
		{"no modes", []float64{0, 1}, nil, ErrNoModes},
		{"length", []float64{0, 1}, map[Mode][]complex128{m22: {1}}, ErrLengthMismatch},
		{"monotonic", []float64{0, 0}, map[Mode][]complex128{m22: {1, 2}}, ErrNonMonotonicTimes},
		{"nan time", []float64{0, math.NaN()}, map[Mode][]complex128{m22: {1, 2}}, ErrNonFinite},
		{"inf sample", []float64{0, 1}, map[Mode][]complex128{m22: {1, complex(math.Inf(1), 0)}}, ErrNonFinite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.times, tt.data, Tag{})
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSeriesIsImmutable(t *testing.T) {
	times := []float64{0, 1, 2}
	samples := []complex128{1, 2, 3}
	s := mustSeries(t, times, map[Mode][]complex128{m22: samples}, RadiusTag(100))

	times[0] = -5
	samples[0] = 99

	got := s.Times()
	got[1] = 42
	v, _ := s.Samples(m22)
	v[2] = 42

	if s.TimeAt(0) != 0 || s.TimeAt(1) != 1 {
		t.Fatalf("time axis aliased: %v", s.Times())
	}
	if s.At(m22, 0) != 1 || s.At(m22, 2) != 3 {
		t.Fatalf("samples aliased")
	}
}

func TestDerivedSeriesKeepLengthInvariant(t *testing.T) {
	times := testutil.UniformTimes(0, 0.5, 9)
	s := mustSeries(t, times, map[Mode][]complex128{
		m22: testutil.Chirp(times, 1, 0.3, 0.01),
		m21: testutil.Chirp(times, 0.2, 0.15, 0.01),
	}, RadiusTag(50))

	sliced, err := s.Slice(2, 7)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	shifted, err := s.Shift(3)
	if err != nil {
		t.Fatalf("Shift: %v", err)
	}
	grid, _ := UniformGrid(0.3, 3.7, 0.2)
	resampled, err := s.Resample(grid, nil)
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}

	for _, d := range []*Series{sliced, shifted, resampled, s.Copy()} {
		for _, m := range d.Modes() {
			v, _ := d.Samples(m)
			if len(v) != d.Len() {
				t.Fatalf("%s: %d samples for %d times", m, len(v), d.Len())
			}
		}
	}
	if shifted.Start() != 3 {
		t.Fatalf("shifted start = %v, want 3", shifted.Start())
	}
}

func TestSameModes(t *testing.T) {
	times := []float64{0, 1}
	a := mustSeries(t, times, map[Mode][]complex128{m22: {1, 1}, m21: {0, 0}}, Tag{})
	b := mustSeries(t, times, map[Mode][]complex128{m21: {0, 0}, m22: {1, 1}}, Tag{})
	c := mustSeries(t, times, map[Mode][]complex128{m22: {1, 1}, m33: {0, 0}}, Tag{})

	if err := SameModes(a, b); err != nil {
		t.Fatalf("SameModes(a, b) = %v", err)
	}

	err := SameModes(a, b, c)
	if !errors.Is(err, ErrModeMismatch) {
		t.Fatalf("err = %v, want ErrModeMismatch", err)
	}
	var mm *ModeMismatchError
	if !errors.As(err, &mm) {
		t.Fatalf("err %T is not *ModeMismatchError", err)
	}
	if mm.Index != 2 || len(mm.Missing) != 1 || mm.Missing[0] != m21 || len(mm.Extra) != 1 || mm.Extra[0] != m33 {
		t.Fatalf("unexpected mismatch detail: %+v", mm)
	}
}

func TestSelectModes(t *testing.T) {
	times := []float64{0, 1}
	s := mustSeries(t, times, map[Mode][]complex128{m22: {1, 1}, m21: {2, 2}}, Tag{})

	sel, err := s.SelectModes([]Mode{m22})
	if err != nil {
		t.Fatalf("SelectModes: %v", err)
	}
	if got := sel.Modes(); len(got) != 1 || got[0] != m22 {
		t.Fatalf("modes = %v", got)
	}

	if _, err := s.SelectModes([]Mode{m33}); !errors.Is(err, ErrModeMismatch) {
		t.Fatalf("err = %v, want ErrModeMismatch", err)
	}
}

func TestModesSorted(t *testing.T) {
	times := []float64{0}
	s := mustSeries(t, times, map[Mode][]complex128{m33: {0}, m22: {0}, m21: {0}}, Tag{})
	got := s.Modes()
	want := []Mode{m21, m22, m33}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("modes = %v, want %v", got, want)
		}
	}
}

func TestSpacing(t *testing.T) {
	s := mustSeries(t, []float64{0, 1, 1.5, 3.5}, map[Mode][]complex128{m22: {0, 0, 0, 0}}, Tag{})
	minDt, med := s.Spacing()
	if minDt != 0.5 || med != 1 {
		t.Fatalf("Spacing() = %v, %v; want 0.5, 1", minDt, med)
	}
}

func TestUnwrapPhase(t *testing.T) {
	times := testutil.UniformTimes(0, 0.1, 200)
	h := testutil.Chirp(times, 1, 2.0, 0)
	s := mustSeries(t, times, map[Mode][]complex128{m22: h}, Tag{})

	phase, _ := s.Phase(m22)
	want := make([]float64, len(times))
	for i, tm := range times {
		want[i] = -2.0 * tm
	}
	testutil.RequireSliceNearlyEqual(t, phase, want, 1e-9)
}

func TestTagString(t *testing.T) {
	tests := []struct {
		tag  Tag
		want string
	}{
		{RadiusTag(100), "R100"},
		{InfinityTag(), "Rinf"},
		{LevelTag(3), "Lev3"},
		{Tag{}, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.tag.String(); got != tt.want {
			t.Fatalf("String() = %q, want %q", got, tt.want)
		}
	}
}
