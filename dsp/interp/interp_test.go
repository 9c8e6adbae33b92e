package interp

import (
	"errors"
	"math"
	"testing"
)

// hermite4 is the uniform four-point form, interpolating from x0 to x1
// with neighbors xm1 and x2.
func hermite4(t, xm1, x0, x1, x2 float64) float64 {
	return hermiteSegment(t, x0, x1, 0.5*(x1-xm1), 0.5*(x2-x0))
}

func TestHermite4IdentityOnLinearRamp(t *testing.T) {
	xm1, x0, x1, x2 := -1.0, 0.0, 1.0, 2.0
	for _, tc := range []struct {
		t float64
		w float64
	}{
		{t: 0.0, w: 0.0},
		{t: 0.25, w: 0.25},
		{t: 0.5, w: 0.5},
		{t: 1.0, w: 1.0},
	} {
		got := hermite4(tc.t, xm1, x0, x1, x2)
		if diff := got - tc.w; diff < -1e-12 || diff > 1e-12 {
			t.Fatalf("t=%v: got %v want %v", tc.t, got, tc.w)
		}
	}
}

func TestLinearInterpolate(t *testing.T) {
	xs := []float64{0, 1, 3, 4}
	ys := []float64{2, 4, 0, 1}
	at := []float64{0, 0.25, 1, 2, 3.5, 4}
	want := []float64{2, 2.5, 4, 2, 0.5, 1}

	got := make([]float64, len(at))
	if err := (Linear{}).Interpolate(got, xs, ys, at); err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("at %v: got %v want %v", at[i], got[i], want[i])
		}
	}
}

func TestInterpolateSupportPointsExact(t *testing.T) {
	xs := []float64{0, 0.1, 0.35, 0.7, 1.3}
	ys := []float64{0.3, -1.7, 2.9, 1e-3, 5.5}

	for _, ip := range []Interpolator{Linear{}, Hermite{}} {
		got := make([]float64, len(xs))
		if err := ip.Interpolate(got, xs, ys, xs); err != nil {
			t.Fatalf("%T: %v", ip, err)
		}
		for i := range ys {
			if got[i] != ys[i] {
				t.Fatalf("%T: index %d got %v want %v", ip, i, got[i], ys[i])
			}
		}
	}
}

func TestHermiteReproducesQuadraticOnUniformInterior(t *testing.T) {
	xs := make([]float64, 11)
	ys := make([]float64, 11)
	for i := range xs {
		xs[i] = float64(i) * 0.5
		ys[i] = xs[i] * xs[i]
	}
	// Catmull-Rom tangents are exact for quadratics on uniform grids.
	at := []float64{1.25, 2.1, 3.3}
	got := make([]float64, len(at))
	if err := (Hermite{}).Interpolate(got, xs, ys, at); err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	for i, x := range at {
		if math.Abs(got[i]-x*x) > 1e-12 {
			t.Fatalf("at %v: got %v want %v", x, got[i], x*x)
		}
	}
}

func TestHermiteMatchesHermite4OnUniformGrid(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	ys := []float64{0.2, 1.1, -0.4, 0.9}
	at := []float64{1.3}
	got := make([]float64, 1)
	if err := (Hermite{}).Interpolate(got, xs, ys, at); err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	want := hermite4(0.3, ys[0], ys[1], ys[2], ys[3])
	if math.Abs(got[0]-want) > 1e-12 {
		t.Fatalf("got %v want %v", got[0], want)
	}
}

func TestUnsortedEvaluationPoints(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = 3*x - 1
	}
	at := []float64{11.5, 0.5, 6.25, 12, 0, 3.75}
	got := make([]float64, len(at))
	if err := (Linear{}).Interpolate(got, xs, ys, at); err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	for i, x := range at {
		if math.Abs(got[i]-(3*x-1)) > 1e-12 {
			t.Fatalf("at %v: got %v want %v", x, got[i], 3*x-1)
		}
	}
}

func TestInterpolateErrors(t *testing.T) {
	tests := []struct {
		name string
		dst  []float64
		xs   []float64
		ys   []float64
		at   []float64
		want error
	}{
		{"length", make([]float64, 1), []float64{0, 1}, []float64{0}, []float64{0.5}, ErrLengthMismatch},
		{"dst", make([]float64, 2), []float64{0, 1}, []float64{0, 1}, []float64{0.5}, ErrLengthMismatch},
		{"few", make([]float64, 1), []float64{0}, []float64{0}, []float64{0}, ErrTooFewPoints},
		{"below", make([]float64, 1), []float64{0, 1}, []float64{0, 1}, []float64{-0.5}, ErrOutOfRange},
		{"above", make([]float64, 1), []float64{0, 1}, []float64{0, 1}, []float64{1.5}, ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (Linear{}).Interpolate(tt.dst, tt.xs, tt.ys, tt.at)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in   string
		want Method
		err  bool
	}{
		{"", MethodLinear, false},
		{"Linear", MethodLinear, false},
		{"hermite", MethodHermite, false},
		{"cubic", MethodHermite, false},
		{"sinc", MethodLinear, true},
	}
	for _, tt := range tests {
		got, err := ParseMethod(tt.in)
		if (err != nil) != tt.err {
			t.Fatalf("ParseMethod(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseMethod(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, ok := New(MethodHermite).(Hermite); !ok {
		t.Fatal("New(MethodHermite) did not return Hermite")
	}
}
