package testutil

import (
	"fmt"
	"math"
	"math/cmplx"
	"testing"
)

// RequireSliceNearlyEqual fails t at the first index where got and want
// differ by more than eps, or if their lengths differ.
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	requireNear(t, got, want, eps, func(a, b float64) float64 { return math.Abs(a - b) })
}

// RequireComplexNearlyEqual is RequireSliceNearlyEqual for mode samples,
// measuring |got - want|.
func RequireComplexNearlyEqual(t *testing.T, got, want []complex128, eps float64) {
	t.Helper()
	requireNear(t, got, want, eps, func(a, b complex128) float64 { return cmplx.Abs(a - b) })
}

func requireNear[T any](t *testing.T, got, want []T, eps float64, dist func(a, b T) float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if d := dist(got[i], want[i]); !(d <= eps) {
			t.Fatalf("sample %d: got %v, want %v (|diff| %g > %g)", i, got[i], want[i], d, eps)
		}
	}
}

// RequireConstant fails t unless every element of got lies within eps of want.
func RequireConstant(t *testing.T, got []float64, want, eps float64) {
	t.Helper()
	if len(got) == 0 {
		t.Fatal("empty slice")
	}
	for i, v := range got {
		if !(math.Abs(v-want) <= eps) {
			t.Fatalf("sample %d: got %v, want %v (eps %g)", i, v, want, eps)
		}
	}
}

// RequireFinite fails t on the first NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("sample %d: non-finite value %v", i, v)
		}
	}
}

// MaxAbsDiff returns max |a[i] - b[i]| over two mode sample slices.
func MaxAbsDiff(a, b []complex128) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	var worst float64
	for i := range a {
		worst = math.Max(worst, cmplx.Abs(a[i]-b[i]))
	}
	return worst, nil
}
