package extrap

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// FitReal fits y(x) with a polynomial of the given order by ordinary least
// squares and returns its value at x = 0.
func FitReal(x, y []float64, order int) (float64, error) {
	if len(x) != len(y) {
		return 0, fmt.Errorf("%w: %d abscissae, %d values", ErrSeriesCount, len(x), len(y))
	}
	if err := checkOrder(order, x); err != nil {
		return 0, err
	}

	xs, _ := scaled(x)
	a := vandermonde(xs, order)

	var qr mat.QR
	qr.Factorize(a)

	var c mat.VecDense
	if err := qr.SolveVecTo(&c, false, mat.NewVecDense(len(y), slices.Clone(y))); err != nil {
		if err := conditionError(err); err != nil {
			return 0, err
		}
	}
	return c.AtVec(0), nil
}

// originWeights returns w such that the least-squares polynomial of the
// given order through (x_k, y_k) takes the value sum_k w_k y_k at x = 0.
// w is row 0 of the pseudo-inverse of the Vandermonde matrix.
func originWeights(x []float64, order int) ([]float64, error) {
	if err := checkOrder(order, x); err != nil {
		return nil, err
	}

	n := len(x)
	xs, _ := scaled(x)
	a := vandermonde(xs, order)

	ones := make([]float64, n)
	for i := range ones {
		ones[i] = 1
	}

	var pinv mat.Dense
	if err := pinv.Solve(a, mat.NewDiagDense(n, ones)); err != nil {
		if err := conditionError(err); err != nil {
			return nil, err
		}
	}

	w := make([]float64, n)
	mat.Row(w, 0, &pinv)
	return w, nil
}

func checkOrder(order int, x []float64) error {
	if order < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidOrder, order)
	}
	if d := countDistinct(x); d < 2 {
		return fmt.Errorf("%w: %d distinct of %d", ErrInsufficientRadii, d, len(x))
	} else if order >= len(x) || order >= d {
		return &UnderdeterminedFitError{Order: order, Radii: d}
	}
	return nil
}

// scaled divides x by max|x| so the Vandermonde columns stay in [-1, 1].
// The value at the origin does not depend on this scale.
func scaled(x []float64) ([]float64, float64) {
	m := 0.0
	for _, v := range x {
		m = math.Max(m, math.Abs(v))
	}
	out := make([]float64, len(x))
	if m == 0 {
		copy(out, x)
		return out, 1
	}
	for i, v := range x {
		out[i] = v / m
	}
	return out, m
}

func vandermonde(x []float64, order int) *mat.Dense {
	a := mat.NewDense(len(x), order+1, nil)
	for i, xi := range x {
		p := 1.0
		for j := 0; j <= order; j++ {
			a.Set(i, j, p)
			p *= xi
		}
	}
	return a
}

func countDistinct(x []float64) int {
	if len(x) == 0 {
		return 0
	}
	s := slices.Clone(x)
	slices.Sort(s)
	n := 1
	for i := 1; i < len(s); i++ {
		if s[i]-s[i-1] > 1e-12*math.Max(math.Abs(s[i]), math.Abs(s[i-1])) {
			n++
		}
	}
	return n
}

// conditionError maps gonum's conditioning report to ErrSingularFit when the
// system is exactly singular; finite condition numbers are accepted.
func conditionError(err error) error {
	var cond mat.Condition
	if errors.As(err, &cond) {
		if math.IsInf(float64(cond), 1) || math.IsNaN(float64(cond)) {
			return fmt.Errorf("%w: %v", ErrSingularFit, err)
		}
		return nil
	}
	return fmt.Errorf("%w: %v", ErrSingularFit, err)
}
