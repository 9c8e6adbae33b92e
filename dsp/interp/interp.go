package interp

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrLengthMismatch indicates xs/ys or dst/at of different lengths.
	ErrLengthMismatch = errors.New("interp: length mismatch")
	// ErrTooFewPoints indicates fewer than two support points.
	ErrTooFewPoints = errors.New("interp: need at least two points")
	// ErrOutOfRange indicates an evaluation point outside [xs[0], xs[n-1]].
	ErrOutOfRange = errors.New("interp: point outside support")
	// ErrUnknownMethod indicates an unrecognized method name.
	ErrUnknownMethod = errors.New("interp: unknown method")
)

// Method selects an interpolation strategy.
type Method int

const (
	MethodLinear Method = iota
	MethodHermite
)

func (m Method) String() string {
	switch m {
	case MethodHermite:
		return "hermite"
	default:
		return "linear"
	}
}

// ParseMethod maps "linear" or "hermite" (case-insensitive) to a Method.
// The empty string selects MethodLinear.
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "linear":
		return MethodLinear, nil
	case "hermite", "cubic":
		return MethodHermite, nil
	default:
		return MethodLinear, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
}

// Interpolator is implemented by every strategy in this package.
type Interpolator interface {
	Interpolate(dst, xs, ys, at []float64) error
}

// New returns the strategy for m.
func New(m Method) Interpolator {
	if m == MethodHermite {
		return Hermite{}
	}
	return Linear{}
}

// Linear is piecewise linear interpolation.
type Linear struct{}

// Interpolate evaluates the piecewise linear interpolant of (xs, ys) at each
// point of at. Evaluating at a support point returns its sample exactly.
func (Linear) Interpolate(dst, xs, ys, at []float64) error {
	if err := validate(dst, xs, ys, at); err != nil {
		return err
	}
	c := cursor{xs: xs}
	for i, x := range at {
		k, t, err := c.locate(x)
		if err != nil {
			return err
		}
		if t == 0 {
			dst[i] = ys[k]
			continue
		}
		dst[i] = ys[k] + t*(ys[k+1]-ys[k])
	}
	return nil
}

// Hermite is piecewise cubic Hermite interpolation. Interior tangents are
// centered differences over the neighboring support points, end tangents
// are one-sided; on a uniform grid this is the four-point Catmull-Rom
// kernel.
type Hermite struct{}

// Interpolate evaluates the cubic Hermite interpolant of (xs, ys) at each
// point of at. Evaluating at a support point returns its sample exactly.
func (Hermite) Interpolate(dst, xs, ys, at []float64) error {
	if err := validate(dst, xs, ys, at); err != nil {
		return err
	}
	c := cursor{xs: xs}
	for i, x := range at {
		k, t, err := c.locate(x)
		if err != nil {
			return err
		}
		if t == 0 {
			dst[i] = ys[k]
			continue
		}
		h := xs[k+1] - xs[k]
		d0 := slope(xs, ys, k) * h
		d1 := slope(xs, ys, k+1) * h
		dst[i] = hermiteSegment(t, ys[k], ys[k+1], d0, d1)
	}
	return nil
}

// slope estimates dy/dx at support point k.
func slope(xs, ys []float64, k int) float64 {
	n := len(xs)
	switch k {
	case 0:
		return (ys[1] - ys[0]) / (xs[1] - xs[0])
	case n - 1:
		return (ys[n-1] - ys[n-2]) / (xs[n-1] - xs[n-2])
	default:
		return (ys[k+1] - ys[k-1]) / (xs[k+1] - xs[k-1])
	}
}

// hermiteSegment evaluates the cubic with values y0, y1 and tangents d0, d1
// (already scaled by the segment width) at t in [0,1].
func hermiteSegment(t, y0, y1, d0, d1 float64) float64 {
	c0 := y0
	c1 := d0
	c2 := 3*(y1-y0) - 2*d0 - d1
	c3 := 2*(y0-y1) + d0 + d1
	return ((c3*t+c2)*t+c1)*t + c0
}

func validate(dst, xs, ys, at []float64) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("%w: %d xs, %d ys", ErrLengthMismatch, len(xs), len(ys))
	}
	if len(dst) != len(at) {
		return fmt.Errorf("%w: dst %d, at %d", ErrLengthMismatch, len(dst), len(at))
	}
	if len(xs) < 2 {
		return ErrTooFewPoints
	}
	return nil
}

// cursor locates points in xs. It remembers the last segment so that
// increasing evaluation points are found in amortized constant time.
type cursor struct {
	xs []float64
	k  int
}

// locate returns the segment index k and the fraction t in [0,1) such that
// x = xs[k] + t*(xs[k+1]-xs[k]). Points within rounding distance of the
// support ends are clamped; t == 0 means x is the support point xs[k].
func (c *cursor) locate(x float64) (int, float64, error) {
	xs := c.xs
	n := len(xs)
	tol := 1e-12 * math.Max(1, math.Abs(xs[n-1]-xs[0]))
	switch {
	case math.IsNaN(x) || x < xs[0]-tol || x > xs[n-1]+tol:
		return 0, 0, fmt.Errorf("%w: %g not in [%g, %g]", ErrOutOfRange, x, xs[0], xs[n-1])
	case x <= xs[0]:
		c.k = 0
		return 0, 0, nil
	case x >= xs[n-1]:
		c.k = n - 2
		return n - 1, 0, nil
	}

	if x < xs[c.k] {
		c.k = 0
	}
	if x >= xs[c.k+1] {
		// Short forward scan first, then bisect.
		j := c.k + 1
		for steps := 0; j < n-1 && x >= xs[j+1] && steps < 8; steps++ {
			j++
		}
		if j < n-1 && x >= xs[j+1] {
			lo, hi := j, n-1
			for hi-lo > 1 {
				mid := (lo + hi) / 2
				if xs[mid] <= x {
					lo = mid
				} else {
					hi = mid
				}
			}
			j = lo
		}
		c.k = j
	}

	k := c.k
	if x == xs[k] {
		return k, 0, nil
	}
	return k, (x - xs[k]) / (xs[k+1] - xs[k]), nil
}
