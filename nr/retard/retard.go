package retard

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-nrwave/waveform"
)

var (
	// ErrInvalidRadius indicates an areal radius at or inside 2M, or a
	// mass that admits no horizon.
	ErrInvalidRadius = errors.New("retard: radius inside 2M")
	// ErrInvalidMass indicates a non-positive or non-finite mass. Errors
	// matching it also match ErrInvalidRadius.
	ErrInvalidMass = errors.New("retard: invalid mass")
	// ErrTooFewSamples indicates a series with fewer than two samples.
	ErrTooFewSamples = errors.New("retard: need at least two samples")
	// ErrLengthMismatch indicates per-sample context arrays of the wrong length.
	ErrLengthMismatch = errors.New("retard: context length does not match series")
)

// InvalidRadiusError reports the offending areal radius and mass. It
// matches ErrInvalidRadius, and ErrInvalidMass as well when the mass is the
// culprit.
type InvalidRadiusError struct {
	Radius float64
	Mass   float64
}

func (e *InvalidRadiusError) Error() string {
	if e.badMass() {
		return fmt.Sprintf("retard: invalid mass %g at areal radius %g", e.Mass, e.Radius)
	}
	return fmt.Sprintf("retard: areal radius %g not outside 2M = %g", e.Radius, 2*e.Mass)
}

func (e *InvalidRadiusError) Is(target error) bool {
	return target == ErrInvalidRadius || (target == ErrInvalidMass && e.badMass())
}

func (e *InvalidRadiusError) badMass() bool {
	return !(e.Mass > 0) || math.IsInf(e.Mass, 0)
}

// RadiusContext describes the extraction sphere a series was recorded on.
type RadiusContext struct {
	// CoordRadius is the coordinate radius of the extraction sphere.
	CoordRadius float64
	// ArealRadius overrides the areal radius. When zero it is derived
	// from CoordRadius, see ArealFromIsotropic.
	ArealRadius float64
	// Mass is the total (Christodoulou) mass of the system at that radius.
	Mass float64
	// ArealRadii optionally gives a per-sample areal radius.
	ArealRadii []float64
	// Lapse optionally gives the per-sample average lapse on the sphere.
	Lapse []float64
}

// ArealFromIsotropic converts an isotropic Schwarzschild coordinate radius
// to areal radius, r(1 + M/(2r))².
func ArealFromIsotropic(r, m float64) float64 {
	x := 1 + m/(2*r)
	return r * x * x
}

// Areal returns the effective areal radius: the mean of ArealRadii when
// given, else ArealRadius, else the isotropic conversion of CoordRadius.
func (c RadiusContext) Areal() float64 {
	if len(c.ArealRadii) > 0 {
		sum := 0.0
		for _, r := range c.ArealRadii {
			sum += r
		}
		return sum / float64(len(c.ArealRadii))
	}
	if c.ArealRadius != 0 {
		return c.ArealRadius
	}
	return ArealFromIsotropic(c.CoordRadius, c.Mass)
}

// TortoiseCoordinate returns r + 2M ln(r/(2M) - 1).
func TortoiseCoordinate(r, m float64) (float64, error) {
	if !(m > 0) || math.IsInf(m, 0) || !(r > 2*m) || math.IsInf(r, 0) {
		return 0, &InvalidRadiusError{Radius: r, Mass: m}
	}
	return r + 2*m*math.Log(r/(2*m)-1), nil
}

// RetardedTime returns t - r*(r, M).
func RetardedTime(t, r, m float64) (float64, error) {
	rs, err := TortoiseCoordinate(r, m)
	if err != nil {
		return 0, err
	}
	return t - rs, nil
}

// RetardedTimes maps every coordinate time onto retarded time using ctx.
func RetardedTimes(times []float64, ctx RadiusContext) ([]float64, error) {
	if len(times) < 2 {
		return nil, ErrTooFewSamples
	}
	if len(ctx.ArealRadii) > 0 && len(ctx.ArealRadii) != len(times) {
		return nil, fmt.Errorf("%w: %d areal radii for %d samples", ErrLengthMismatch, len(ctx.ArealRadii), len(times))
	}

	base := times
	if len(ctx.Lapse) > 0 {
		pt, err := ProperTime(times, ctx.Lapse)
		if err != nil {
			return nil, err
		}
		base = pt
	}

	out := make([]float64, len(times))
	if len(ctx.ArealRadii) > 0 {
		for i, t := range base {
			tr, err := RetardedTime(t, ctx.ArealRadii[i], ctx.Mass)
			if err != nil {
				return nil, fmt.Errorf("sample %d: %w", i, err)
			}
			out[i] = tr
		}
		return out, nil
	}

	rs, err := TortoiseCoordinate(ctx.Areal(), ctx.Mass)
	if err != nil {
		return nil, err
	}
	for i, t := range base {
		out[i] = t - rs
	}
	return out, nil
}

// ProperTime integrates the lapse over coordinate time with the trapezoidal
// rule, starting from times[0].
func ProperTime(times, lapse []float64) ([]float64, error) {
	if len(lapse) != len(times) {
		return nil, fmt.Errorf("%w: %d lapse samples for %d times", ErrLengthMismatch, len(lapse), len(times))
	}
	out := make([]float64, len(times))
	if len(times) == 0 {
		return out, nil
	}
	out[0] = times[0]
	for i := 1; i < len(times); i++ {
		out[i] = out[i-1] + 0.5*(lapse[i]+lapse[i-1])*(times[i]-times[i-1])
	}
	return out, nil
}

// Align returns a copy of s whose time axis is retarded time. The result
// keeps the tag of s.
func Align(s *waveform.Series, ctx RadiusContext) (*waveform.Series, error) {
	if s.Len() < 2 {
		return nil, ErrTooFewSamples
	}
	tr, err := RetardedTimes(s.Times(), ctx)
	if err != nil {
		return nil, err
	}
	out, err := s.WithTimes(tr)
	if err != nil {
		return nil, fmt.Errorf("retard: %w", err)
	}
	return out, nil
}
