package converge

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-nrwave/waveform"
	"gonum.org/v1/gonum/stat"
)

// Reasons attached to undefined order estimates.
const (
	ReasonSinglePair     = "order estimation needs at least three resolution levels"
	ReasonFlatProxy      = "resolution proxies do not vary"
	ReasonZeroDifference = "differences vanish between consecutive levels"
	ReasonNotRequested   = "sequence estimate not requested"
)

// Level is one resolution of a convergence sequence.
type Level struct {
	Series *waveform.Series
	// Proxy measures resolution, typically the grid spacing. Values <= 0
	// select 1/N with N the number of time samples.
	Proxy float64
}

// OrderEstimate is an empirical convergence order. When Defined is false,
// Reason explains why and the numeric fields are zero.
type OrderEstimate struct {
	Defined bool
	Reason  string
	// Order is the slope of log(max |Δh|) against log(proxy) over all modes.
	Order float64
	// PerMode holds the slope per mode; modes whose differences vanish are
	// omitted.
	PerMode map[waveform.Mode]float64
	// Proxies and Errors are the regression points, one per consecutive pair.
	Proxies []float64
	Errors  []float64
}

// Undefined returns an estimate flagged as not computable.
func Undefined(reason string) OrderEstimate {
	return OrderEstimate{Reason: reason}
}

// EstimateOrder compares consecutive levels, ordered coarse to fine, and
// fits the order of convergence. Two levels yield only the pairwise report
// with an undefined estimate.
func EstimateOrder(levels []Level, opts ...Option) (OrderEstimate, []*Report, error) {
	if len(levels) < 2 {
		return OrderEstimate{}, nil, fmt.Errorf("%w: got %d", ErrInsufficientLevels, len(levels))
	}

	reports := make([]*Report, len(levels)-1)
	for k := range reports {
		r, err := Compare(levels[k].Series, levels[k+1].Series, opts...)
		if err != nil {
			return OrderEstimate{}, nil, fmt.Errorf("converge: levels %d and %d: %w", k, k+1, err)
		}
		reports[k] = r
	}
	if len(levels) == 2 {
		return Undefined(ReasonSinglePair), reports, nil
	}

	proxies := make([]float64, len(reports))
	for k := range reports {
		proxies[k] = levelProxy(levels[k])
	}
	return fitOrder(proxies, reports), reports, nil
}

func levelProxy(l Level) float64 {
	if l.Proxy > 0 {
		return l.Proxy
	}
	return 1 / float64(l.Series.Len())
}

func fitOrder(proxies []float64, reports []*Report) OrderEstimate {
	x := make([]float64, len(proxies))
	for k, p := range proxies {
		x[k] = math.Log(p)
	}
	if stat.Variance(x, nil) == 0 {
		return Undefined(ReasonFlatProxy)
	}

	errs := make([]float64, len(reports))
	for k, r := range reports {
		errs[k] = r.MaxAbs()
	}
	order, ok := slope(x, errs)
	if !ok {
		return Undefined(ReasonZeroDifference)
	}

	est := OrderEstimate{
		Defined: true,
		Order:   order,
		PerMode: make(map[waveform.Mode]float64),
		Proxies: proxies,
		Errors:  errs,
	}
	for _, m := range reports[0].SortedModes() {
		e := make([]float64, len(reports))
		for k, r := range reports {
			e[k] = r.Modes[m].MaxAbs
		}
		if p, ok := slope(x, e); ok {
			est.PerMode[m] = p
		}
	}
	return est
}

// slope regresses log(e) on x. It fails when any e is not positive.
func slope(x, e []float64) (float64, bool) {
	y := make([]float64, len(e))
	for k, v := range e {
		if !(v > 0) || math.IsInf(v, 0) {
			return 0, false
		}
		y[k] = math.Log(v)
	}
	_, beta := stat.LinearRegression(x, y, nil, false)
	return beta, !math.IsNaN(beta)
}
