package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"slices"
	"time"

	"github.com/cwbudde/algo-nrwave/dsp/interp"
	"github.com/cwbudde/algo-nrwave/nr/extrap"
	"github.com/cwbudde/algo-nrwave/nr/retard"
	"github.com/cwbudde/algo-nrwave/waveform"
	"golang.org/x/sync/errgroup"
)

// RadiusInput is one series recorded at a finite extraction radius.
type RadiusInput struct {
	Series  *waveform.Series
	Context retard.RadiusContext
}

// ExtrapolationResult holds one series at infinite radius per order.
type ExtrapolationResult struct {
	Orders map[int]*waveform.Series
	// Grid is the common retarded-time grid of every output series.
	Grid []float64
	// Radii are the coordinate radii used, in input order; FitRadii the
	// areal radii the fit ran in.
	Radii    []float64
	FitRadii []float64
	Modes    []waveform.Mode
}

// SortedOrders returns the computed orders ascending.
func (r *ExtrapolationResult) SortedOrders() []int {
	out := make([]int, 0, len(r.Orders))
	for n := range r.Orders {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// ExtrapolationDriver retards, resamples and extrapolates a set of radii.
type ExtrapolationDriver struct {
	cfg Config
}

// NewExtrapolationDriver validates cfg and returns a driver for it.
func NewExtrapolationDriver(cfg Config) (*ExtrapolationDriver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &ExtrapolationDriver{cfg: cfg}, nil
}

// Run extrapolates inputs for every configured order. The first failure
// aborts the run; no partial result is returned.
func (d *ExtrapolationDriver) Run(ctx context.Context, inputs []RadiusInput) (*ExtrapolationResult, error) {
	log := d.cfg.logger()
	started := time.Now()

	inputs, err := d.selectRadii(inputs)
	if err != nil {
		return nil, err
	}
	log.Info("extrapolation started", "radii", len(inputs), "orders", d.cfg.Orders)

	aligned := make([]*waveform.Series, len(inputs))
	radii := make([]float64, len(inputs))
	fitRadii := make([]float64, len(inputs))
	for k, in := range inputs {
		radii[k] = in.Context.CoordRadius
		fitRadii[k] = in.Context.Areal()

		s := in.Series
		if len(d.cfg.Modes) > 0 {
			if s, err = s.SelectModes(d.cfg.Modes); err != nil {
				return nil, &RunError{Stage: StageSelect, Radius: radii[k], Err: err}
			}
		}
		if aligned[k], err = retard.Align(s, in.Context); err != nil {
			return nil, &RunError{Stage: StageRetard, Radius: radii[k], Err: err}
		}
	}
	if err := waveform.SameModes(aligned...); err != nil {
		var mm *waveform.ModeMismatchError
		if errors.As(err, &mm) {
			return nil, &RunError{Stage: StageSelect, Radius: radii[mm.Index], Err: err}
		}
		return nil, &RunError{Stage: StageSelect, Err: err}
	}

	grid, err := extrapolationGrid(aligned)
	if err != nil {
		return nil, &RunError{Stage: StageGrid, Err: err}
	}
	log.Debug("common grid", "start", grid[0], "end", grid[len(grid)-1], "samples", len(grid))

	ip := interp.New(d.cfg.Interpolation)
	resampled := make([]*waveform.Series, len(aligned))
	for k, s := range aligned {
		if resampled[k], err = s.Resample(grid, ip); err != nil {
			return nil, &RunError{Stage: StageResample, Radius: radii[k], Err: err}
		}
	}

	ex, err := extrap.New(fitRadii)
	if err != nil {
		return nil, &RunError{Stage: StageFit, Err: err}
	}
	for _, n := range d.cfg.Orders {
		if err := ex.CheckOrder(n); err != nil {
			return nil, &RunError{Stage: StageFit, Order: n, HasOrder: true, Err: err}
		}
	}

	modes := resampled[0].Modes()
	perMode := make([]map[int][]complex128, len(modes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(d.cfg.Workers))
	for i, m := range modes {
		g.Go(func() error {
			out := make(map[int][]complex128, len(d.cfg.Orders))
			for _, n := range d.cfg.Orders {
				if err := gctx.Err(); err != nil {
					return err
				}
				h, err := ex.ExtrapolateMode(resampled, m, n, d.cfg.Components)
				if err != nil {
					return modeError(m, n, err)
				}
				out[n] = h
			}
			perMode[i] = out
			log.Debug("mode extrapolated", "mode", m.String())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &ExtrapolationResult{
		Orders:   make(map[int]*waveform.Series, len(d.cfg.Orders)),
		Grid:     grid,
		Radii:    radii,
		FitRadii: fitRadii,
		Modes:    modes,
	}
	for _, n := range d.cfg.Orders {
		data := make(map[waveform.Mode][]complex128, len(modes))
		for i, m := range modes {
			data[m] = perMode[i][n]
		}
		s, err := waveform.New(grid, data, waveform.InfinityTag())
		if err != nil {
			return nil, &RunError{Stage: StageFit, Order: n, HasOrder: true, Err: err}
		}
		result.Orders[n] = s
	}

	log.Info("extrapolation finished", "orders", len(result.Orders), "modes", len(modes),
		"elapsed", time.Since(started))
	return result, nil
}

func (d *ExtrapolationDriver) selectRadii(inputs []RadiusInput) ([]RadiusInput, error) {
	for k, in := range inputs {
		if in.Series == nil {
			return nil, &RunError{Stage: StageSelect, Radius: in.Context.CoordRadius,
				Err: fmt.Errorf("%w: input %d has no series", ErrMissingInput, k)}
		}
	}
	if len(d.cfg.Radii) == 0 {
		return inputs, nil
	}
	out := make([]RadiusInput, 0, len(d.cfg.Radii))
	for _, r := range d.cfg.Radii {
		i := slices.IndexFunc(inputs, func(in RadiusInput) bool {
			return sameRadius(in.Context.CoordRadius, r)
		})
		if i < 0 {
			return nil, &RunError{Stage: StageSelect, Radius: r, Err: ErrMissingInput}
		}
		out = append(out, inputs[i])
	}
	return out, nil
}

func sameRadius(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(math.Abs(a), math.Abs(b))
}

// extrapolationGrid spans the common retarded-time window at the finest
// minimum spacing among the radii.
func extrapolationGrid(series []*waveform.Series) ([]float64, error) {
	w, err := waveform.Intersect(series...)
	if err != nil {
		return nil, err
	}
	dt := math.Inf(1)
	for _, s := range series {
		minDt, _ := s.Spacing()
		if minDt > 0 && minDt < dt {
			dt = minDt
		}
	}
	return waveform.UniformGrid(w.Start, w.End, dt)
}

func modeError(m waveform.Mode, order int, err error) error {
	re := &RunError{Stage: StageFit, Mode: &m, Order: order, HasOrder: true, Err: err}
	var se *extrap.SampleError
	if errors.As(err, &se) {
		re.Time, re.HasTime = se.Time, true
	}
	return re
}

func workerCount(n int) int {
	if n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}
