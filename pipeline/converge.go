package pipeline

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/cwbudde/algo-nrwave/dsp/interp"
	"github.com/cwbudde/algo-nrwave/nr/converge"
	"github.com/cwbudde/algo-nrwave/waveform"
)

// LevelInput is one resolution level of a simulation.
type LevelInput struct {
	Series *waveform.Series
	Level  int
	// Spacing is the grid spacing of the level. Zero selects 1/N as the
	// resolution proxy.
	Spacing float64
}

// PairOutcome is the comparison of two levels, Coarse < Fine. Exactly one of
// Report and Err is set.
type PairOutcome struct {
	Coarse int
	Fine   int
	Report *converge.Report
	Err    error
}

// ConvergenceResult collects every pair outcome and the sequence estimate.
type ConvergenceResult struct {
	Levels []int
	Pairs  []PairOutcome
	// Order is the estimate over the level-ordered sequence. It is
	// undefined unless FullSequence is set and at least three levels ran.
	Order converge.OrderEstimate
	// OrderErr is set when the sequence estimate failed.
	OrderErr error
}

// Failed returns the pairs whose comparison failed.
func (r *ConvergenceResult) Failed() []PairOutcome {
	var out []PairOutcome
	for _, p := range r.Pairs {
		if p.Err != nil {
			out = append(out, p)
		}
	}
	return out
}

// ConvergenceDriver compares every pair of resolution levels.
type ConvergenceDriver struct {
	cfg Config
}

// NewConvergenceDriver validates cfg and returns a driver for it.
func NewConvergenceDriver(cfg Config) (*ConvergenceDriver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &ConvergenceDriver{cfg: cfg}, nil
}

// Run compares all ordered level pairs in parallel. A failing pair is
// recorded in its outcome and does not affect the others.
func (d *ConvergenceDriver) Run(ctx context.Context, inputs []LevelInput) (*ConvergenceResult, error) {
	log := d.cfg.logger()
	started := time.Now()

	levels, err := d.selectLevels(inputs)
	if err != nil {
		return nil, err
	}
	if len(levels) < 2 {
		return nil, fmt.Errorf("%w: got %d", converge.ErrInsufficientLevels, len(levels))
	}
	log.Info("convergence started", "levels", len(levels))

	series := make([]*waveform.Series, len(levels))
	selectErr := make([]error, len(levels))
	for k, in := range levels {
		series[k] = in.Series
		if len(d.cfg.Modes) > 0 {
			series[k], selectErr[k] = in.Series.SelectModes(d.cfg.Modes)
		}
	}

	opts := []converge.Option{
		converge.WithInterpolator(interp.New(d.cfg.Interpolation)),
		converge.WithTimeAlignment(d.cfg.TimeAlignment),
	}

	var pairs []PairOutcome
	for i := range levels {
		for j := i + 1; j < len(levels); j++ {
			pairs = append(pairs, PairOutcome{Coarse: levels[i].Level, Fine: levels[j].Level})
		}
	}

	sem := make(chan struct{}, workerCount(d.cfg.Workers))
	var wg sync.WaitGroup
	p := 0
	for i := range levels {
		for j := i + 1; j < len(levels); j++ {
			out := &pairs[p]
			p++
			wg.Add(1)
			go func() {
				defer wg.Done()
				select {
				case sem <- struct{}{}:
					defer func() { <-sem }()
				case <-ctx.Done():
					out.Err = ctx.Err()
					return
				}
				switch {
				case selectErr[i] != nil:
					out.Err = fmt.Errorf("pipeline: level %d: %w", levels[i].Level, selectErr[i])
				case selectErr[j] != nil:
					out.Err = fmt.Errorf("pipeline: level %d: %w", levels[j].Level, selectErr[j])
				default:
					out.Report, out.Err = converge.Compare(series[i], series[j], opts...)
				}
				if out.Err != nil {
					log.Warn("pair failed", "coarse", out.Coarse, "fine", out.Fine, "err", out.Err)
					return
				}
				log.Debug("pair compared", "coarse", out.Coarse, "fine", out.Fine,
					"max_abs", out.Report.MaxAbs())
			}()
		}
	}
	wg.Wait()

	result := &ConvergenceResult{
		Pairs: pairs,
		Order: converge.Undefined(converge.ReasonSinglePair),
	}
	for _, in := range levels {
		result.Levels = append(result.Levels, in.Level)
	}

	switch {
	case len(levels) < 3:
	case !d.cfg.FullSequence:
		result.Order = converge.Undefined(converge.ReasonNotRequested)
	default:
		result.Order, result.OrderErr = d.estimateOrder(levels, series, selectErr, opts)
		if result.OrderErr != nil {
			log.Warn("order estimate failed", "err", result.OrderErr)
		} else if result.Order.Defined {
			log.Info("order estimated", "order", result.Order.Order)
		}
	}

	log.Info("convergence finished", "pairs", len(pairs), "failed", len(result.Failed()),
		"elapsed", time.Since(started))
	return result, nil
}

func (d *ConvergenceDriver) estimateOrder(levels []LevelInput, series []*waveform.Series, selectErr []error, opts []converge.Option) (converge.OrderEstimate, error) {
	seq := make([]converge.Level, len(levels))
	for k, in := range levels {
		if selectErr[k] != nil {
			return converge.OrderEstimate{}, fmt.Errorf("pipeline: level %d: %w", in.Level, selectErr[k])
		}
		seq[k] = converge.Level{Series: series[k], Proxy: in.Spacing}
	}
	est, _, err := converge.EstimateOrder(seq, opts...)
	return est, err
}

// selectLevels filters by the configured levels and orders coarse to fine
// by level number.
func (d *ConvergenceDriver) selectLevels(inputs []LevelInput) ([]LevelInput, error) {
	for _, in := range inputs {
		if in.Series == nil {
			return nil, fmt.Errorf("%w: level %d has no series", ErrMissingInput, in.Level)
		}
	}
	out := slices.Clone(inputs)
	if len(d.cfg.Levels) > 0 {
		out = out[:0]
		for _, lev := range d.cfg.Levels {
			i := slices.IndexFunc(inputs, func(in LevelInput) bool { return in.Level == lev })
			if i < 0 {
				return nil, fmt.Errorf("%w: level %d", ErrMissingInput, lev)
			}
			out = append(out, inputs[i])
		}
	}
	slices.SortStableFunc(out, func(a, b LevelInput) int { return cmp.Compare(a.Level, b.Level) })
	return out, nil
}
