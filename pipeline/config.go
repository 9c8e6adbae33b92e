package pipeline

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/cwbudde/algo-nrwave/dsp/interp"
	"github.com/cwbudde/algo-nrwave/nr/extrap"
	"github.com/cwbudde/algo-nrwave/waveform"
)

// ErrInvalidConfig indicates a configuration that fails validation.
var ErrInvalidConfig = errors.New("pipeline: invalid config")

// DefaultOrders are the extrapolation orders computed when none are set.
var DefaultOrders = []int{2, 3, 4, 5, 6}

// Config carries every setting of a run.
type Config struct {
	// Orders lists the extrapolation orders to compute.
	Orders []int
	// Modes restricts processing to these modes. Empty keeps all modes,
	// which must then agree across inputs.
	Modes []waveform.Mode
	// Radii selects a subset of the input radii. Empty keeps all.
	Radii []float64
	// Levels selects a subset of the input levels. Empty keeps all.
	Levels []int
	// Interpolation is the resampling strategy.
	Interpolation interp.Method
	// Components selects what the extrapolator fits across radii.
	Components extrap.Components
	// Workers bounds parallelism. Zero or less uses GOMAXPROCS.
	Workers int
	// TimeAlignment shifts finer levels onto coarser ones before comparing.
	TimeAlignment bool
	// FullSequence estimates the convergence order over all levels.
	FullSequence bool
	// Logger receives run progress. Nil discards.
	Logger *slog.Logger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Orders:        slices.Clone(DefaultOrders),
		Interpolation: interp.MethodLinear,
		Components:    extrap.ComponentsReIm,
	}
}

// WithOrders sets the extrapolation orders.
func WithOrders(orders ...int) Option {
	return func(cfg *Config) {
		if len(orders) > 0 {
			cfg.Orders = slices.Clone(orders)
		}
	}
}

// WithModes restricts processing to modes.
func WithModes(modes ...waveform.Mode) Option {
	return func(cfg *Config) {
		cfg.Modes = slices.Clone(modes)
	}
}

// WithRadii selects input radii by coordinate radius.
func WithRadii(radii ...float64) Option {
	return func(cfg *Config) {
		cfg.Radii = slices.Clone(radii)
	}
}

// WithLevels selects input levels.
func WithLevels(levels ...int) Option {
	return func(cfg *Config) {
		cfg.Levels = slices.Clone(levels)
	}
}

// WithInterpolation sets the resampling strategy.
func WithInterpolation(m interp.Method) Option {
	return func(cfg *Config) {
		cfg.Interpolation = m
	}
}

// WithComponents sets the fitted representation.
func WithComponents(c extrap.Components) Option {
	return func(cfg *Config) {
		cfg.Components = c
	}
}

// WithWorkers bounds parallelism.
func WithWorkers(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.Workers = n
		}
	}
}

// WithTimeAlignment toggles cross-correlation time alignment of levels.
func WithTimeAlignment(enabled bool) Option {
	return func(cfg *Config) {
		cfg.TimeAlignment = enabled
	}
}

// WithFullSequence toggles the order estimate over all levels.
func WithFullSequence(enabled bool) Option {
	return func(cfg *Config) {
		cfg.FullSequence = enabled
	}
}

// WithLogger sets the progress logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *Config) {
		cfg.Logger = logger
	}
}

// ApplyOptions applies zero or more options to DefaultConfig.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Validate checks the configuration for values no run can use.
func (c Config) Validate() error {
	if len(c.Orders) == 0 {
		return fmt.Errorf("%w: no orders", ErrInvalidConfig)
	}
	for _, n := range c.Orders {
		if n < 0 {
			return fmt.Errorf("%w: order %d: %w", ErrInvalidConfig, n, extrap.ErrInvalidOrder)
		}
	}
	for _, m := range c.Modes {
		if !m.Valid() {
			return fmt.Errorf("%w: mode %s", ErrInvalidConfig, m)
		}
	}
	for _, r := range c.Radii {
		if !(r > 0) {
			return fmt.Errorf("%w: radius %g", ErrInvalidConfig, r)
		}
	}
	switch c.Interpolation {
	case interp.MethodLinear, interp.MethodHermite:
	default:
		return fmt.Errorf("%w: interpolation %d", ErrInvalidConfig, c.Interpolation)
	}
	switch c.Components {
	case extrap.ComponentsReIm, extrap.ComponentsAmpPhase:
	default:
		return fmt.Errorf("%w: components %d", ErrInvalidConfig, c.Components)
	}
	return nil
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
