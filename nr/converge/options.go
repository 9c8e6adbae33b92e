package converge

import "github.com/cwbudde/algo-nrwave/waveform"

type config struct {
	interp    waveform.Interpolator
	align     bool
	alignMode waveform.Mode
	hasMode   bool
}

// Option configures a comparison.
type Option func(*config)

// WithInterpolator selects the resampling strategy. Nil keeps linear
// interpolation.
func WithInterpolator(ip waveform.Interpolator) Option {
	return func(cfg *config) {
		if ip != nil {
			cfg.interp = ip
		}
	}
}

// WithTimeAlignment enables shifting the second series onto the first
// before differencing.
func WithTimeAlignment(enabled bool) Option {
	return func(cfg *config) {
		cfg.align = enabled
	}
}

// WithAlignmentMode selects the mode whose amplitude drives time alignment.
// By default the (2,2) mode is used when present, else the strongest mode.
func WithAlignmentMode(m waveform.Mode) Option {
	return func(cfg *config) {
		cfg.alignMode = m
		cfg.hasMode = true
	}
}

func applyOptions(opts []Option) config {
	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
