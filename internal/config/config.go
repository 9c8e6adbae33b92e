// Package config loads run settings from a YAML file and NRWAVE_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/cwbudde/algo-nrwave/dsp/interp"
	"github.com/cwbudde/algo-nrwave/nr/extrap"
	"github.com/cwbudde/algo-nrwave/pipeline"
	"github.com/cwbudde/algo-nrwave/waveform"
)

// EnvPrefix prefixes every environment override, e.g. NRWAVE_WORKERS.
const EnvPrefix = "NRWAVE"

// ErrInvalid indicates a value that cannot be mapped onto the pipeline
// configuration.
var ErrInvalid = errors.New("config: invalid value")

// File mirrors the on-disk layout.
type File struct {
	Orders        []int     `mapstructure:"orders"`
	Modes         [][]int   `mapstructure:"modes"`
	Radii         []float64 `mapstructure:"radii"`
	Levels        []int     `mapstructure:"levels"`
	Interpolation string    `mapstructure:"interpolation"`
	Components    string    `mapstructure:"components"`
	Workers       int       `mapstructure:"workers"`
	TimeAlignment bool      `mapstructure:"time_alignment"`
	FullSequence  bool      `mapstructure:"full_sequence"`
	Store         Store     `mapstructure:"store"`
}

// Store configures the optional result database.
type Store struct {
	Path string `mapstructure:"path"`
}

// Settings is a loaded configuration.
type Settings struct {
	Pipeline  pipeline.Config
	StorePath string
	// Source is the config file used, empty when none was found.
	Source string
}

// New returns a viper instance with defaults and environment binding set
// up for nrwave.
func New() *viper.Viper {
	v := viper.New()
	def := pipeline.DefaultConfig()
	v.SetDefault("orders", def.Orders)
	v.SetDefault("modes", [][]int{})
	v.SetDefault("radii", []float64{})
	v.SetDefault("levels", []int{})
	v.SetDefault("interpolation", def.Interpolation.String())
	v.SetDefault("components", def.Components.String())
	v.SetDefault("workers", 0)
	v.SetDefault("time_alignment", false)
	v.SetDefault("full_sequence", false)
	v.SetDefault("store.path", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path, or when empty searches ./nrwave.yaml and
// ~/.config/nrwave/nrwave.yaml. A missing search-path file is not an error.
func Load(v *viper.Viper, path string) (Settings, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("nrwave")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "nrwave"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("config: read: %w", err)
		}
	}

	var f File
	if err := v.Unmarshal(&f); err != nil {
		return Settings{}, fmt.Errorf("config: decode: %w", err)
	}
	cfg, err := f.Pipeline()
	if err != nil {
		return Settings{}, err
	}
	return Settings{Pipeline: cfg, StorePath: f.Store.Path, Source: v.ConfigFileUsed()}, nil
}

// Pipeline converts the file layout into a validated pipeline.Config.
func (f File) Pipeline() (pipeline.Config, error) {
	method, err := interp.ParseMethod(f.Interpolation)
	if err != nil {
		return pipeline.Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	comp, err := extrap.ParseComponents(f.Components)
	if err != nil {
		return pipeline.Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	modes := make([]waveform.Mode, 0, len(f.Modes))
	for _, lm := range f.Modes {
		if len(lm) != 2 {
			return pipeline.Config{}, fmt.Errorf("%w: mode %v is not [l, m]", ErrInvalid, lm)
		}
		modes = append(modes, waveform.Mode{L: lm[0], M: lm[1]})
	}

	cfg := pipeline.ApplyOptions(
		pipeline.WithOrders(f.Orders...),
		pipeline.WithModes(modes...),
		pipeline.WithRadii(f.Radii...),
		pipeline.WithLevels(f.Levels...),
		pipeline.WithInterpolation(method),
		pipeline.WithComponents(comp),
		pipeline.WithWorkers(f.Workers),
		pipeline.WithTimeAlignment(f.TimeAlignment),
		pipeline.WithFullSequence(f.FullSequence),
	)
	if err := cfg.Validate(); err != nil {
		return pipeline.Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return cfg, nil
}
