package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-nrwave/internal/store"
	"github.com/cwbudde/algo-nrwave/internal/wavefile"
	"github.com/cwbudde/algo-nrwave/pipeline"
)

type extrapolateOptions struct {
	inputs    []string
	orders    []int
	outputDir string
}

func newExtrapolateCommand(root *rootOptions) *cobra.Command {
	opts := &extrapolateOptions{}
	cmd := &cobra.Command{
		Use:   "extrapolate",
		Short: "Extrapolate finite-radius waveforms to infinite radius",
		Long: `Extrapolate reads one waveform per extraction radius, shifts each onto
retarded time, resamples all radii onto a common grid and fits a polynomial
in 1/r per sample, once per requested order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.settings.Pipeline
			if cmd.Flags().Changed("orders") {
				cfg.Orders = opts.orders
			}
			return runExtrapolate(cmd.Context(), root, opts, cfg)
		},
	}
	cmd.Flags().StringArrayVarP(&opts.inputs, "input", "i", nil, "waveform file (repeatable, one or more radius documents each)")
	cmd.Flags().IntSliceVar(&opts.orders, "orders", nil, "extrapolation orders (overrides config)")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "write one YAML file per order into this directory")
	return cmd
}

func runExtrapolate(ctx context.Context, root *rootOptions, opts *extrapolateOptions, cfg pipeline.Config) error {
	docs, err := readDocuments(opts.inputs)
	if err != nil {
		return err
	}
	inputs := make([]pipeline.RadiusInput, len(docs))
	for i, d := range docs {
		if inputs[i], err = d.RadiusInput(); err != nil {
			return &exitError{code: exitCommandError, msg: fmt.Sprintf("input document %d", i), err: err}
		}
	}

	driver, err := pipeline.NewExtrapolationDriver(cfg)
	if err != nil {
		return &exitError{code: exitCommandError, msg: "configuration", err: err}
	}
	res, err := driver.Run(ctx, inputs)
	if err != nil {
		return err
	}

	if opts.outputDir != "" {
		if err := os.MkdirAll(opts.outputDir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", opts.outputDir, err)
		}
		for _, n := range res.SortedOrders() {
			path := filepath.Join(opts.outputDir, fmt.Sprintf("rinf_N%d.yaml", n))
			if err := wavefile.WriteFile(path, wavefile.FromSeries(res.Orders[n])); err != nil {
				return err
			}
			root.logger.Info("wrote extrapolated series", "order", n, "path", path)
		}
	}

	runID, err := root.withStore(func(st *store.Store) (string, error) {
		return st.SaveExtrapolation(ctx, res)
	})
	if err != nil {
		return err
	}
	return renderExtrapolation(root.stdout, root.format, res, runID)
}
