package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-nrwave/internal/store"
	"github.com/cwbudde/algo-nrwave/pipeline"
)

type convergeOptions struct {
	inputs       []string
	fullSequence bool
	align        bool
}

func newConvergeCommand(root *rootOptions) *cobra.Command {
	opts := &convergeOptions{}
	cmd := &cobra.Command{
		Use:   "converge",
		Short: "Compare waveforms across resolution levels",
		Long: `Converge reads one waveform per resolution level and compares every pair
of levels over their common time window. With --full-sequence and at least
three levels it also estimates the order of convergence.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.settings.Pipeline
			if cmd.Flags().Changed("full-sequence") {
				cfg.FullSequence = opts.fullSequence
			}
			if cmd.Flags().Changed("align") {
				cfg.TimeAlignment = opts.align
			}
			return runConverge(cmd.Context(), root, opts, cfg)
		},
	}
	cmd.Flags().StringArrayVarP(&opts.inputs, "input", "i", nil, "waveform file (repeatable, one or more level documents each)")
	cmd.Flags().BoolVar(&opts.fullSequence, "full-sequence", false, "estimate the convergence order over all levels")
	cmd.Flags().BoolVar(&opts.align, "align", false, "align levels in time by cross-correlation before comparing")
	return cmd
}

func runConverge(ctx context.Context, root *rootOptions, opts *convergeOptions, cfg pipeline.Config) error {
	docs, err := readDocuments(opts.inputs)
	if err != nil {
		return err
	}
	inputs := make([]pipeline.LevelInput, len(docs))
	for i, d := range docs {
		if inputs[i], err = d.LevelInput(); err != nil {
			return &exitError{code: exitCommandError, msg: fmt.Sprintf("input document %d", i), err: err}
		}
	}

	driver, err := pipeline.NewConvergenceDriver(cfg)
	if err != nil {
		return &exitError{code: exitCommandError, msg: "configuration", err: err}
	}
	res, err := driver.Run(ctx, inputs)
	if err != nil {
		return err
	}

	runID, err := root.withStore(func(st *store.Store) (string, error) {
		return st.SaveConvergence(ctx, res)
	})
	if err != nil {
		return err
	}
	if err := renderConvergence(root.stdout, root.format, res, runID); err != nil {
		return err
	}
	if failed := len(res.Failed()); failed > 0 {
		return &exitError{code: exitFailure, msg: fmt.Sprintf("%d of %d pairs failed", failed, len(res.Pairs))}
	}
	return nil
}
