package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-nrwave/internal/config"
	"github.com/cwbudde/algo-nrwave/internal/store"
	"github.com/cwbudde/algo-nrwave/internal/wavefile"
)

// Exit codes.
const (
	exitFailure      = 1
	exitCommandError = 2
)

var validFormats = []string{"text", "json"}

// exitError carries a process exit code.
type exitError struct {
	code int
	msg  string
	err  error
}

func (e *exitError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *exitError) Unwrap() error {
	return e.err
}

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitFailure
}

// rootOptions holds global flags and what PersistentPreRunE derives from
// them.
type rootOptions struct {
	verbose    bool
	format     string
	configFile string
	storePath  string

	stdout   io.Writer
	stderr   io.Writer
	settings config.Settings
	logger   *slog.Logger
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{stdout: stdout, stderr: stderr}

	cmd := &cobra.Command{
		Use:           "nrwave",
		Short:         "Extrapolation and convergence analysis for NR waveforms",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(validFormats, opts.format) {
				return &exitError{code: exitCommandError,
					msg: fmt.Sprintf("invalid format %q: must be one of %v", opts.format, validFormats)}
			}

			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			opts.logger = slog.New(slog.NewTextHandler(opts.stderr, &slog.HandlerOptions{Level: level}))

			s, err := config.Load(config.New(), opts.configFile)
			if err != nil {
				return &exitError{code: exitCommandError, msg: "loading config", err: err}
			}
			if opts.storePath != "" {
				s.StorePath = opts.storePath
			}
			s.Pipeline.Logger = opts.logger
			opts.settings = s
			if s.Source != "" {
				opts.logger.Debug("using config file", "path", s.Source)
			}
			return nil
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging on stderr")
	cmd.PersistentFlags().StringVar(&opts.format, "format", "text", "output format (text|json)")
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "",
		"config file (default: ./nrwave.yaml or ~/.config/nrwave/nrwave.yaml)")
	cmd.PersistentFlags().StringVar(&opts.storePath, "store", "", "SQLite database receiving results")

	cmd.AddCommand(newExtrapolateCommand(opts))
	cmd.AddCommand(newConvergeCommand(opts))
	cmd.AddCommand(newVersionCommand(opts))
	return cmd
}

func readDocuments(paths []string) ([]wavefile.Document, error) {
	if len(paths) == 0 {
		return nil, &exitError{code: exitCommandError, msg: "no --input given"}
	}
	var docs []wavefile.Document
	for _, p := range paths {
		d, err := wavefile.ReadFile(p)
		if err != nil {
			return nil, &exitError{code: exitCommandError, msg: "reading input", err: err}
		}
		docs = append(docs, d...)
	}
	return docs, nil
}

// withStore opens the configured store, if any, and passes it to fn.
func (o *rootOptions) withStore(fn func(*store.Store) (string, error)) (string, error) {
	if o.settings.StorePath == "" {
		return "", nil
	}
	st, err := store.Open(o.settings.StorePath)
	if err != nil {
		return "", err
	}
	defer st.Close()
	id, err := fn(st)
	if err != nil {
		return "", err
	}
	o.logger.Info("results stored", "path", o.settings.StorePath, "run", id)
	return id, nil
}
