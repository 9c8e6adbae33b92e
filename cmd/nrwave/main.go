// Command nrwave extrapolates numerical-relativity waveforms to infinite
// extraction radius and analyzes their convergence across resolutions.
//
// Usage:
//
//	nrwave extrapolate --input r100.yaml --input r150.yaml --input r200.yaml
//	nrwave converge --input lev1.yaml --input lev2.yaml --input lev3.yaml --full-sequence
//	nrwave version
//
// Inputs are YAML waveform documents. Settings come from --config,
// ./nrwave.yaml or ~/.config/nrwave/nrwave.yaml, overridden by NRWAVE_*
// environment variables and flags.
package main

import (
	"fmt"
	"os"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	cmd := newRootCommand(os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCode(err))
	}
}
