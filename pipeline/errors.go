package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cwbudde/algo-nrwave/waveform"
)

// ErrMissingInput indicates a configured radius or level without input.
var ErrMissingInput = errors.New("pipeline: missing input")

// Stages reported in RunError.
const (
	StageSelect   = "select"
	StageRetard   = "retard"
	StageGrid     = "grid"
	StageResample = "resample"
	StageFit      = "fit"
)

// RunError tags a driver failure with where it happened. Zero fields are
// unknown.
type RunError struct {
	Stage    string
	Radius   float64
	Mode     *waveform.Mode
	Order    int
	HasOrder bool
	Time     float64
	HasTime  bool
	Err      error
}

func (e *RunError) Error() string {
	var b strings.Builder
	b.WriteString("pipeline: ")
	b.WriteString(e.Stage)
	if e.Radius != 0 {
		fmt.Fprintf(&b, ": radius %g", e.Radius)
	}
	if e.Mode != nil {
		fmt.Fprintf(&b, ": mode %s", *e.Mode)
	}
	if e.HasOrder {
		fmt.Fprintf(&b, ": order %d", e.Order)
	}
	if e.HasTime {
		fmt.Fprintf(&b, ": t=%g", e.Time)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *RunError) Unwrap() error {
	return e.Err
}
