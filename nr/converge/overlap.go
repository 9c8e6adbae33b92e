package converge

import (
	"fmt"

	"github.com/cwbudde/algo-nrwave/waveform"
)

// Overlap returns the common time window of the series. It fails with
// ErrEmptyOverlap when the window is empty or the series contribute fewer
// than two samples to it.
func Overlap(series ...*waveform.Series) (waveform.Window, error) {
	w, err := waveform.Intersect(series...)
	if err != nil {
		return w, fmt.Errorf("%w: %w", ErrEmptyOverlap, err)
	}
	count := 0
	for _, s := range series {
		count += s.CountIn(w)
	}
	if count < 2 {
		return w, fmt.Errorf("%w: %d samples in [%g, %g]", ErrEmptyOverlap, count, w.Start, w.End)
	}
	return w, nil
}
