package waveform

import (
	"fmt"
	"slices"
)

// Mode identifies a spin-weighted spherical-harmonic component (ℓ, m).
type Mode struct {
	L int
	M int
}

// String formats the mode as "(l,m)".
func (m Mode) String() string {
	return fmt.Sprintf("(%d,%d)", m.L, m.M)
}

// Valid reports whether |m| <= ℓ and ℓ >= 0.
func (m Mode) Valid() bool {
	return m.L >= 0 && m.M >= -m.L && m.M <= m.L
}

// Compare orders modes by ℓ, then m.
func (m Mode) Compare(o Mode) int {
	if m.L != o.L {
		return m.L - o.L
	}
	return m.M - o.M
}

// SortModes sorts modes in place by (ℓ, m).
func SortModes(modes []Mode) {
	slices.SortFunc(modes, Mode.Compare)
}

// AllModes returns every mode with 2 <= ℓ <= lMax in (ℓ, m) order.
func AllModes(lMax int) []Mode {
	var out []Mode
	for l := 2; l <= lMax; l++ {
		for m := -l; m <= l; m++ {
			out = append(out, Mode{L: l, M: m})
		}
	}
	return out
}

// diffModes returns the modes of ref missing from got, and the modes of got
// absent from ref. Both inputs must be sorted.
func diffModes(ref, got []Mode) (missing, extra []Mode) {
	i, j := 0, 0
	for i < len(ref) || j < len(got) {
		switch {
		case j >= len(got) || (i < len(ref) && ref[i].Compare(got[j]) < 0):
			missing = append(missing, ref[i])
			i++
		case i >= len(ref) || ref[i].Compare(got[j]) > 0:
			extra = append(extra, got[j])
			j++
		default:
			i++
			j++
		}
	}
	return missing, extra
}
