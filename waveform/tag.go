package waveform

import (
	"fmt"
	"math"
)

// Kind identifies what a [Tag] describes.
type Kind int

const (
	// KindUnknown marks series without provenance metadata.
	KindUnknown Kind = iota
	// KindRadius marks data recorded at a finite extraction radius.
	KindRadius
	// KindInfinity marks data extrapolated to future null infinity.
	KindInfinity
	// KindLevel marks data from one resolution level.
	KindLevel
)

// Tag records where a series came from. It never enters arithmetic.
type Tag struct {
	Kind   Kind
	Radius float64
	Level  int
}

// RadiusTag tags data extracted at coordinate radius r.
func RadiusTag(r float64) Tag {
	return Tag{Kind: KindRadius, Radius: r}
}

// InfinityTag tags extrapolated data.
func InfinityTag() Tag {
	return Tag{Kind: KindInfinity, Radius: math.Inf(1)}
}

// LevelTag tags data from resolution level lev.
func LevelTag(lev int) Tag {
	return Tag{Kind: KindLevel, Level: lev}
}

func (t Tag) String() string {
	switch t.Kind {
	case KindRadius:
		return fmt.Sprintf("R%g", t.Radius)
	case KindInfinity:
		return "Rinf"
	case KindLevel:
		return fmt.Sprintf("Lev%d", t.Level)
	default:
		return "unknown"
	}
}
