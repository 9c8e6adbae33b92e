// Package wavefile reads and writes waveform series as YAML documents, one
// series per document.
package wavefile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"go.yaml.in/yaml/v3"

	"github.com/cwbudde/algo-nrwave/nr/retard"
	"github.com/cwbudde/algo-nrwave/pipeline"
	"github.com/cwbudde/algo-nrwave/waveform"
)

// Tag values.
const (
	TagRadius   = "radius"
	TagInfinity = "infinity"
	TagLevel    = "level"
)

var (
	// ErrUnknownTag indicates a tag other than radius, infinity or level.
	ErrUnknownTag = errors.New("wavefile: unknown tag")
	// ErrPartsMismatch indicates re and im arrays of different lengths.
	ErrPartsMismatch = errors.New("wavefile: re/im length mismatch")
	// ErrDuplicateMode indicates the same (l, m) listed twice.
	ErrDuplicateMode = errors.New("wavefile: duplicate mode")
	// ErrWrongKind indicates a document used for the wrong run, e.g. a
	// level document passed to extrapolation.
	ErrWrongKind = errors.New("wavefile: wrong document kind")
	// ErrNoDocuments indicates an input without any series.
	ErrNoDocuments = errors.New("wavefile: no documents")
	// ErrContextLength indicates per-sample areal radii or lapse arrays
	// that do not match the time axis.
	ErrContextLength = errors.New("wavefile: per-sample context length mismatch")
)

// Document is the on-disk layout of one series. ArealRadii and Lapse are
// optional per-sample data of the extraction sphere.
type Document struct {
	Tag         string     `yaml:"tag"`
	Radius      float64    `yaml:"radius,omitempty"`
	ArealRadius float64    `yaml:"areal_radius,omitempty"`
	Mass        float64    `yaml:"mass,omitempty"`
	Level       int        `yaml:"level,omitempty"`
	Spacing     float64    `yaml:"spacing,omitempty"`
	ArealRadii  []float64  `yaml:"areal_radii,omitempty"`
	Lapse       []float64  `yaml:"lapse,omitempty"`
	Times       []float64  `yaml:"times"`
	Modes       []ModeData `yaml:"modes"`
}

// ModeData holds the samples of one (l, m) mode.
type ModeData struct {
	L  int       `yaml:"l"`
	M  int       `yaml:"m"`
	Re []float64 `yaml:"re"`
	Im []float64 `yaml:"im"`
}

// Decode reads every document in r.
func Decode(r io.Reader) ([]Document, error) {
	dec := yaml.NewDecoder(r)
	var docs []Document
	for {
		var d Document
		err := dec.Decode(&d)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("wavefile: document %d: %w", len(docs), err)
		}
		docs = append(docs, d)
	}
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}
	return docs, nil
}

// Encode writes docs to w as a YAML stream.
func Encode(w io.Writer, docs ...Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for i, d := range docs {
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("wavefile: document %d: %w", i, err)
		}
	}
	return enc.Close()
}

// ReadFile decodes every document in path.
func ReadFile(path string) ([]Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wavefile: %w", err)
	}
	defer f.Close()

	docs, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return docs, nil
}

// WriteFile encodes docs into path, replacing it.
func WriteFile(path string, docs ...Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavefile: %w", err)
	}
	if err := Encode(f, docs...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// FromSeries converts s into a document.
func FromSeries(s *waveform.Series) Document {
	t := s.Tag()
	d := Document{Times: s.Times()}
	switch t.Kind {
	case waveform.KindRadius:
		d.Tag, d.Radius = TagRadius, t.Radius
	case waveform.KindInfinity:
		d.Tag = TagInfinity
	case waveform.KindLevel:
		d.Tag, d.Level = TagLevel, t.Level
	}
	for _, m := range s.Modes() {
		re, im, _ := s.Parts(m)
		d.Modes = append(d.Modes, ModeData{L: m.L, M: m.M, Re: re, Im: im})
	}
	return d
}

// Series validates d and builds a waveform series from it.
func (d Document) Series() (*waveform.Series, error) {
	tag, err := d.tag()
	if err != nil {
		return nil, err
	}
	data := make(map[waveform.Mode][]complex128, len(d.Modes))
	for _, md := range d.Modes {
		m := waveform.Mode{L: md.L, M: md.M}
		if _, dup := data[m]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateMode, m)
		}
		if len(md.Re) != len(md.Im) {
			return nil, fmt.Errorf("%w: mode %s has %d re and %d im", ErrPartsMismatch, m, len(md.Re), len(md.Im))
		}
		h := make([]complex128, len(md.Re))
		for i := range h {
			h[i] = complex(md.Re[i], md.Im[i])
		}
		data[m] = h
	}
	return waveform.New(d.Times, data, tag)
}

func (d Document) tag() (waveform.Tag, error) {
	switch d.Tag {
	case TagRadius:
		return waveform.RadiusTag(d.Radius), nil
	case TagInfinity:
		return waveform.InfinityTag(), nil
	case TagLevel:
		return waveform.LevelTag(d.Level), nil
	case "":
		switch {
		case d.Radius > 0:
			return waveform.RadiusTag(d.Radius), nil
		case d.Level != 0:
			return waveform.LevelTag(d.Level), nil
		}
		return waveform.Tag{}, nil
	default:
		return waveform.Tag{}, fmt.Errorf("%w: %q", ErrUnknownTag, d.Tag)
	}
}

// RadiusInput builds an extrapolation input from a radius document.
func (d Document) RadiusInput() (pipeline.RadiusInput, error) {
	s, err := d.Series()
	if err != nil {
		return pipeline.RadiusInput{}, err
	}
	if s.Tag().Kind != waveform.KindRadius {
		return pipeline.RadiusInput{}, fmt.Errorf("%w: %s, want radius", ErrWrongKind, s.Tag())
	}
	if err := d.checkContext(); err != nil {
		return pipeline.RadiusInput{}, err
	}
	return pipeline.RadiusInput{
		Series: s,
		Context: retard.RadiusContext{
			CoordRadius: d.Radius,
			ArealRadius: d.ArealRadius,
			Mass:        d.Mass,
			ArealRadii:  slices.Clone(d.ArealRadii),
			Lapse:       slices.Clone(d.Lapse),
		},
	}, nil
}

func (d Document) checkContext() error {
	if n := len(d.ArealRadii); n > 0 && n != len(d.Times) {
		return fmt.Errorf("%w: %d areal_radii for %d times", ErrContextLength, n, len(d.Times))
	}
	if n := len(d.Lapse); n > 0 && n != len(d.Times) {
		return fmt.Errorf("%w: %d lapse for %d times", ErrContextLength, n, len(d.Times))
	}
	return nil
}

// LevelInput builds a convergence input from a level document.
func (d Document) LevelInput() (pipeline.LevelInput, error) {
	s, err := d.Series()
	if err != nil {
		return pipeline.LevelInput{}, err
	}
	if s.Tag().Kind != waveform.KindLevel {
		return pipeline.LevelInput{}, fmt.Errorf("%w: %s, want level", ErrWrongKind, s.Tag())
	}
	return pipeline.LevelInput{Series: s, Level: d.Level, Spacing: d.Spacing}, nil
}
