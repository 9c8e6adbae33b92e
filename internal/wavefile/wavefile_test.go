package wavefile

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/algo-nrwave/nr/retard"
	"github.com/cwbudde/algo-nrwave/waveform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const radiusDocs = `tag: radius
radius: 100
areal_radius: 101
mass: 1
times: [0, 1, 2]
modes:
  - {l: 2, m: 2, re: [1, 2, 3], im: [0, -1, -2]}
  - {l: 2, m: -2, re: [1, 2, 3], im: [0, 1, 2]}
---
tag: radius
radius: 200
mass: 1
times: [0, 1, 2]
modes:
  - {l: 2, m: 2, re: [1, 1, 1], im: [0, 0, 0]}
  - {l: 2, m: -2, re: [1, 1, 1], im: [0, 0, 0]}
`

func TestDecodeRadiusDocuments(t *testing.T) {
	docs, err := Decode(strings.NewReader(radiusDocs))
	require.NoError(t, err)
	require.Len(t, docs, 2)

	in, err := docs[0].RadiusInput()
	require.NoError(t, err)
	assert.Equal(t, 100.0, in.Context.CoordRadius)
	assert.Equal(t, 101.0, in.Context.ArealRadius)
	assert.Equal(t, 1.0, in.Context.Mass)
	assert.Equal(t, []waveform.Mode{{L: 2, M: -2}, {L: 2, M: 2}}, in.Series.Modes())
	assert.Equal(t, complex(2, -1), in.Series.At(waveform.Mode{L: 2, M: 2}, 1))

	_, err = docs[0].LevelInput()
	require.ErrorIs(t, err, ErrWrongKind)
}

func TestRoundTripThroughFile(t *testing.T) {
	times := []float64{0, 0.5, 1}
	s, err := waveform.New(times, map[waveform.Mode][]complex128{
		{L: 2, M: 2}: {1 + 1i, 2, 3 - 1i},
	}, waveform.LevelTag(3))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "lev3.yaml")
	doc := FromSeries(s)
	doc.Spacing = 0.5
	require.NoError(t, WriteFile(path, doc))

	docs, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	in, err := docs[0].LevelInput()
	require.NoError(t, err)
	assert.Equal(t, 3, in.Level)
	assert.Equal(t, 0.5, in.Spacing)
	assert.Equal(t, times, in.Series.Times())
	got, _ := in.Series.Samples(waveform.Mode{L: 2, M: 2})
	assert.Equal(t, []complex128{1 + 1i, 2, 3 - 1i}, got)
}

func TestEncodeInfinity(t *testing.T) {
	s, err := waveform.New([]float64{0, 1}, map[waveform.Mode][]complex128{
		{L: 2, M: 2}: {1, 1},
	}, waveform.InfinityTag())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FromSeries(s)))
	assert.Contains(t, buf.String(), "tag: infinity")
	assert.NotContains(t, buf.String(), "radius:")
}

func TestDocumentErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		want error
	}{
		{"unknown tag", Document{Tag: "boundary", Times: []float64{0, 1}}, ErrUnknownTag},
		{"parts", Document{Tag: TagLevel, Level: 1, Times: []float64{0, 1},
			Modes: []ModeData{{L: 2, M: 2, Re: []float64{1, 2}, Im: []float64{1}}}}, ErrPartsMismatch},
		{"duplicate", Document{Tag: TagLevel, Level: 1, Times: []float64{0},
			Modes: []ModeData{{L: 2, M: 2, Re: []float64{1}, Im: []float64{0}}, {L: 2, M: 2, Re: []float64{1}, Im: []float64{0}}}}, ErrDuplicateMode},
		{"length", Document{Tag: TagLevel, Level: 1, Times: []float64{0, 1},
			Modes: []ModeData{{L: 2, M: 2, Re: []float64{1}, Im: []float64{0}}}}, waveform.ErrLengthMismatch},
		{"no modes", Document{Tag: TagLevel, Level: 1, Times: []float64{0, 1}}, waveform.ErrNoModes},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.doc.Series()
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeEmpty(t *testing.T) {
	_, err := Decode(strings.NewReader(""))
	require.ErrorIs(t, err, ErrNoDocuments)
}

func TestUntaggedDocumentInfersKind(t *testing.T) {
	d := Document{Level: 2, Times: []float64{0, 1},
		Modes: []ModeData{{L: 2, M: 2, Re: []float64{1, 1}, Im: []float64{0, 0}}}}
	s, err := d.Series()
	require.NoError(t, err)
	assert.Equal(t, waveform.LevelTag(2), s.Tag())
}

const lapseDoc = `tag: radius
radius: 50
mass: 1
areal_radii: [50, 50, 50]
lapse: [1, 0.5, 0.5]
times: [0, 1, 2]
modes:
  - {l: 2, m: 2, re: [1, 1, 1], im: [0, 0, 0]}
`

func TestRadiusInputCarriesPerSampleContext(t *testing.T) {
	docs, err := Decode(strings.NewReader(lapseDoc))
	require.NoError(t, err)
	require.Len(t, docs, 1)

	in, err := docs[0].RadiusInput()
	require.NoError(t, err)
	assert.Equal(t, []float64{50, 50, 50}, in.Context.ArealRadii)
	assert.Equal(t, []float64{1, 0.5, 0.5}, in.Context.Lapse)

	aligned, err := retard.Align(in.Series, in.Context)
	require.NoError(t, err)
	rs, err := retard.TortoiseCoordinate(50, 1)
	require.NoError(t, err)
	want := []float64{0 - rs, 0.75 - rs, 1.25 - rs}
	for i, tr := range aligned.Times() {
		assert.InDelta(t, want[i], tr, 1e-12)
	}
}

func TestRadiusInputContextLength(t *testing.T) {
	docs, err := Decode(strings.NewReader(lapseDoc))
	require.NoError(t, err)

	short := docs[0]
	short.Lapse = []float64{1, 1}
	_, err = short.RadiusInput()
	require.ErrorIs(t, err, ErrContextLength)

	short = docs[0]
	short.ArealRadii = []float64{50}
	_, err = short.RadiusInput()
	require.ErrorIs(t, err, ErrContextLength)
}
