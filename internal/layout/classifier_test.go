package layout

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-kv-entities/internal/document"
	"github.com/a3tai/mcp-kv-entities/internal/entities"
)

func ptr[T any](v T) *T { return &v }

// boxPair builds a pair whose key box has the given upper-left and lower-left x
func boxPair(key string, value *string, ux, lx float64) document.Pair {
	p := document.Pair{
		Key: document.Region{
			Content: key,
			BoundingRegions: []document.BoundingRegion{{
				PageNumber:  1,
				BoundingBox: []float64{ux, 10, ux + 50, 10, lx + 50, 30, lx, 30},
			}},
		},
	}
	if value != nil {
		p.Value = &document.Region{Content: *value}
	}
	return p
}

func page(width float64, pairs ...document.Pair) *document.Document {
	return &document.Document{
		KeyValuePairs: pairs,
		OCRResults: &document.OCRResults{
			ReadResults: []document.ReadResult{{Page: 1, Width: ptr(width)}},
		},
	}
}

func TestPivot(t *testing.T) {
	pivot, err := Pivot(page(1000))
	require.NoError(t, err)
	assert.Equal(t, 500.0, pivot)

	pivot, err = Pivot(page(851))
	require.NoError(t, err)
	assert.Equal(t, 425.5, pivot)
}

func TestPivot_MissingGeometry(t *testing.T) {
	tests := []struct {
		name string
		doc  *document.Document
	}{
		{name: "nil document", doc: nil},
		{name: "no ocrResults", doc: &document.Document{}},
		{name: "no readResults", doc: &document.Document{OCRResults: &document.OCRResults{}}},
		{
			name: "no width",
			doc: &document.Document{OCRResults: &document.OCRResults{
				ReadResults: []document.ReadResult{{Page: 1}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Pivot(tt.doc)
			assert.ErrorIs(t, err, ErrMissingPageGeometry)
		})
	}
}

func TestPivot_InvalidWidth(t *testing.T) {
	_, err := Pivot(page(0))
	assert.ErrorIs(t, err, ErrInvalidPageWidth)

	_, err = Pivot(page(-10))
	assert.ErrorIs(t, err, ErrInvalidPageWidth)
}

func TestIsLeft_Boundary(t *testing.T) {
	const pivot = 500.0
	tests := []struct {
		name   string
		ux, lx float64
		want   bool
	}{
		{name: "both corners left", ux: pivot - 1, lx: pivot - 1, want: true},
		{name: "lower corner right", ux: pivot - 1, lx: pivot + 1, want: false},
		{name: "upper corner right", ux: pivot + 1, lx: pivot - 1, want: false},
		{name: "both on pivot", ux: pivot, lx: pivot, want: false},
		{name: "upper on pivot", ux: pivot, lx: 0, want: false},
		{name: "both right", ux: 600, lx: 600, want: false},
		{name: "origin", ux: 0, lx: 0, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box := []float64{tt.ux, 0, 0, 0, 0, 0, tt.lx, 0}
			assert.Equal(t, tt.want, IsLeft(box, pivot))
		})
	}
}

func TestLeftHalf_NilDocument(t *testing.T) {
	result, err := LeftHalf(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Len())
}

func TestLeftHalf_MissingGeometryPropagates(t *testing.T) {
	doc := &document.Document{KeyValuePairs: []document.Pair{boxPair("A", ptr("1"), 10, 10)}}

	result, err := LeftHalf(doc)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrMissingPageGeometry)
}

func TestLeftHalf_Scenario(t *testing.T) {
	doc := page(1000,
		boxPair("Pair A", ptr("alpha"), 100, 100),
		boxPair("Pair B", ptr("beta"), 600, 600),
	)

	assert.Equal(t, 2, entities.Extract(doc).Len())

	left, err := LeftHalf(doc)
	require.NoError(t, err)
	require.Equal(t, 1, left.Len())

	entry := left.All()[0]
	assert.Equal(t, "Pair A", entry.Key.Name())
	assert.Equal(t, "alpha", *entry.Value)
	assert.Equal(t, 0, entry.Key.Ordinal())
}

func TestLeftHalf_MixedCornersExcluded(t *testing.T) {
	doc := page(1000,
		boxPair("inside", ptr("in"), 499, 499),
		boxPair("straddle", ptr("out"), 499, 501),
	)

	left, err := LeftHalf(doc)
	require.NoError(t, err)
	require.Equal(t, 1, left.Len())
	assert.Equal(t, "inside", left.All()[0].Key.Name())
}

func TestLeftHalf_AbsentValueAndDuplicates(t *testing.T) {
	doc := page(1000,
		boxPair("Name:", ptr("Jane"), 50, 50),
		boxPair("Name:", nil, 60, 60),
		boxPair("Name:", ptr(""), 700, 700),
	)

	left, err := LeftHalf(doc)
	require.NoError(t, err)
	all := left.All()
	require.Len(t, all, 2)
	assert.Equal(t, "Jane", *all[0].Value)
	assert.Nil(t, all[1].Value)
	assert.NotSame(t, all[0].Key, all[1].Key)
}

func TestLeftHalf_InvalidBoundingBox(t *testing.T) {
	noRegions := document.Pair{Key: document.Region{Content: "bare"}}
	shortBox := document.Pair{Key: document.Region{
		Content:         "short",
		BoundingRegions: []document.BoundingRegion{{BoundingBox: []float64{1, 2, 3}}},
	}}

	for _, p := range []document.Pair{noRegions, shortBox} {
		t.Run(p.Key.Content, func(t *testing.T) {
			_, err := LeftHalf(page(1000, boxPair("ok", nil, 1, 1), p))
			assert.ErrorIs(t, err, ErrInvalidBoundingBox)
			assert.ErrorContains(t, err, "pair 1")
		})
	}
}

// every left-half entry has a matching extracted entry with equal text and value
func TestLeftHalf_SubsetOfExtract(t *testing.T) {
	data, err := os.ReadFile("../document/testdata/form.json")
	require.NoError(t, err)
	doc, err := document.Decode(data)
	require.NoError(t, err)

	all := entities.Extract(doc).All()
	left, err := LeftHalf(doc)
	require.NoError(t, err)

	assert.Equal(t, 5, len(all))
	assert.Equal(t, 2, left.Len())

	for _, entry := range left.All() {
		match := all[entry.Key.Ordinal()]
		assert.Equal(t, match.Key.Name(), entry.Key.Name())
		assert.Equal(t, match.Value, entry.Value)
	}

	names := []string{}
	for _, entry := range left.All() {
		names = append(names, entry.Key.Name())
	}
	assert.Equal(t, []string{"Name:", "Signature"}, names)
}
