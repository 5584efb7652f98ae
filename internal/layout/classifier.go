package layout

import (
	"errors"
	"fmt"

	"github.com/a3tai/mcp-kv-entities/internal/document"
	"github.com/a3tai/mcp-kv-entities/internal/entities"
)

var (
	// ErrMissingPageGeometry is returned when ocrResults.readResults[0].width is absent
	ErrMissingPageGeometry = errors.New("missing page geometry: ocrResults.readResults[0].width")
	// ErrInvalidPageWidth is returned when the page width is not positive
	ErrInvalidPageWidth = errors.New("page width must be positive")
	// ErrInvalidBoundingBox is returned when a key has no usable four-corner bounding box
	ErrInvalidBoundingBox = errors.New("invalid key bounding box")
)

// Pivot returns the horizontal midpoint of the first page
func Pivot(doc *document.Document) (float64, error) {
	width, ok := doc.PageWidth()
	if !ok {
		return 0, ErrMissingPageGeometry
	}
	if width <= 0 {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidPageWidth, width)
	}
	return width / 2.0, nil
}

// IsLeft reports whether box lies left of pivot.
// Both left-edge corners must clear the pivot, so a skewed box with one
// corner past the midline is not left.
func IsLeft(box []float64, pivot float64) bool {
	return box[document.UpperLeftX] < pivot && box[document.LowerLeftX] < pivot
}

// LeftHalf returns the pairs of doc whose key box lies in the left half of the page.
// A nil document yields an empty mapping; missing page geometry is an error.
func LeftHalf(doc *document.Document) (*entities.Entities, error) {
	result := entities.New()
	if doc == nil {
		return result, nil
	}

	pivot, err := Pivot(doc)
	if err != nil {
		return nil, err
	}

	for i, pair := range doc.KeyValuePairs {
		box, err := keyBox(pair)
		if err != nil {
			return nil, fmt.Errorf("pair %d (%q): %w", i, pair.Key.Content, err)
		}
		if IsLeft(box, pivot) {
			result.Add(pair.Key.Content, i, pair.ValueText())
		}
	}

	return result, nil
}

func keyBox(pair document.Pair) ([]float64, error) {
	if len(pair.Key.BoundingRegions) == 0 {
		return nil, fmt.Errorf("%w: no bounding regions", ErrInvalidBoundingBox)
	}
	box := pair.Key.BoundingRegions[0].BoundingBox
	if len(box) != document.BoundingBoxLen {
		return nil, fmt.Errorf("%w: expected %d coordinates, got %d",
			ErrInvalidBoundingBox, document.BoundingBoxLen, len(box))
	}
	return box, nil
}
