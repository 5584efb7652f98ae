package document

// Document is the decoded document analysis result
type Document struct {
	KeyValuePairs []Pair      `json:"keyValuePairs"`
	OCRResults    *OCRResults `json:"ocrResults,omitempty"`
}

// OCRResults holds the per-page layout metadata of the analysis
type OCRResults struct {
	ReadResults []ReadResult `json:"readResults"`
}

// ReadResult describes the geometry of a single analysed page
type ReadResult struct {
	Page   int      `json:"page,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
	Unit   string   `json:"unit,omitempty"`
}

// Pair is one key/value region record from keyValuePairs.
// Value is nil when the analysis found no value for the key.
type Pair struct {
	Key        Region  `json:"key"`
	Value      *Region `json:"value,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Region is a detected text region with its location on the page
type Region struct {
	Content         string           `json:"content"`
	BoundingRegions []BoundingRegion `json:"boundingRegions,omitempty"`
}

// BoundingRegion locates a region on a page.
// BoundingBox holds four corners as x,y pairs: upper-left, upper-right,
// lower-right, lower-left.
type BoundingRegion struct {
	PageNumber  int       `json:"pageNumber,omitempty"`
	BoundingBox []float64 `json:"boundingBox"`
}

// BoundingBoxLen is the number of coordinates in a four-corner bounding box
const BoundingBoxLen = 8

// Corner indexes into a bounding box
const (
	UpperLeftX  = 0
	UpperLeftY  = 1
	UpperRightX = 2
	UpperRightY = 3
	LowerRightX = 4
	LowerRightY = 5
	LowerLeftX  = 6
	LowerLeftY  = 7
)

// ValueText returns the value content, or nil when the pair has no value
func (p Pair) ValueText() *string {
	if p.Value == nil {
		return nil
	}
	v := p.Value.Content
	return &v
}

// HasValue reports whether the pair carries a value region
func (p Pair) HasValue() bool {
	return p.Value != nil
}

// PageWidth returns the width of the first analysed page.
// ok is false when the layout metadata is missing.
func (d *Document) PageWidth() (width float64, ok bool) {
	if d == nil || d.OCRResults == nil || len(d.OCRResults.ReadResults) == 0 {
		return 0, false
	}
	w := d.OCRResults.ReadResults[0].Width
	if w == nil {
		return 0, false
	}
	return *w, true
}

// Len returns the number of key/value pairs in the document
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.KeyValuePairs)
}
