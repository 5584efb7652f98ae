package analysis

import (
	"github.com/a3tai/mcp-kv-entities/internal/entities"
)

// Source names where a document comes from. Exactly one of URL or Path is set.
type Source struct {
	URL  string `json:"url,omitempty"`
	Path string `json:"path,omitempty"`
}

// String describes the source for messages
func (s Source) String() string {
	if s.URL != "" {
		return s.URL
	}
	return s.Path
}

// ExtractRequest asks for every entity of a document
type ExtractRequest struct {
	Source Source `json:"source"`
}

// ExtractResult holds all entities of a document.
// Degraded is set when the source was not a JSON object; Entities is then empty.
type ExtractResult struct {
	Source    string             `json:"source"`
	PairCount int                `json:"pair_count"`
	Degraded  bool               `json:"degraded,omitempty"`
	Entities  *entities.Entities `json:"entities"`
}

// LeftHalfRequest asks for the entities on the left half of the page
type LeftHalfRequest struct {
	Source Source `json:"source"`
}

// LeftHalfResult holds the left-half entities together with the page geometry used
type LeftHalfResult struct {
	Source    string             `json:"source"`
	PairCount int                `json:"pair_count"`
	PageWidth float64            `json:"page_width"`
	Pivot     float64            `json:"pivot"`
	Degraded  bool               `json:"degraded,omitempty"`
	Entities  *entities.Entities `json:"entities"`
}
