package entities

import "github.com/a3tai/mcp-kv-entities/internal/document"

// Extract builds one entry per key/value pair of doc, in document order.
// A nil document yields an empty mapping.
func Extract(doc *document.Document) *Entities {
	result := New()
	if doc == nil {
		return result
	}

	for i, pair := range doc.KeyValuePairs {
		result.Add(pair.Key.Content, i, pair.ValueText())
	}

	return result
}
