package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrNotObject is returned when the input is valid JSON but not an object
var ErrNotObject = errors.New("document is not a JSON object")

// Decode parses a document analysis result.
// A well-formed JSON value that is not an object yields a nil document and ErrNotObject.
func Decode(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	if trimmed[0] != '{' {
		if !json.Valid(trimmed) {
			return nil, fmt.Errorf("failed to decode document: invalid JSON")
		}
		return nil, ErrNotObject
	}

	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return &doc, nil
}

// DecodeReader reads at most maxSize bytes from r and decodes them.
// A maxSize of zero or less disables the limit.
func DecodeReader(r io.Reader, maxSize int64) (*Document, error) {
	if maxSize > 0 {
		r = io.LimitReader(r, maxSize+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, fmt.Errorf("document exceeds maximum size of %d bytes", maxSize)
	}

	return Decode(data)
}
