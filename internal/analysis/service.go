package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/a3tai/mcp-kv-entities/internal/document"
	"github.com/a3tai/mcp-kv-entities/internal/entities"
	"github.com/a3tai/mcp-kv-entities/internal/fetch"
	"github.com/a3tai/mcp-kv-entities/internal/layout"
	"github.com/a3tai/mcp-kv-entities/internal/security"
)

// Service loads documents and runs entity extraction and spatial classification on them
type Service struct {
	client          *fetch.Client
	pathValidator   *security.PathValidator
	maxDocumentSize int64
	logger          zerolog.Logger
}

// NewService creates a service. Local paths are confined by validator.
func NewService(client *fetch.Client, validator *security.PathValidator, maxDocumentSize int64,
	logger zerolog.Logger,
) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("fetch client cannot be nil")
	}
	if validator == nil {
		return nil, fmt.Errorf("path validator cannot be nil")
	}

	return &Service{
		client:          client,
		pathValidator:   validator,
		maxDocumentSize: maxDocumentSize,
		logger:          logger,
	}, nil
}

// DocumentDirectory returns the directory local documents are read from
func (s *Service) DocumentDirectory() string {
	return s.pathValidator.DocumentDirectory()
}

// MaxDocumentSize returns the document size limit in bytes
func (s *Service) MaxDocumentSize() int64 {
	return s.maxDocumentSize
}

// LoadDocument fetches or reads the document named by src.
// A source that is valid JSON but not an object returns a nil document and
// document.ErrNotObject.
func (s *Service) LoadDocument(ctx context.Context, src Source) (*document.Document, error) {
	switch {
	case src.URL != "" && src.Path != "":
		return nil, fmt.Errorf("specify either url or path, not both")
	case src.URL != "":
		s.logger.Debug().Str("url", src.URL).Msg("fetching document")
		doc, err := s.client.Fetch(ctx, src.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", src.URL, err)
		}
		return doc, nil
	case src.Path != "":
		s.logger.Debug().Str("path", src.Path).Msg("reading document")
		data, err := s.pathValidator.ReadDocumentFile(src.Path, s.maxDocumentSize)
		if err != nil {
			return nil, err
		}
		doc, err := document.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", src.Path, err)
		}
		return doc, nil
	default:
		return nil, fmt.Errorf("a document url or path is required")
	}
}

// load returns the document, turning a non-object source into a nil document
// with degraded set. Every other error is returned.
func (s *Service) load(ctx context.Context, src Source) (doc *document.Document, degraded bool, err error) {
	doc, err = s.LoadDocument(ctx, src)
	if errors.Is(err, document.ErrNotObject) {
		s.logger.Warn().Str("source", src.String()).Msg("source is not a JSON object, returning no entities")
		return nil, true, nil
	}
	return doc, false, err
}

// ExtractEntities returns every key-value entity of the requested document
func (s *Service) ExtractEntities(ctx context.Context, req ExtractRequest) (*ExtractResult, error) {
	doc, degraded, err := s.load(ctx, req.Source)
	if err != nil {
		return nil, err
	}

	result := entities.Extract(doc)
	s.logger.Info().
		Str("source", req.Source.String()).
		Int("pairs", doc.Len()).
		Int("entities", result.Len()).
		Msg("extracted entities")

	return &ExtractResult{
		Source:    req.Source.String(),
		PairCount: doc.Len(),
		Degraded:  degraded,
		Entities:  result,
	}, nil
}

// LeftHalfEntities returns the entities whose key lies in the left half of the page
func (s *Service) LeftHalfEntities(ctx context.Context, req LeftHalfRequest) (*LeftHalfResult, error) {
	doc, degraded, err := s.load(ctx, req.Source)
	if err != nil {
		return nil, err
	}

	left, err := layout.LeftHalf(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to classify %s: %w", req.Source.String(), err)
	}

	result := &LeftHalfResult{
		Source:    req.Source.String(),
		PairCount: doc.Len(),
		Degraded:  degraded,
		Entities:  left,
	}
	if width, ok := doc.PageWidth(); ok {
		result.PageWidth = width
		result.Pivot = width / 2.0
	}

	s.logger.Info().
		Str("source", req.Source.String()).
		Int("pairs", doc.Len()).
		Int("left", left.Len()).
		Float64("pivot", result.Pivot).
		Msg("classified left half")

	return result, nil
}
