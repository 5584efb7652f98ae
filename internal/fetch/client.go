package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/a3tai/mcp-kv-entities/internal/document"
)

const (
	// DefaultTimeout bounds a single document request
	DefaultTimeout = 30 * time.Second
	// DefaultMaxDocumentSize caps the decoded response body
	DefaultMaxDocumentSize = 20 * 1024 * 1024 // 20MB
)

// StatusError is returned when the endpoint answers with anything but 200
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Error %d: Failed to retrieve data from url", e.StatusCode)
}

// Client retrieves document analysis results over HTTP
type Client struct {
	httpClient      *http.Client
	maxDocumentSize int64
	userAgent       string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithMaxDocumentSize caps the number of response bytes that are decoded
func WithMaxDocumentSize(n int64) Option {
	return func(c *Client) {
		c.maxDocumentSize = n
	}
}

// WithUserAgent sets the User-Agent header sent with each request
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a client with the given options
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient:      &http.Client{Timeout: DefaultTimeout},
		maxDocumentSize: DefaultMaxDocumentSize,
		userAgent:       "mcp-kv-entities",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch performs a GET against url and decodes a 200 response as a document.
// Any other status is reported as *StatusError with a nil document.
func (c *Client) Fetch(ctx context.Context, url string) (*document.Document, error) {
	if url == "" {
		return nil, fmt.Errorf("url cannot be empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: url}
	}

	doc, err := document.DecodeReader(resp.Body, c.maxDocumentSize)
	if err != nil {
		return nil, err
	}
	return doc, nil
}
