// Package catalog fetches the raw event catalog from its external HTTP
// source.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Default client configuration.
const defaultTimeout = 10 * time.Second

// Sentinel kinds for catalog load failures. A failed load only affects
// that load; callers fall back to an empty list.
var (
	ErrFetch  = errors.New("catalog fetch failed")
	ErrDecode = errors.New("catalog decode failed")
)

// Source loads raw event records.
type Source interface {
	Fetch(ctx context.Context) ([]map[string]any, error)
}

// Client is the HTTP Source implementation.
type Client struct {
	url    string
	client *http.Client
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithTimeout sets the request timeout on the default client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// New creates a catalog client for the given URL.
func New(url string, opts ...Option) *Client {
	c := &Client{
		url:    url,
		client: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch retrieves the catalog as a JSON array of heterogeneous records.
// Any non-200 response is a hard failure for this load.
func (c *Client) Fetch(ctx context.Context) ([]map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrFetch, resp.StatusCode)
	}

	var records []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return records, nil
}
