// Package annotate talks to the text-annotation collaborator used to
// enrich event submissions, and carries a local heuristic fallback so the
// submission flow works with the collaborator entirely absent.
package annotate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bonyoongoo/campusfeed/internal/domain/model"
)

// Limits applied to collaborator output.
const (
	maxTags        = 8
	defaultTimeout = 8 * time.Second
)

// ErrAnnotate marks a failed call to the collaborator.
var ErrAnnotate = errors.New("annotation request failed")

// Annotation is the enrichment returned for a title/description pair. It
// feeds the submission form only; filtering and ranking never consume it.
type Annotation struct {
	Summary string      `json:"summary"`
	Tags    []string    `json:"tags"`
	Level   model.Level `json:"level"`
	Missing []string    `json:"missing"`
}

// Annotator produces an Annotation for raw submission text.
type Annotator interface {
	Annotate(ctx context.Context, title, description string) (Annotation, error)
}

// Client calls the external summarize endpoint.
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

// NewClient creates an annotation client for the given endpoint URL.
func NewClient(url string, opts ...Option) *Client {
	c := &Client{
		url:    url,
		client: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type annotateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Annotate posts the pair to the collaborator and sanitizes the result:
// tags are clamped to 8 lowercase entries and an unknown level falls back
// to beginner.
func (c *Client) Annotate(ctx context.Context, title, description string) (Annotation, error) {
	body, err := json.Marshal(annotateRequest{Title: title, Description: description})
	if err != nil {
		return Annotation{}, fmt.Errorf("%w: %w", ErrAnnotate, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Annotation{}, fmt.Errorf("%w: %w", ErrAnnotate, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Annotation{}, fmt.Errorf("%w: %w", ErrAnnotate, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Annotation{}, fmt.Errorf("%w: unexpected status %d", ErrAnnotate, resp.StatusCode)
	}

	var out Annotation
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Annotation{}, fmt.Errorf("%w: %w", ErrAnnotate, err)
	}
	return sanitize(out), nil
}

func sanitize(a Annotation) Annotation {
	tags := make([]string, 0, len(a.Tags))
	for _, t := range a.Tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			tags = append(tags, t)
		}
		if len(tags) == maxTags {
			break
		}
	}
	a.Tags = tags
	if model.ParseLevel(string(a.Level)) == model.LevelUnknown {
		a.Level = model.LevelBeginner
	}
	if a.Missing == nil {
		a.Missing = []string{}
	}
	return a
}
