// Package fetch retrieves published CSV exports over HTTP.
//
// The fetcher does not retry; the refresh coordinator decides whether to
// retry or keep serving the previous snapshot when a fetch fails.
package fetch

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"
)

// Default fetcher configuration constants.
const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "bayview-dashboard/1.0"
)

// Fetcher retrieves one CSV document as raw rows.
type Fetcher interface {
	// Fetch retrieves and parses the CSV at url, honoring ctx for
	// cancellation and the configured timeout.
	Fetch(ctx context.Context, url string) ([][]string, error)
}

// Client implements Fetcher over HTTP.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header sent to the sheet host.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a fetcher with configuration options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		userAgent:  defaultUserAgent,
	}

	// Apply all options
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Fetch retrieves the CSV at url and parses it into rows.
func (c *Client) Fetch(ctx context.Context, url string) ([][]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d from %s", ErrStatus, resp.StatusCode, url)
	}

	reader := csv.NewReader(resp.Body)
	// Published sheets pad rows unevenly; let the normalizer sort it out.
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return rows, nil
}
