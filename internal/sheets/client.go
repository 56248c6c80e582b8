// Package sheets fetches the order sheet as comma-separated text from the
// spreadsheet CSV export endpoint.
package sheets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// exportURL is the CSV export endpoint, templated by sheet ID and tab name.
const exportURL = "https://docs.google.com/spreadsheets/d/%s/gviz/tq?tqx=out:csv&sheet=%s"

// Client fetches raw tabular text for a sheet tab. No retries: a failed
// fetch surfaces to the caller and degrades to an empty dataset upstream.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL overrides the export URL template. Used by tests to point at
// a local server.
func WithBaseURL(tmpl string) Option {
	return func(c *Client) { c.baseURL = tmpl }
}

// NewClient creates a sheet client with a 30s timeout by default.
func NewClient(logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    exportURL,
		logger:     logger.With(slog.String("component", "sheets_client")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch downloads the CSV export of one sheet tab and returns it as text.
func (c *Client) Fetch(ctx context.Context, sheetID, tabName string) (string, error) {
	target := fmt.Sprintf(c.baseURL, url.PathEscape(sheetID), url.QueryEscape(tabName))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("build sheet request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch sheet %q: %w", tabName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch sheet %q: unexpected status %d", tabName, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read sheet body: %w", err)
	}

	c.logger.Debug("sheet fetched",
		slog.String("tab", tabName),
		slog.Int("bytes", len(body)),
		slog.Duration("elapsed", time.Since(start)))

	return string(body), nil
}
