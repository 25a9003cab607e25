package sparql

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	contentTypeQuery   = "application/sparql-query"
	acceptResultsJSON  = "application/sparql-results+json"
	defaultHTTPTimeout = 60 * time.Second
)

// HTTPClient executes queries against a SPARQL 1.1 Protocol endpoint.
type HTTPClient struct {
	endpoint   string
	httpClient *http.Client
	username   string
	password   string
	logger     *slog.Logger
}

// HTTPOption configures an HTTPClient.
type HTTPOption func(*HTTPClient)

// WithBasicAuth sets HTTP basic auth credentials for the endpoint.
func WithBasicAuth(username, password string) HTTPOption {
	return func(c *HTTPClient) {
		c.username = username
		c.password = password
	}
}

// WithTimeout overrides the default per-request timeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(c *HTTPClient) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) HTTPOption {
	return func(c *HTTPClient) {
		c.logger = logger
	}
}

// NewHTTPClient creates an executor for the given endpoint URL.
func NewHTTPClient(endpoint string, opts ...HTTPOption) *HTTPClient {
	c := &HTTPClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Execute POSTs the query to the endpoint and parses the JSON results.
func (c *HTTPClient) Execute(ctx context.Context, query string) (*ResultTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(query))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeQuery)
	req.Header.Set("Accept", acceptResultsJSON)
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("endpoint returned %d: %s", resp.StatusCode, snippet(body))
	}

	table, err := ParseResults(body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("sparql query executed",
		slog.String("endpoint", c.endpoint),
		slog.Int("rows", len(table.Rows)),
		slog.Duration("duration", time.Since(start)))

	return table, nil
}

// snippet truncates an error body for log and error messages.
func snippet(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
