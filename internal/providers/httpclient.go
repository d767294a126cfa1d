package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"solana-scan-bot/internal/observability"
)

// DefaultTimeout bounds a single provider request.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of a failed response body ends up in an error message.
const maxErrorBody = 512

// ErrorParser extracts a human-readable message from a provider error envelope.
// It returns "" when the body is not a recognised envelope.
type ErrorParser func(body []byte) string

// JSONClient performs GET requests against a JSON API and maps failures
// to *Error. It never retries.
type JSONClient struct {
	source      string
	baseURL     string
	client      *http.Client
	headers     http.Header
	parseError  ErrorParser
	recordStats bool
}

// ClientOption configures JSONClient.
type ClientOption func(*JSONClient)

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *JSONClient) {
		c.client.Timeout = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *JSONClient) {
		c.client = client
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) ClientOption {
	return func(c *JSONClient) {
		c.headers.Set(key, value)
	}
}

// WithErrorParser sets the parser for non-2xx response bodies.
func WithErrorParser(p ErrorParser) ClientOption {
	return func(c *JSONClient) {
		c.parseError = p
	}
}

// WithoutMetrics disables prometheus recording.
func WithoutMetrics() ClientOption {
	return func(c *JSONClient) {
		c.recordStats = false
	}
}

// NewJSONClient creates a client for the API rooted at baseURL.
// source is the provider name used in errors and metrics.
func NewJSONClient(source, baseURL string, opts ...ClientOption) *JSONClient {
	c := &JSONClient{
		source:      source,
		baseURL:     strings.TrimRight(baseURL, "/"),
		client:      &http.Client{Timeout: DefaultTimeout},
		headers:     http.Header{"Accept": []string{"application/json"}},
		recordStats: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues GET {baseURL}{path}?{query} and decodes a 2xx body into out.
// endpoint labels the call in metrics.
func (c *JSONClient) Get(ctx context.Context, endpoint, path string, query url.Values, out any) error {
	start := time.Now()
	err := c.get(ctx, path, query, out)
	if c.recordStats {
		result := "ok"
		if err != nil {
			result = KindUnknown.Label()
			if perr, ok := err.(*Error); ok {
				result = perr.Kind.Label()
			}
		}
		observability.RecordProviderRequest(c.source, endpoint, result, time.Since(start).Seconds())
	}
	return err
}

func (c *JSONClient) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &Error{Source: c.source, Kind: KindUnknown, Message: "create request", Err: err}
	}
	for k, v := range c.headers {
		req.Header[k] = v
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &Error{Source: c.source, Kind: KindUnknown, Message: "http request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Source: c.source, Kind: KindUnknown, StatusCode: resp.StatusCode, Message: "read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return NewError(c.source, resp.StatusCode, c.errorMessage(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &Error{
			Source:     c.source,
			Kind:       KindUnknown,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("decode response: %v", err),
			Err:        err,
		}
	}
	return nil
}

func (c *JSONClient) errorMessage(body []byte) string {
	if c.parseError != nil {
		if msg := c.parseError(body); msg != "" {
			return msg
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody]
	}
	if msg == "" {
		msg = "empty response body"
	}
	return msg
}
