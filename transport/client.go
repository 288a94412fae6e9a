// Package transport performs the HTTP round trips for the brokerage API and
// classifies failures into a small error taxonomy (connectivity vs 4xx vs
// 5xx) that the higher layers pass through unchanged.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jrsteele09/go-broker-client/internal/logging"
)

const defaultTimeout = 30 * time.Second

// Requester is the narrow interface consumed by the auth package. Tests
// substitute a fake implementation.
type Requester interface {
	Request(ctx context.Context, method, rawURL string, opts ...RequestOption) (*Response, error)
}

// Response carries the status and body of a completed request.
type Response struct {
	StatusCode int
	Body       []byte
}

// JSON decodes the response body into v.
func (r *Response) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("transport.Response.JSON: %w", err)
	}
	return nil
}

// RequestOptions is the assembled per-request configuration. Fakes of the
// Requester interface use BuildOptions to inspect what a caller sent.
type RequestOptions struct {
	Headers map[string]string
	Query   url.Values
	Form    url.Values
	JSON    any
}

// RequestOption customizes a single request.
type RequestOption func(*RequestOptions)

// BuildOptions applies opts to an empty RequestOptions.
func BuildOptions(opts ...RequestOption) *RequestOptions {
	var o RequestOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &o
}

// WithHeaders adds headers to the request.
func WithHeaders(headers map[string]string) RequestOption {
	return func(o *RequestOptions) { o.Headers = headers }
}

// WithQuery adds URL query parameters.
func WithQuery(query url.Values) RequestOption {
	return func(o *RequestOptions) { o.Query = query }
}

// WithForm sends the body form-urlencoded.
func WithForm(form url.Values) RequestOption {
	return func(o *RequestOptions) { o.Form = form }
}

// WithJSON sends the body JSON-encoded.
func WithJSON(body any) RequestOption {
	return func(o *RequestOptions) { o.JSON = body }
}

// Client is the concrete Requester backed by net/http.
type Client struct {
	httpClient *http.Client
	logger     logging.Logger
}

var _ Requester = (*Client)(nil)

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client with a default timeout.
func New(options ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logging.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Request performs one HTTP round trip. Non-2xx statuses and connectivity
// failures are returned as classified errors; the caller never needs to
// look at the status code on the error path.
func (c *Client) Request(ctx context.Context, method, rawURL string, opts ...RequestOption) (*Response, error) {
	o := BuildOptions(opts...)

	req, err := buildRequest(ctx, method, rawURL, o)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)
	c.logger.Debug("request", logging.F("method", method), logging.F("url", rawURL), logging.F("request_id", requestID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrConnection, method, rawURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %v", ErrConnection, err)
	}

	c.logger.Debug("response", logging.F("status", resp.StatusCode), logging.F("request_id", requestID))

	if err := classifyStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

func buildRequest(ctx context.Context, method, rawURL string, o *RequestOptions) (*http.Request, error) {
	var body io.Reader
	contentType := ""
	switch {
	case o.Form != nil:
		body = strings.NewReader(o.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case o.JSON != nil:
		data, err := json.Marshal(o.JSON)
		if err != nil {
			return nil, fmt.Errorf("transport: encoding request body: %w", err)
		}
		body = strings.NewReader(string(data))
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("transport: building request: %w", err)
	}
	if len(o.Query) > 0 {
		req.URL.RawQuery = o.Query.Encode()
	}
	for k, v := range o.Headers {
		req.Header.Set(k, v)
	}
	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

func classifyStatus(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status >= 400 && status < 500:
		return fmt.Errorf("%w: %d %s", ErrBadRequest, status, http.StatusText(status))
	case status >= 500 && status < 600:
		return fmt.Errorf("%w: %d %s", ErrServerError, status, http.StatusText(status))
	default:
		return fmt.Errorf("%w: %d %s", ErrHTTP, status, http.StatusText(status))
	}
}
