// Package transport is the HTTP layer between the traffic generator and
// the target API. It owns connection pooling and the per-request time
// budget. Response bodies are drained for connection reuse but never
// interpreted; status codes are the only thing callers see.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Request is one outbound HTTP request. A nil Body means the request is
// sent with no body at all (distinct from an empty one).
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Options tunes the client's connection pool and time budget.
type Options struct {
	// Timeout is the full per-request budget (dial, send, response headers,
	// body drain). Zero means no limit.
	Timeout time.Duration

	// Connection pool sizing. Zero values keep the transport defaults.
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	MaxConnsPerHost     int
}

// Client wraps an http.Client configured for sustained request cycles
// against a single host.
type Client struct {
	http *http.Client
}

// New creates a Client with a tuned copy of the default transport.
func New(opts Options) *Client {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	if opts.MaxIdleConns > 0 {
		tr.MaxIdleConns = opts.MaxIdleConns
	}
	if opts.MaxIdleConnsPerHost > 0 {
		tr.MaxIdleConnsPerHost = opts.MaxIdleConnsPerHost
	}
	if opts.MaxConnsPerHost > 0 {
		tr.MaxConnsPerHost = opts.MaxConnsPerHost
	}

	return &Client{
		http: &http.Client{
			Transport: tr,
			Timeout:   opts.Timeout,
		},
	}
}

// Do sends one request and returns the HTTP status code. The response
// body is fully drained and discarded so the underlying connection can
// be reused. A non-nil error means no status was produced; the error is
// returned unwrapped so callers can classify it.
func (c *Client) Do(ctx context.Context, r Request) (int, error) {
	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	if r.Header != nil {
		req.Header = r.Header.Clone()
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

// Close releases idle connections held by the pool.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}
