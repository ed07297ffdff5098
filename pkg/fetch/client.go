// Package fetch implements the markup request client.
//
// The client resolves a URL to its response body with a timeout. A request
// fails on timeout or on a non-success status; in both cases the
// per-client error handler is invoked before the error propagates, so a
// caller can react (evict a cache entry, fall back to a hard navigation)
// without wrapping every call site. No retries happen at this layer.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/pergola/internal/logging"
)

// DefaultTimeout bounds a fetch when no timeout option is given.
const DefaultTimeout = 2000 * time.Millisecond

// markerHeader identifies engine-originated requests so servers can vary
// the response (e.g. skip layout chrome).
const markerHeader = "x-pergola"

// StatusError reports a non-success transport result.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
}

// ErrorHandler is invoked before a fetch error propagates.
// status is 0 when no response was received (timeout, transport failure).
type ErrorHandler func(url string, status int, err error)

// Client fetches page markup over HTTP.
type Client struct {
	http      *http.Client
	timeout   time.Duration
	userAgent string
	onError   ErrorHandler
	logger    *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithTimeout bounds each fetch. Defaults to DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient injects a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithUserAgent sets the User-Agent header on requests.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithErrorHandler registers the handler invoked before errors propagate.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *Client) {
		c.onError = h
	}
}

// WithLogger configures a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{},
		timeout: DefaultTimeout,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch resolves url to its response body as text.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", c.fail(url, 0, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set(markerHeader, "yes")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("request timed out after %s: %w", c.timeout, err)
		}
		return "", c.fail(url, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", c.fail(url, resp.StatusCode, &StatusError{URL: url, Status: resp.StatusCode})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.fail(url, resp.StatusCode, fmt.Errorf("read body: %w", err))
	}

	return string(body), nil
}

func (c *Client) fail(url string, status int, err error) error {
	c.logger.Debug("fetch failed", "url", url, "status", status, "err", err)
	if c.onError != nil {
		c.onError(url, status, err)
	}
	return err
}
