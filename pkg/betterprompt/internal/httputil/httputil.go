// ABOUTME: Shared HTTP client with default headers, env-aware proxying, and SSE streaming
// ABOUTME: Do retries idempotent requests on 429/5xx; Send and StreamSSE never retry

package httputil

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/http/httpproxy"

	"github.com/mauromedda/betterprompt-go/pkg/betterprompt/internal/sse"
)

const (
	defaultMaxRetries = 3
	baseBackoffMs     = 250
	maxBackoffMs      = 5000
)

// Request describes one HTTP call relative to a base URL.
type Request struct {
	Method string
	// BaseURL overrides the client base URL when non-empty.
	BaseURL string
	Path    string
	Body    []byte
	Header  http.Header
}

// Client wraps an http.Client with retry logic and default headers.
type Client struct {
	httpClient *http.Client
	baseURL    string
	headers    map[string]string
	maxRetries int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client (used by tests and callers
// that bring their own transport).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithMaxRetries sets how many times Do retries a retryable status.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithProxy routes requests through proxyURL instead of HTTP_PROXY/HTTPS_PROXY.
func WithProxy(proxyURL string) Option {
	return func(c *Client) {
		if t, ok := c.httpClient.Transport.(*http.Transport); ok {
			t.Proxy = proxyFunc(proxyURL)
		}
	}
}

// NewClient creates a new HTTP client with the given base URL and default headers.
// The client has no overall timeout: streams are long-lived and deadlines come
// from the request context.
func NewClient(baseURL string, headers map[string]string, opts ...Option) *Client {
	if headers == nil {
		headers = make(map[string]string)
	}
	c := &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy: proxyFunc(""),
				DialContext: (&net.Dialer{
					Timeout:   30 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 60 * time.Second,
				MaxIdleConns:          100,
				IdleConnTimeout:       90 * time.Second,
			},
		},
		baseURL:    NormalizeBaseURL(baseURL),
		headers:    headers,
		maxRetries: defaultMaxRetries,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the base URL configured on this client.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL resolves the full URL a request will be sent to.
func (c *Client) URL(req Request) string {
	base := c.baseURL
	if req.BaseURL != "" {
		base = NormalizeBaseURL(req.BaseURL)
	}
	return base + req.Path
}

// Send performs exactly one attempt.
func (c *Client) Send(ctx context.Context, req Request) (*http.Response, error) {
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	return resp, nil
}

// Do sends an HTTP request with retry on 429 and 5xx status codes. Only use it
// for idempotent requests. The response of the last attempt is returned even
// when retries are exhausted.
func (c *Client) Do(ctx context.Context, req Request) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		resp, err := c.Send(ctx, req)
		if err != nil {
			return nil, err
		}
		if !isRetryable(resp.StatusCode) || attempt >= c.maxRetries {
			return resp, nil
		}

		// Close the body of the retryable response before retrying.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()

		if err := sleepWithContext(ctx, backoff(attempt)); err != nil {
			return nil, fmt.Errorf("context cancelled during retry backoff: %w", err)
		}
	}
}

// StreamSSE sends a single request and returns an SSE reader over the body.
// The caller must close the returned *http.Response and the reader when done.
func (c *Client) StreamSSE(ctx context.Context, req Request) (*sse.Reader, *http.Response, error) {
	if req.Header == nil {
		req.Header = make(http.Header)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.Send(ctx, req)
	if err != nil {
		return nil, nil, fmt.Errorf("SSE stream request failed: %w", err)
	}
	return sse.NewReader(resp.Body), resp, nil
}

// buildRequest creates an http.Request with default headers applied.
func (c *Client) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	target := c.URL(req)

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s %s: %w", req.Method, req.Path, err)
	}

	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}
	for k, vs := range req.Header {
		httpReq.Header.Del(k)
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	return httpReq, nil
}

// proxyFunc resolves proxies from the environment, or from proxyURL when set.
// Loopback destinations are never proxied.
func proxyFunc(proxyURL string) func(*http.Request) (*url.URL, error) {
	cfg := httpproxy.FromEnvironment()
	if proxyURL != "" {
		cfg.HTTPProxy = proxyURL
		cfg.HTTPSProxy = proxyURL
	}
	resolve := cfg.ProxyFunc()
	return func(req *http.Request) (*url.URL, error) {
		return resolve(req.URL)
	}
}

// isRetryable returns true for status codes that warrant a retry.
func isRetryable(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}

// backoff returns the backoff duration for the given attempt using exponential backoff.
func backoff(attempt int) time.Duration {
	ms := float64(baseBackoffMs) * math.Pow(2, float64(attempt))
	if ms > maxBackoffMs {
		ms = maxBackoffMs
	}
	return time.Duration(ms) * time.Millisecond
}

// sleepWithContext waits for the given duration or until the context is cancelled.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
