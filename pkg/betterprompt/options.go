// ABOUTME: Functional options for Client construction and per-call overrides
// ABOUTME: Configuration is injected explicitly; the SDK never reads the environment

package betterprompt

import (
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	baseURL    string
	token      string
	httpClient *http.Client
	proxy      string
	headers    map[string]string
	schemaTTL  time.Duration
	maxRetries int
	newID      func() string
}

// WithBaseURL sets the platform base URL, e.g. "https://platform.example.com".
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithToken sets the internal call token sent in the x-platform-internal-call-token header.
func WithToken(token string) Option {
	return func(c *clientConfig) {
		c.token = token
	}
}

// WithHTTPClient sets the http.Client used for every request.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = hc
	}
}

// WithProxy routes requests through the given proxy URL.
func WithProxy(proxyURL string) Option {
	return func(c *clientConfig) {
		c.proxy = proxyURL
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *clientConfig) {
		if c.headers == nil {
			c.headers = make(map[string]string)
		}
		c.headers[key] = value
	}
}

// WithSchemaTTL sets how long fetched schemas are reused. Zero disables caching.
func WithSchemaTTL(d time.Duration) Option {
	return func(c *clientConfig) {
		c.schemaTTL = d
	}
}

// WithMaxRetries sets how often schema fetches retry on 429/5xx. Invoke and
// Stream never retry.
func WithMaxRetries(n int) Option {
	return func(c *clientConfig) {
		c.maxRetries = n
	}
}

// WithIDGenerator overrides how session IDs are generated.
func WithIDGenerator(fn func() string) Option {
	return func(c *clientConfig) {
		c.newID = fn
	}
}

// CallOption overrides client settings for a single call.
type CallOption func(*callConfig)

type callConfig struct {
	baseURL  string
	token    string
	hasToken bool
}

// WithRequestBaseURL sends this call to a different base URL.
func WithRequestBaseURL(url string) CallOption {
	return func(c *callConfig) {
		c.baseURL = url
	}
}

// WithRequestToken uses token for this call. An empty token suppresses the header.
func WithRequestToken(token string) CallOption {
	return func(c *callConfig) {
		c.token = token
		c.hasToken = true
	}
}
