// ABOUTME: Live BetterPrompt client: one-shot Invoke and SSE Stream over HTTP
// ABOUTME: Stream returns a Task immediately and runs the session on its own goroutine

// Package betterprompt is a client for the BetterPrompt prompt-execution API.
package betterprompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	bplog "github.com/mauromedda/betterprompt-go/internal/log"
	"github.com/mauromedda/betterprompt-go/pkg/betterprompt/internal/httputil"
)

const (
	// TokenHeader carries the internal call token.
	TokenHeader = "x-platform-internal-call-token"

	defaultSchemaTTL = 5 * time.Minute
	maxInvokeBody    = 16 * 1024 * 1024
)

// Client talks to a BetterPrompt platform. It is safe for concurrent use;
// concurrent streams share only the underlying connection pool.
type Client struct {
	http      *httputil.Client
	token     string
	schemaTTL time.Duration
	newID     func() string
	schemas   schemaCache
}

var _ Prompter = (*Client)(nil)

// New creates a client. WithBaseURL is required.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		schemaTTL:  defaultSchemaTTL,
		maxRetries: -1,
	}
	for _, o := range opts {
		o(cfg)
	}

	if !httputil.ValidateBaseURL(cfg.baseURL) {
		return nil, fmt.Errorf("betterprompt: invalid base URL %q", cfg.baseURL)
	}

	headers := map[string]string{"Content-Type": "application/json"}
	for k, v := range cfg.headers {
		headers[k] = v
	}

	var httpOpts []httputil.Option
	if cfg.httpClient != nil {
		httpOpts = append(httpOpts, httputil.WithHTTPClient(cfg.httpClient))
	} else if cfg.proxy != "" {
		httpOpts = append(httpOpts, httputil.WithProxy(cfg.proxy))
	}
	if cfg.maxRetries >= 0 {
		httpOpts = append(httpOpts, httputil.WithMaxRetries(cfg.maxRetries))
	}

	newID := cfg.newID
	if newID == nil {
		newID = uuid.NewString
	}

	return &Client{
		http:      httputil.NewClient(cfg.baseURL, headers, httpOpts...),
		token:     cfg.token,
		schemaTTL: cfg.schemaTTL,
		newID:     newID,
	}, nil
}

// BaseURL returns the normalized platform base URL.
func (c *Client) BaseURL() string {
	return c.http.BaseURL()
}

// Invoke runs a prompt and returns the complete response. It is not retried.
func (c *Client) Invoke(ctx context.Context, req Request, opts ...CallOption) (string, error) {
	if req.Slug == "" {
		return "", invalidRequest("slug is required")
	}
	body, err := encodeBody(req)
	if err != nil {
		return "", invalidRequest("%v", err)
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	httpReq := c.request(http.MethodPost, invokePath(req.Slug), body, opts)
	resp, err := c.http.Send(ctx, httpReq)
	if err != nil {
		return "", connectionError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxInvokeBody))
	if err != nil {
		return "", connectionError(err)
	}
	bplog.Debug("betterprompt: POST %s -> %d", c.http.URL(httpReq), resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return "", httpError(resp.StatusCode, data)
	}

	env, err := decodeEnvelope(data)
	if err != nil {
		return "", fmt.Errorf("decoding invoke response: %w", err)
	}
	text, ok := env.text()
	if !ok {
		return "", errors.New("decoding invoke response: missing response field")
	}
	return text, nil
}

// Stream starts a streaming call and returns its Task at once. Callbacks run
// on the session goroutine. Cancelling ctx cancels the task, and when ctx
// ends by its deadline the Wait error also matches context.DeadlineExceeded.
// Request.Timeout expiry is reported as a connection error.
func (c *Client) Stream(ctx context.Context, req Request, cb Callbacks, opts ...CallOption) *Task {
	req = req.clone()

	runCtx, cancel := context.WithCancel(ctx)
	task := newTask(c.newID(), cancel)
	task.state.Store(int32(StateConnecting))

	s := &session{task: task, cb: cb, parent: ctx, http: c.http}

	var prepErr *APIError
	if req.Slug == "" {
		prepErr = invalidRequest("slug is required")
	} else if body, err := encodeBody(req); err != nil {
		prepErr = invalidRequest("%v", err)
	} else {
		s.req = c.request(http.MethodPost, streamPath(req.Slug), body, opts)
	}

	stop := context.AfterFunc(ctx, func() { task.cancelWith(context.Cause(ctx)) })
	go func() {
		defer stop()
		defer cancel()

		if prepErr != nil {
			s.fail(prepErr)
			return
		}

		reqCtx := runCtx
		if req.Timeout > 0 {
			var cancelTimeout context.CancelFunc
			reqCtx, cancelTimeout = context.WithTimeout(runCtx, req.Timeout)
			defer cancelTimeout()
		}
		s.run(reqCtx)
	}()
	return task
}

// request assembles a transport request with per-call overrides applied.
func (c *Client) request(method, path string, body []byte, opts []CallOption) httputil.Request {
	var cc callConfig
	for _, o := range opts {
		o(&cc)
	}

	token := c.token
	if cc.hasToken {
		token = cc.token
	}
	header := make(http.Header)
	if token != "" {
		header.Set(TokenHeader, token)
	}

	return httputil.Request{
		Method:  method,
		BaseURL: cc.baseURL,
		Path:    path,
		Body:    body,
		Header:  header,
	}
}

func invokePath(slug string) string {
	return "/api/better-prompt/" + httputil.PathSegment(slug) + "/invoke"
}

func streamPath(slug string) string {
	return "/api/better-prompt/" + httputil.PathSegment(slug) + "/stream"
}
