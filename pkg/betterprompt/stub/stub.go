// ABOUTME: Deterministic Prompter that replays canned responses without network access
// ABOUTME: Serves SSE through an in-process RoundTripper so the live session code runs unchanged

// Package stub provides a test double for betterprompt.Prompter. It wraps a
// real *betterprompt.Client whose transport answers from a Config, so
// streaming callbacks follow exactly the same rules as against a platform.
package stub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mauromedda/betterprompt-go/pkg/betterprompt"
)

const (
	baseURL = "http://betterprompt.stub"

	// DefaultChunkSize is the number of runes per chunk when Config.ChunkSize is zero.
	DefaultChunkSize = 8
)

// Failure forces a call to fail.
type Failure struct {
	// Code answers with this HTTP status. Zero makes Stream emit an error
	// event inside the stream and Invoke answer 500.
	Code int
	// Status is the status field of the error payload.
	Status string
	// Message is the message field of the error payload.
	Message string
	// After is how many chunks are streamed before the error event.
	After int
}

// Config describes what the stub answers. It is copied by New.
type Config struct {
	// Responses maps prompt slugs to their full response text.
	Responses map[string]string
	// DefaultResponse answers slugs missing from Responses. If empty, such
	// slugs get a 404.
	DefaultResponse string
	// ChunkSize splits streamed responses into chunks of this many runes.
	ChunkSize int
	// Delay is slept before each streamed chunk.
	Delay time.Duration
	// Errors forces failures per slug.
	Errors map[string]Failure
	// Schemas is returned by Schemas.
	Schemas []betterprompt.PromptSchema
	// OmitDone closes streams without a done event.
	OmitDone bool
}

// Call records one request the stub received.
type Call struct {
	// Op is "invoke", "stream", or "schemas".
	Op               string
	Slug             string
	ContextVariables map[string]any
	UserPrompt       string
	Token            string
}

// Client is a deterministic betterprompt.Prompter.
type Client struct {
	cfg  Config
	live *betterprompt.Client

	mu    sync.Mutex
	calls []Call
}

var _ betterprompt.Prompter = (*Client)(nil)

// New returns a stub answering from cfg. opts are applied to the wrapped
// client after the stub's own transport settings.
func New(cfg Config, opts ...betterprompt.Option) *Client {
	c := &Client{cfg: cfg}
	c.cfg.Responses = maps.Clone(cfg.Responses)
	c.cfg.Errors = maps.Clone(cfg.Errors)
	c.cfg.Schemas = slices.Clone(cfg.Schemas)
	if c.cfg.ChunkSize <= 0 {
		c.cfg.ChunkSize = DefaultChunkSize
	}

	opts = append([]betterprompt.Option{
		betterprompt.WithBaseURL(baseURL),
		betterprompt.WithHTTPClient(&http.Client{Transport: transport{c}}),
		betterprompt.WithSchemaTTL(0),
		betterprompt.WithMaxRetries(0),
	}, opts...)

	live, err := betterprompt.New(opts...)
	if err != nil {
		panic(fmt.Sprintf("stub: creating client: %v", err))
	}
	c.live = live
	return c
}

// Invoke returns the canned response for req.Slug.
func (c *Client) Invoke(ctx context.Context, req betterprompt.Request, opts ...betterprompt.CallOption) (string, error) {
	return c.live.Invoke(ctx, req, opts...)
}

// Stream replays the canned response for req.Slug as chunk events.
func (c *Client) Stream(ctx context.Context, req betterprompt.Request, cb betterprompt.Callbacks, opts ...betterprompt.CallOption) *betterprompt.Task {
	return c.live.Stream(ctx, req, cb, opts...)
}

// Schemas returns the configured schemas.
func (c *Client) Schemas(ctx context.Context) ([]betterprompt.PromptSchema, error) {
	return c.live.Schemas(ctx)
}

// Calls returns the requests received so far, oldest first.
func (c *Client) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.calls)
}

// Reset forgets recorded calls.
func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = nil
}

func (c *Client) record(call Call) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
}

// transport answers the wrapped client's requests from the stub config.
type transport struct {
	c *Client
}

func (t transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		defer req.Body.Close()
	}
	if err := req.Context().Err(); err != nil {
		return nil, err
	}

	if req.Method == http.MethodGet && req.URL.Path == "/api/prompts/schema" {
		t.c.record(Call{Op: "schemas", Token: req.Header.Get(betterprompt.TokenHeader)})
		return jsonResponse(req, http.StatusOK, map[string]any{"prompts": t.c.cfg.Schemas}), nil
	}

	slug, op, ok := parsePromptPath(req.URL)
	if !ok || req.Method != http.MethodPost {
		return jsonResponse(req, http.StatusNotFound, map[string]any{"message": "no such endpoint"}), nil
	}

	var body struct {
		ContextVariables map[string]any `json:"context_variables"`
		UserPrompt       string         `json:"user_prompt"`
	}
	if req.Body != nil {
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			return jsonResponse(req, http.StatusBadRequest, map[string]any{"message": err.Error()}), nil
		}
	}
	t.c.record(Call{
		Op:               op,
		Slug:             slug,
		ContextVariables: body.ContextVariables,
		UserPrompt:       body.UserPrompt,
		Token:            req.Header.Get(betterprompt.TokenHeader),
	})

	failure, failing := t.c.cfg.Errors[slug]
	if failing && failure.Code != 0 {
		return jsonResponse(req, failure.Code, errorPayload(failure)), nil
	}

	text, found := t.c.cfg.Responses[slug]
	if !found {
		text = t.c.cfg.DefaultResponse
	}
	if !found && text == "" && !failing {
		return jsonResponse(req, http.StatusNotFound,
			map[string]any{"message": fmt.Sprintf("prompt %q not found", slug)}), nil
	}

	if op == "invoke" {
		if failing {
			return jsonResponse(req, http.StatusInternalServerError, errorPayload(failure)), nil
		}
		return jsonResponse(req, http.StatusOK, map[string]any{"response": text}), nil
	}
	return t.streamResponse(req, text, failure, failing), nil
}

// streamResponse writes SSE frames into a pipe so a cancelled request stops
// the writer between chunks.
func (t transport) streamResponse(req *http.Request, text string, failure Failure, failing bool) *http.Response {
	pr, pw := io.Pipe()
	ctx := req.Context()
	cfg := t.c.cfg

	go func() {
		send := func(event, data string) bool {
			if _, err := io.WriteString(pw, Frame(event, data)); err != nil {
				return false
			}
			return true
		}

		if !send("connected", "{}") {
			return
		}
		for i, chunk := range Split(text, cfg.ChunkSize) {
			if failing && i >= failure.After {
				break
			}
			if cfg.Delay > 0 {
				timer := time.NewTimer(cfg.Delay)
				select {
				case <-ctx.Done():
					timer.Stop()
					pw.CloseWithError(ctx.Err())
					return
				case <-timer.C:
				}
			}
			if !send("chunk", chunk) {
				return
			}
		}

		switch {
		case failing:
			data, _ := json.Marshal(errorPayload(failure))
			send("error", string(data))
		case !cfg.OmitDone:
			data, _ := json.Marshal(map[string]string{"response": text})
			send("done", string(data))
		}
		pw.Close()
	}()

	return &http.Response{
		Status:     "200 OK",
		StatusCode: http.StatusOK,
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     http.Header{"Content-Type": {"text/event-stream"}},
		Body:       pipeBody{pr},
		Request:    req,
	}
}

// pipeBody closes the read side so a blocked writer goroutine exits.
type pipeBody struct {
	*io.PipeReader
}

func (b pipeBody) Close() error {
	return b.PipeReader.CloseWithError(io.ErrClosedPipe)
}

// Frame renders one SSE block. Multi-line data becomes several data lines.
func Frame(event, data string) string {
	var b strings.Builder
	b.WriteString("event: ")
	b.WriteString(event)
	b.WriteByte('\n')
	for line := range strings.SplitSeq(data, "\n") {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	return b.String()
}

// Split cuts text into chunks of at most size runes.
func Split(text string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	var chunks []string
	for len(text) > 0 {
		end, n := 0, 0
		for end < len(text) && n < size {
			_, w := utf8.DecodeRuneInString(text[end:])
			end += w
			n++
		}
		chunks = append(chunks, text[:end])
		text = text[end:]
	}
	return chunks
}

func errorPayload(f Failure) map[string]any {
	p := map[string]any{"message": f.Message}
	if f.Status != "" {
		p["status"] = f.Status
	}
	if p["message"] == "" {
		p["message"] = "stub failure"
	}
	return p
}

func jsonResponse(req *http.Request, code int, v any) *http.Response {
	data, _ := json.Marshal(v)
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", code, http.StatusText(code)),
		StatusCode:    code,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        http.Header{"Content-Type": {"application/json"}},
		Body:          io.NopCloser(strings.NewReader(string(data))),
		ContentLength: int64(len(data)),
		Request:       req,
	}
}

// parsePromptPath extracts slug and operation from /api/better-prompt/{slug}/{op}.
func parsePromptPath(u *url.URL) (slug, op string, ok bool) {
	rest, found := strings.CutPrefix(u.EscapedPath(), "/api/better-prompt/")
	if !found {
		return "", "", false
	}
	i := strings.LastIndexByte(rest, '/')
	if i <= 0 {
		return "", "", false
	}
	op = rest[i+1:]
	if op != "invoke" && op != "stream" {
		return "", "", false
	}
	slug, err := url.PathUnescape(rest[:i])
	if err != nil {
		return "", "", false
	}
	return slug, op, true
}
