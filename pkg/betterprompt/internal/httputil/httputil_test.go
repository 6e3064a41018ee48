// ABOUTME: Tests for the shared HTTP client: headers, retry on 429/5xx, single-shot Send, SSE
// ABOUTME: Uses httptest.NewServer for deterministic, isolated test scenarios

package httputil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestClientSendAppliesHeaders(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("got method %s, want POST", r.Method)
		}
		if got := r.Header.Get("X-Default"); got != "base" {
			t.Errorf("X-Default = %q, want %q", got, "base")
		}
		if got := r.Header.Get("X-Override"); got != "request" {
			t.Errorf("X-Override = %q, want %q", got, "request")
		}
		body, _ := io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL+"/", map[string]string{"X-Default": "base", "X-Override": "client"})

	header := make(http.Header)
	header.Set("X-Override", "request")
	resp, err := client.Send(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/echo",
		Body:   []byte("hello"),
		Header: header,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	got, _ := io.ReadAll(resp.Body)
	if string(got) != "hello" {
		t.Errorf("got body %q, want %q", string(got), "hello")
	}
}

func TestClientSendDoesNotRetry(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, nil)
	resp, err := client.Send(context.Background(), Request{Method: http.MethodPost, Path: "/x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if got := attempts.Load(); got != 1 {
		t.Errorf("got %d attempts, want 1", got)
	}
}

func TestClientDoRetryOn429(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := attempts.Add(1)
		if n <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("success"))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, nil)
	resp, err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/retry"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("got status %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("got %d attempts, want 3", got)
	}
}

func TestClientDoExhaustsRetries(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, nil, WithMaxRetries(1))
	resp, err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/down"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("got status %d, want %d", resp.StatusCode, http.StatusBadGateway)
	}
	if got := attempts.Load(); got != 2 {
		t.Errorf("got %d attempts, want 2", got)
	}
}

func TestClientStreamSSE(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "text/event-stream" {
			t.Errorf("Accept = %q, want text/event-stream", got)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("event: chunk\ndata: hello\n\nevent: done\ndata: world\n\n"))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, nil)
	reader, resp, err := client.StreamSSE(context.Background(), Request{Method: http.MethodPost, Path: "/events"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	defer reader.Close()

	b1, err := reader.Next()
	if err != nil {
		t.Fatalf("first event: %v", err)
	}
	if b1.Event != "chunk" || b1.Data != "hello" {
		t.Errorf("event1 = %+v, want chunk/hello", b1)
	}
	b2, err := reader.Next()
	if err != nil {
		t.Fatalf("second event: %v", err)
	}
	if b2.Event != "done" || b2.Data != "world" {
		t.Errorf("event2 = %+v, want done/world", b2)
	}
	if _, err := reader.Next(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestClientRequestBaseURLOverride(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/override" {
			t.Errorf("path = %q, want /override", r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	client := NewClient("http://127.0.0.1:1", nil)
	resp, err := client.Send(context.Background(), Request{Method: http.MethodGet, BaseURL: srv.URL, Path: "/override"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
}

func TestClientDoRespectsContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(srv.URL, nil)
	if _, err := client.Do(ctx, Request{Method: http.MethodGet, Path: "/cancelled"}); err == nil {
		t.Fatal("expected error from cancelled context, got nil")
	}
}

func TestNewClientHasTransportTimeouts(t *testing.T) {
	t.Parallel()

	client := NewClient("http://example.com", nil)
	if client.httpClient.Timeout != 0 {
		t.Errorf("httpClient.Timeout = %v; streams need no overall timeout", client.httpClient.Timeout)
	}

	transport, ok := client.httpClient.Transport.(*http.Transport)
	if !ok {
		t.Fatal("httpClient.Transport is not *http.Transport")
	}
	if transport.TLSHandshakeTimeout == 0 {
		t.Error("TLSHandshakeTimeout is zero; want a non-zero timeout")
	}
	if transport.ResponseHeaderTimeout == 0 {
		t.Error("ResponseHeaderTimeout is zero; want a non-zero timeout")
	}
}

func TestWithProxy(t *testing.T) {
	t.Parallel()

	client := NewClient("http://example.com", nil, WithProxy("http://proxy.internal:3128"))
	transport := client.httpClient.Transport.(*http.Transport)

	req, _ := http.NewRequest(http.MethodGet, "http://example.com/api", nil)
	got, err := transport.Proxy(req)
	if err != nil {
		t.Fatalf("Proxy error: %v", err)
	}
	if got == nil || got.Host != "proxy.internal:3128" {
		t.Errorf("proxy = %v, want proxy.internal:3128", got)
	}

	local, _ := http.NewRequest(http.MethodGet, "http://localhost:8080/api", nil)
	if got, _ := transport.Proxy(local); got != nil {
		t.Errorf("localhost proxied via %v, want direct", got)
	}
}
