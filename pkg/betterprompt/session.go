// ABOUTME: Streaming session: one goroutine per call that reads SSE, decodes, and dispatches
// ABOUTME: Accumulates chunk text; EOF without done resolves with the accumulated text

package betterprompt

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	bplog "github.com/mauromedda/betterprompt-go/internal/log"
	"github.com/mauromedda/betterprompt-go/pkg/betterprompt/internal/httputil"
)

const maxErrorBody = 4096

// session owns the buffers of one streaming call. Only its goroutine touches
// acc and the reader.
type session struct {
	task      *Task
	cb        Callbacks
	parent    context.Context
	http      *httputil.Client
	req       httputil.Request
	acc       strings.Builder
	connected bool
	chunked   bool
}

// run drives the call to a terminal state. ctx is the request context, a
// child of parent that Cancel and the timeout both end.
func (s *session) run(ctx context.Context) {
	reader, resp, err := s.http.StreamSSE(ctx, s.req)
	if err != nil {
		s.fail(connectionError(err))
		return
	}
	defer resp.Body.Close()
	defer reader.Close()

	bplog.Debug("betterprompt: session %s: POST %s -> %d", s.task.id, s.http.URL(s.req), resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		s.fail(httpError(resp.StatusCode, body))
		return
	}

	for {
		block, err := reader.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				bplog.Debug("betterprompt: session %s: stream closed without done event", s.task.id)
				s.complete(s.acc.String(), true)
				return
			}
			s.fail(connectionError(err))
			return
		}

		ev, ok := Decode(block)
		if !ok {
			continue
		}
		if s.dispatch(ev) {
			return
		}
	}
}

// dispatch delivers one event and reports whether the session is over.
func (s *session) dispatch(ev StreamEvent) bool {
	if s.task.State().Terminal() {
		return true
	}

	switch ev.Kind {
	case EventConnected:
		if s.connected || s.chunked {
			return false
		}
		s.connected = true
		s.task.advance(StateConnecting, StateStreaming)
		if s.cb.OnConnected != nil {
			invoke(s.task.id, "OnConnected", s.cb.OnConnected)
		}
	case EventChunk:
		s.chunked = true
		s.task.advance(StateConnecting, StateStreaming)
		s.acc.WriteString(ev.Text)
		s.task.appendText(ev.Text)
		if s.cb.OnChunk != nil {
			invoke(s.task.id, "OnChunk", func() { s.cb.OnChunk(ev.Text) })
		}
	case EventDone:
		response := ev.Response
		if ev.Accumulated {
			response = s.acc.String()
		}
		s.complete(response, false)
		return true
	case EventError:
		s.fail(ev.Err)
		return true
	}
	return false
}

// complete finishes the session successfully.
func (s *session) complete(response string, implicit bool) {
	if !s.task.terminate(StateDone) {
		return
	}
	if s.cb.OnDone != nil {
		invoke(s.task.id, "OnDone", func() { s.cb.OnDone(response) })
	}
	s.task.resolve(Result{Text: response, Implicit: implicit}, nil)
}

// fail finishes the session with apiErr. A failure caused by the caller's
// context is a cancellation and is not reported through OnError.
func (s *session) fail(apiErr *APIError) {
	if s.parent.Err() != nil {
		s.task.cancelWith(context.Cause(s.parent))
		return
	}
	if !s.task.terminate(StateErrored) {
		return
	}
	bplog.Debug("betterprompt: session %s: %v", s.task.id, apiErr)
	if s.cb.OnError != nil {
		invoke(s.task.id, "OnError", func() { s.cb.OnError(apiErr) })
	}
	s.task.resolve(Result{Text: s.acc.String()}, apiErr)
}
