// ABOUTME: Typed stream events and the decoder from raw SSE blocks
// ABOUTME: Malformed done/error payloads fall back to raw text; decoding never fails

package betterprompt

import (
	"encoding/json"
	"fmt"

	"github.com/mauromedda/betterprompt-go/pkg/betterprompt/internal/sse"
)

// EventKind identifies the kind of stream event.
type EventKind int

const (
	EventConnected EventKind = iota + 1
	EventChunk
	EventDone
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventConnected:
		return "connected"
	case EventChunk:
		return "chunk"
	case EventDone:
		return "done"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// StreamEvent is one application-level event decoded from the stream.
type StreamEvent struct {
	Kind EventKind
	// Text is the fragment carried by a chunk event.
	Text string
	// Response is the full response carried by a done event.
	Response string
	// Accumulated marks a done event whose payload had no response; the
	// session substitutes the concatenated chunks.
	Accumulated bool
	// Err is the failure carried by an error event.
	Err *APIError
}

// Decode maps a raw block to a StreamEvent. The boolean is false for event
// types the client does not act on.
func Decode(b sse.Block) (StreamEvent, bool) {
	switch b.Event {
	case "connected":
		return StreamEvent{Kind: EventConnected}, true
	case "chunk":
		return StreamEvent{Kind: EventChunk, Text: b.Data}, true
	case "done":
		return decodeDone(b.Data), true
	case "error":
		return StreamEvent{Kind: EventError, Err: decodeError(b.Data)}, true
	default:
		return StreamEvent{}, false
	}
}

func decodeDone(data string) StreamEvent {
	if data == "" {
		return StreamEvent{Kind: EventDone, Accumulated: true}
	}
	env, err := decodeEnvelope([]byte(data))
	if err != nil {
		return StreamEvent{Kind: EventDone, Response: data}
	}
	resp, ok := env.text()
	if !ok {
		return StreamEvent{Kind: EventDone, Accumulated: true}
	}
	return StreamEvent{Kind: EventDone, Response: resp}
}

func decodeError(data string) *APIError {
	var parsed any
	if err := json.Unmarshal([]byte(data), &parsed); err != nil || parsed == nil {
		return &APIError{Message: data, Detail: map[string]any{"message": data}}
	}

	obj, ok := parsed.(map[string]any)
	if !ok {
		msg := fmt.Sprint(parsed)
		return &APIError{Message: msg, Detail: map[string]any{"message": parsed}}
	}

	e := &APIError{Status: statusFrom(obj), Message: messageFrom(obj), Detail: obj}
	if e.Message == "" {
		e.Message = data
	}
	return e
}
