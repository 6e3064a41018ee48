// ABOUTME: Tests for decoding SSE blocks into typed stream events
// ABOUTME: Covers done/error JSON fallbacks and ignored event types

package betterprompt

import (
	"testing"

	"github.com/mauromedda/betterprompt-go/pkg/betterprompt/internal/sse"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		block  sse.Block
		want   StreamEvent
		wantOK bool
	}{
		{
			name:   "connected",
			block:  sse.Block{Event: "connected"},
			want:   StreamEvent{Kind: EventConnected},
			wantOK: true,
		},
		{
			name:   "chunk is verbatim",
			block:  sse.Block{Event: "chunk", Data: ` {"not":"parsed"}`},
			want:   StreamEvent{Kind: EventChunk, Text: ` {"not":"parsed"}`},
			wantOK: true,
		},
		{
			name:   "done with response",
			block:  sse.Block{Event: "done", Data: `{"response":"X"}`},
			want:   StreamEvent{Kind: EventDone, Response: "X"},
			wantOK: true,
		},
		{
			name:   "done with extra fields",
			block:  sse.Block{Event: "done", Data: `{"usage":{"tokens":3},"response":"Y","model":"m"}`},
			want:   StreamEvent{Kind: EventDone, Response: "Y"},
			wantOK: true,
		},
		{
			name:   "done with malformed json uses raw text",
			block:  sse.Block{Event: "done", Data: "not-json"},
			want:   StreamEvent{Kind: EventDone, Response: "not-json"},
			wantOK: true,
		},
		{
			name:   "done with non-string response uses raw text",
			block:  sse.Block{Event: "done", Data: `{"response":42}`},
			want:   StreamEvent{Kind: EventDone, Response: `{"response":42}`},
			wantOK: true,
		},
		{
			name:   "done object without response uses accumulator",
			block:  sse.Block{Event: "done", Data: `{"status":"ok"}`},
			want:   StreamEvent{Kind: EventDone, Accumulated: true},
			wantOK: true,
		},
		{
			name:   "done with empty payload uses accumulator",
			block:  sse.Block{Event: "done", Data: ""},
			want:   StreamEvent{Kind: EventDone, Accumulated: true},
			wantOK: true,
		},
		{
			name:   "unknown event ignored",
			block:  sse.Block{Event: "ping", Data: "x"},
			wantOK: false,
		},
		{
			name:   "default message event ignored",
			block:  sse.Block{Event: sse.DefaultEvent, Data: ""},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := Decode(tt.block)
			if ok != tt.wantOK {
				t.Fatalf("Decode ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Kind != tt.want.Kind || got.Text != tt.want.Text ||
				got.Response != tt.want.Response || got.Accumulated != tt.want.Accumulated {
				t.Errorf("Decode = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		data        string
		wantStatus  string
		wantMessage string
		wantDetail  string
	}{
		{
			name:        "structured",
			data:        `{"status":"rate_limited","message":"slow down"}`,
			wantStatus:  "rate_limited",
			wantMessage: "slow down",
			wantDetail:  "slow down",
		},
		{
			name:        "numeric status and detail field",
			data:        `{"status":500,"detail":"model crashed"}`,
			wantStatus:  "500",
			wantMessage: "model crashed",
		},
		{
			name:        "nested error object",
			data:        `{"error":{"message":"bad key"}}`,
			wantMessage: "bad key",
		},
		{
			name:        "malformed json wrapped as message",
			data:        "upstream exploded",
			wantMessage: "upstream exploded",
			wantDetail:  "upstream exploded",
		},
		{
			name:        "json string",
			data:        `"quota exceeded"`,
			wantMessage: "quota exceeded",
		},
		{
			name:        "object without message keeps raw text",
			data:        `{"code":7}`,
			wantMessage: `{"code":7}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ev, ok := Decode(sse.Block{Event: "error", Data: tt.data})
			if !ok || ev.Kind != EventError || ev.Err == nil {
				t.Fatalf("Decode = %+v, %v; want error event", ev, ok)
			}
			if ev.Err.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", ev.Err.Status, tt.wantStatus)
			}
			if ev.Err.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", ev.Err.Message, tt.wantMessage)
			}
			if tt.wantDetail != "" && ev.Err.Detail["message"] != tt.wantDetail {
				t.Errorf("Detail[message] = %v, want %q", ev.Err.Detail["message"], tt.wantDetail)
			}
		})
	}
}

func TestDoneRoundTrip(t *testing.T) {
	t.Parallel()

	blocks, rest := sse.Parse("event: done\ndata: {\"response\":\"X\"}\n\n" + "event: done\ndata: not-json\n\n")
	if rest != "" || len(blocks) != 2 {
		t.Fatalf("Parse = %#v, %q", blocks, rest)
	}

	first, _ := Decode(blocks[0])
	if first.Kind != EventDone || first.Response != "X" {
		t.Errorf("first = %+v, want Done{X}", first)
	}
	second, _ := Decode(blocks[1])
	if second.Kind != EventDone || second.Response != "not-json" {
		t.Errorf("second = %+v, want Done{not-json}", second)
	}
}
