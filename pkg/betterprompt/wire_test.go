// ABOUTME: Tests for the easyjson wire payloads
// ABOUTME: Checks request body shape and envelope decoding edge cases

package betterprompt

import (
	"encoding/json"
	"testing"

	"github.com/mailru/easyjson"
)

func TestEncodeBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  Request
		want string
	}{
		{
			name: "no variables",
			req:  Request{Slug: "s"},
			want: `{"context_variables":{}}`,
		},
		{
			name: "variables and prompt",
			req: Request{
				Slug:             "s",
				ContextVariables: map[string]any{"topic": "go", "count": 3},
				UserPrompt:       "be \"brief\"",
			},
			want: `{"context_variables":{"count":3,"topic":"go"},"user_prompt":"be \"brief\""}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := encodeBody(tt.req)
			if err != nil {
				t.Fatalf("encodeBody error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("encodeBody = %s, want %s", got, tt.want)
			}
			if !json.Valid(got) {
				t.Errorf("encodeBody produced invalid JSON: %s", got)
			}
		})
	}
}

func TestEncodeBodyRejectsUnencodable(t *testing.T) {
	t.Parallel()

	_, err := encodeBody(Request{Slug: "s", ContextVariables: map[string]any{"ch": make(chan int)}})
	if err == nil {
		t.Fatal("expected error for channel value")
	}
}

func TestDecodeEnvelope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		data     string
		wantResp string
		wantHas  bool
		wantErr  bool
	}{
		{`{"response":"hi"}`, "hi", true, false},
		{`{"response":"a\nb é"}`, "a\nb é", true, false},
		{`{"other":[1,{"x":2}],"response":"z"}`, "z", true, false},
		{`{"response":null}`, "", false, false},
		{`{}`, "", false, false},
		{`null`, "", false, false},
		{`[1,2]`, "", false, true},
		{`{"response":`, "", false, true},
	}

	for _, tt := range tests {
		env, err := decodeEnvelope([]byte(tt.data))
		if (err != nil) != tt.wantErr {
			t.Errorf("decodeEnvelope(%s) err = %v, wantErr %v", tt.data, err, tt.wantErr)
			continue
		}
		resp, has := env.text()
		if resp != tt.wantResp || has != tt.wantHas {
			t.Errorf("decodeEnvelope(%s) = %q/%v, want %q/%v", tt.data, resp, has, tt.wantResp, tt.wantHas)
		}
	}
}

func TestRequestBodyDecodes(t *testing.T) {
	t.Parallel()

	data, err := encodeBody(Request{
		Slug:             "s",
		ContextVariables: map[string]any{"nested": map[string]any{"a": []any{1, "b"}}},
		UserPrompt:       "line1\nline2",
	})
	if err != nil {
		t.Fatalf("encodeBody error: %v", err)
	}

	var body requestBody
	if err := easyjson.Unmarshal(data, &body); err != nil {
		t.Fatalf("Unmarshal(%s): %v", data, err)
	}
	if body.UserPrompt != "line1\nline2" {
		t.Errorf("UserPrompt = %q", body.UserPrompt)
	}
	if got := string(body.ContextVariables); got != `{"nested":{"a":[1,"b"]}}` {
		t.Errorf("ContextVariables = %s", got)
	}

	// encoding/json goes through the generated MarshalJSON.
	std, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	if string(std) != string(data) {
		t.Errorf("json.Marshal = %s, want %s", std, data)
	}
}
