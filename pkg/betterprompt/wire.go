// ABOUTME: Wire payloads: the invoke/stream request body and {"response": ...} envelopes
// ABOUTME: Separated for easyjson codegen; context variables are pre-encoded with encoding/json

//go:generate easyjson -all wire.go

package betterprompt

import (
	"encoding/json"
	"fmt"

	"github.com/mailru/easyjson"
)

// requestBody is the JSON body of invoke and stream calls.
type requestBody struct {
	ContextVariables easyjson.RawMessage `json:"context_variables"`
	UserPrompt       string              `json:"user_prompt,omitempty"`
}

// responseEnvelope is an object carrying a "response" string, as sent by the
// invoke endpoint and by done events. A missing or null response leaves
// Response nil.
type responseEnvelope struct {
	Response *string `json:"response"`
}

// text returns the response and whether the envelope carried one.
func (e responseEnvelope) text() (string, bool) {
	if e.Response == nil {
		return "", false
	}
	return *e.Response, true
}

// encodeBody renders the request body for req. Context variables are free
// form, so they go through encoding/json; an empty map is sent as {}.
func encodeBody(req Request) ([]byte, error) {
	vars := easyjson.RawMessage("{}")
	if len(req.ContextVariables) > 0 {
		data, err := json.Marshal(req.ContextVariables)
		if err != nil {
			return nil, fmt.Errorf("encoding context variables: %w", err)
		}
		vars = data
	}
	return easyjson.Marshal(requestBody{ContextVariables: vars, UserPrompt: req.UserPrompt})
}

// decodeEnvelope parses data as a response envelope.
func decodeEnvelope(data []byte) (responseEnvelope, error) {
	var env responseEnvelope
	if err := easyjson.Unmarshal(data, &env); err != nil {
		return responseEnvelope{}, err
	}
	return env, nil
}
