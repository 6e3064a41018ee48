// ABOUTME: Core value types: Request, Result, session State, and prompt schemas
// ABOUTME: Request is immutable once a call starts; State transitions are one-way

package betterprompt

import (
	"maps"
	"time"
)

// Request describes one invocation of a remotely defined prompt.
type Request struct {
	// Slug identifies the prompt on the platform.
	Slug string
	// ContextVariables are the named inputs of the prompt. Values must be
	// JSON-encodable scalars or strings.
	ContextVariables map[string]any
	// UserPrompt is optional free text appended by the platform.
	UserPrompt string
	// Timeout bounds the whole call; zero means no limit beyond the context.
	Timeout time.Duration
}

// clone returns a copy whose map is not shared with the caller.
func (r Request) clone() Request {
	r.ContextVariables = maps.Clone(r.ContextVariables)
	return r
}

// Result is the outcome of a completed call.
type Result struct {
	// Text is the full response. On failure it holds the chunks received so far.
	Text string
	// Implicit is true when the stream closed without a done event and Text
	// was assembled from the received chunks.
	Implicit bool
	// SessionID identifies the streaming session in logs.
	SessionID string
}

// State is the lifecycle state of a streaming session.
type State int32

const (
	StateIdle State = iota
	StateConnecting
	StateStreaming
	StateDone
	StateErrored
	StateCancelled
)

var stateNames = [...]string{
	StateIdle:       "idle",
	StateConnecting: "connecting",
	StateStreaming:  "streaming",
	StateDone:       "done",
	StateErrored:    "errored",
	StateCancelled:  "cancelled",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Terminal reports whether no further transition can leave s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateErrored || s == StateCancelled
}

// Variable is one context variable a prompt accepts.
type Variable struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// PromptSchema describes a prompt published by the platform.
type PromptSchema struct {
	Slug                     string     `json:"slug"`
	Name                     string     `json:"name"`
	Description              string     `json:"description,omitempty"`
	RequiredContextVariables []Variable `json:"required_context_variables"`
	OptionalContextVariables []Variable `json:"optional_context_variables"`
}

// Validate reports the required variables missing from vars.
func (p PromptSchema) Validate(vars map[string]any) error {
	var missing []string
	for _, v := range p.RequiredContextVariables {
		if _, ok := vars[v.Name]; !ok {
			missing = append(missing, v.Name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Slug: p.Slug, Missing: missing}
	}
	return nil
}
