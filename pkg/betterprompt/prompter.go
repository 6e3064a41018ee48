// ABOUTME: Prompter is the call surface shared by the live client and the stub
// ABOUTME: Generated wrappers and the CLI depend on this interface only

package betterprompt

import "context"

// Prompter runs prompts. *Client talks to a platform; stub.Client replays
// canned responses through the same streaming code.
type Prompter interface {
	Invoke(ctx context.Context, req Request, opts ...CallOption) (string, error)
	Stream(ctx context.Context, req Request, cb Callbacks, opts ...CallOption) *Task
	Schemas(ctx context.Context) ([]PromptSchema, error)
}
