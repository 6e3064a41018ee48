// ABOUTME: Task is the cancellable, awaitable handle of one streaming session
// ABOUTME: State moves by CAS into a terminal sink; the result is published once

package betterprompt

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
)

// Task represents an in-flight streaming call. It is safe for concurrent use.
type Task struct {
	id     string
	state  atomic.Int32
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once

	textMu sync.Mutex
	text   strings.Builder

	// Written once inside once.Do before done is closed.
	result Result
	err    error
}

func newTask(id string, cancel context.CancelFunc) *Task {
	return &Task{
		id:     id,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// ID returns the session identifier used in logs.
func (t *Task) ID() string {
	return t.id
}

// State returns the current session state.
func (t *Task) State() State {
	return State(t.state.Load())
}

// Done returns a channel that is closed once the task reaches a terminal state.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Text returns the chunk text received so far.
func (t *Task) Text() string {
	t.textMu.Lock()
	defer t.textMu.Unlock()
	return t.text.String()
}

func (t *Task) appendText(s string) {
	t.textMu.Lock()
	t.text.WriteString(s)
	t.textMu.Unlock()
}

// Wait blocks until the task finishes or ctx is done. It returns the full
// response on success, a *APIError on failure (with the partial text in
// Result.Text), or an error matching ErrCancelled after cancellation.
func (t *Task) Wait(ctx context.Context) (Result, error) {
	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		return Result{SessionID: t.id}, ctx.Err()
	}
}

// Cancel aborts the underlying request. At most one OnConnected or OnChunk
// callback already being dispatched may still run; see Callbacks. Cancelling
// a finished task is a no-op.
func (t *Task) Cancel() {
	t.cancelWith(nil)
}

// cancelWith cancels the task and records why. A nil cause reads as a
// plain cancel.
func (t *Task) cancelWith(cause error) {
	if !t.terminate(StateCancelled) {
		return
	}
	t.cancel()
	t.resolve(Result{SessionID: t.id}, cancelled(cause))
}

// advance moves from one non-terminal state to another.
func (t *Task) advance(from, to State) bool {
	return t.state.CompareAndSwap(int32(from), int32(to))
}

// terminate moves into the terminal state to. It fails if the task is
// already terminal, which makes every terminal dispatch at-most-once.
func (t *Task) terminate(to State) bool {
	for {
		cur := t.State()
		if cur.Terminal() {
			return false
		}
		if t.state.CompareAndSwap(int32(cur), int32(to)) {
			return true
		}
	}
}

// resolve publishes the outcome and releases waiters.
func (t *Task) resolve(res Result, err error) {
	t.once.Do(func() {
		res.SessionID = t.id
		t.result = res
		t.err = err
		close(t.done)
	})
}
