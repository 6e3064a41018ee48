// ABOUTME: Callback set for a streaming call and panic-isolated invocation
// ABOUTME: A panicking callback is logged and never stops later dispatch

package betterprompt

import (
	bplog "github.com/mauromedda/betterprompt-go/internal/log"
)

// Callbacks receives the events of one streaming call. All fields are
// optional. Callbacks run synchronously on the session goroutine, in event
// order: OnConnected (at most once, before any chunk), OnChunk any number of
// times, then exactly one of OnDone or OnError, unless the call is cancelled,
// in which case neither fires.
//
// Cancel is best effort for OnConnected and OnChunk. The session checks the
// task state before each callback, so a Cancel from another goroutine can
// still let one callback that already passed that check run after Cancel
// returns. A Cancel made from inside a callback stops all later ones. OnDone
// and OnError never run once Cancel has returned.
type Callbacks struct {
	OnConnected func()
	OnChunk     func(text string)
	OnDone      func(response string)
	OnError     func(err *APIError)
}

// invoke runs fn and recovers a panic so dispatch can continue.
func invoke(sessionID, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			bplog.Warn("betterprompt: session %s: %s callback panicked: %v", sessionID, name, r)
		}
	}()
	fn()
}
