// File: internal/flow/watcher.go
package flow

import (
	"sync"

	"gatherus_backend/internal/identity"
)

// SessionWatcher tracks the identity client's session state for one flow.
// It reports "initializing" until the first session notification arrives
// (including a no-session one) and relays every notification to its
// dependent. There is no retry: if notifications never arrive the watcher
// stays initializing.
type SessionWatcher struct {
	mu           sync.Mutex
	initializing bool
	session      *identity.Session
	onEmit       func(*identity.Session)
	unsubscribe  func()
}

// NewSessionWatcher creates a watcher that relays session emissions to onEmit.
func NewSessionWatcher(onEmit func(*identity.Session)) *SessionWatcher {
	return &SessionWatcher{
		initializing: true,
		onEmit:       onEmit,
	}
}

// Start registers with the identity client for session-change notifications.
// The client delivers the current state during registration, so initializing
// flips to false before Start returns.
func (w *SessionWatcher) Start(client *identity.Client) {
	w.unsubscribe = client.OnSessionChange(w.handle)
}

func (w *SessionWatcher) handle(session *identity.Session) {
	w.mu.Lock()
	w.session = session
	// Once false, initializing never returns to true.
	w.initializing = false
	w.mu.Unlock()

	if w.onEmit != nil {
		w.onEmit(session)
	}
}

// Initializing reports whether the first session notification is still pending.
func (w *SessionWatcher) Initializing() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.initializing
}

// Session returns the latest session, or nil when signed out.
func (w *SessionWatcher) Session() *identity.Session {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session
}

// Stop deregisters the notification handler. No emissions happen afterwards.
func (w *SessionWatcher) Stop() {
	if w.unsubscribe != nil {
		w.unsubscribe()
		w.unsubscribe = nil
	}
}
