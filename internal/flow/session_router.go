// File: internal/flow/session_router.go
package flow

import (
	"sync"

	"gatherus_backend/internal/identity"
)

// SessionRouter is the top-level routing state machine: LOADING until the
// session watcher's first emission, then UNAUTHENTICATED or AUTHENTICATED
// depending on session presence. Later emissions toggle between the two
// authenticated states; the router never returns to LOADING.
//
// Entering AUTHENTICATED activates the authenticated stack (onboarding
// router); entering UNAUTHENTICATED tears it down. The callbacks are invoked
// outside the router's lock.
type SessionRouter struct {
	mu    sync.Mutex
	state SessionState

	onAuthenticated   func(*identity.Session)
	onUnauthenticated func()
}

// NewSessionRouter creates a router in the LOADING state.
func NewSessionRouter(onAuthenticated func(*identity.Session), onUnauthenticated func()) *SessionRouter {
	return &SessionRouter{
		state:             StateLoading,
		onAuthenticated:   onAuthenticated,
		onUnauthenticated: onUnauthenticated,
	}
}

// Apply feeds a session watcher emission into the state machine.
func (r *SessionRouter) Apply(session *identity.Session) {
	r.mu.Lock()
	prev := r.state
	next := StateUnauthenticated
	if session != nil {
		next = StateAuthenticated
	}
	r.state = next
	sameUser := prev == StateAuthenticated && next == StateAuthenticated
	r.mu.Unlock()

	if prev == next && next != StateAuthenticated {
		return
	}
	if sameUser {
		// Session replaced wholesale for the same state: reactivate the
		// authenticated stack against the new session.
		r.onUnauthenticated()
		r.onAuthenticated(session)
		return
	}

	switch next {
	case StateAuthenticated:
		r.onAuthenticated(session)
	case StateUnauthenticated:
		if prev == StateAuthenticated {
			r.onUnauthenticated()
		}
	}
}

// State returns the router's current state.
func (r *SessionRouter) State() SessionState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}
