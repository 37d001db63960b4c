// File: internal/identity/client.go
package identity

import "sync"

// Client holds the authenticated session for a single connected client and
// fans session-change notifications out to subscribers. It mirrors the auth
// SDK's client-side surface: current session, sign-out, and a change
// subscription that delivers the current state on registration.
type Client struct {
	mu       sync.Mutex
	session  *Session
	nextID   int
	handlers map[int]func(*Session)
}

// NewClient creates a client with no session.
func NewClient() *Client {
	return &Client{handlers: make(map[int]func(*Session))}
}

// CurrentSession returns the active session, or nil when signed out.
func (c *Client) CurrentSession() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// OnSessionChange registers a session-change handler and returns its
// unsubscribe function. The current state (possibly nil) is delivered to the
// handler during registration, so subscribers always receive a first
// notification. After unsubscribe returns, the handler is never invoked again.
func (c *Client) OnSessionChange(handler func(*Session)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.handlers[id] = handler
	current := c.session
	c.mu.Unlock()

	handler(current)

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.handlers, id)
	}
}

// Establish replaces the session after a successful sign-in or sign-up and
// notifies subscribers.
func (c *Client) Establish(account *Account) {
	c.set(SessionFromAccount(account))
}

// SignOut clears the session and notifies subscribers.
func (c *Client) SignOut() {
	c.set(nil)
}

func (c *Client) set(session *Session) {
	c.mu.Lock()
	c.session = session
	ids := make([]int, 0, len(c.handlers))
	for id := range c.handlers {
		ids = append(ids, id)
	}
	c.mu.Unlock()

	// Re-check membership per handler so an unsubscribe that raced this
	// notification wins.
	for _, id := range ids {
		c.mu.Lock()
		h, ok := c.handlers[id]
		c.mu.Unlock()
		if ok {
			h(session)
		}
	}
}
