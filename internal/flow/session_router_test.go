// File: internal/flow/session_router_test.go
package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatherus_backend/internal/identity"
)

func TestSessionRouterTransitions(t *testing.T) {
	var activated []*identity.Session
	deactivations := 0

	r := NewSessionRouter(
		func(s *identity.Session) { activated = append(activated, s) },
		func() { deactivations++ },
	)
	require.Equal(t, StateLoading, r.State())

	// First emission with no session: unauthenticated, nothing to tear down.
	r.Apply(nil)
	assert.Equal(t, StateUnauthenticated, r.State())
	assert.Empty(t, activated)
	assert.Equal(t, 0, deactivations)

	// Repeated no-session emissions are no-ops.
	r.Apply(nil)
	assert.Equal(t, 0, deactivations)

	// Sign-in activates the authenticated stack.
	session := &identity.Session{UserID: "uid-1"}
	r.Apply(session)
	assert.Equal(t, StateAuthenticated, r.State())
	require.Len(t, activated, 1)
	assert.Equal(t, "uid-1", activated[0].UserID)

	// Sign-out tears it down.
	r.Apply(nil)
	assert.Equal(t, StateUnauthenticated, r.State())
	assert.Equal(t, 1, deactivations)
}

func TestSessionRouterReauthenticationReactivates(t *testing.T) {
	var activated []*identity.Session
	deactivations := 0

	r := NewSessionRouter(
		func(s *identity.Session) { activated = append(activated, s) },
		func() { deactivations++ },
	)

	r.Apply(&identity.Session{UserID: "uid-1"})
	require.Len(t, activated, 1)

	// A replacement session while already authenticated cycles the stack.
	r.Apply(&identity.Session{UserID: "uid-2"})
	assert.Equal(t, StateAuthenticated, r.State())
	require.Len(t, activated, 2)
	assert.Equal(t, "uid-2", activated[1].UserID)
	assert.Equal(t, 1, deactivations)
}

func TestSessionWatcher(t *testing.T) {
	var emitted []*identity.Session
	w := NewSessionWatcher(func(s *identity.Session) { emitted = append(emitted, s) })
	assert.True(t, w.Initializing())

	client := identity.NewClient()
	w.Start(client)

	// The client's registration delivery resolves initialization synchronously.
	assert.False(t, w.Initializing())
	assert.Nil(t, w.Session())
	require.Len(t, emitted, 1)

	client.Establish(&identity.Account{UID: "uid-1", Email: "ada@example.com"})
	require.NotNil(t, w.Session())
	assert.Equal(t, "uid-1", w.Session().UserID)
	require.Len(t, emitted, 2)

	w.Stop()
	client.SignOut()
	assert.Len(t, emitted, 2)
	// The watcher keeps its last observed session after Stop.
	assert.Equal(t, "uid-1", w.Session().UserID)
}
