// File: internal/flow/flow_test.go
package flow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gatherus_backend/internal/config"
	"gatherus_backend/internal/identity"
	"gatherus_backend/internal/metrics"
	"gatherus_backend/internal/profile"
)

// stubStore implements profile.Store with hand-driven snapshot delivery keyed
// by user id.
type stubStore struct {
	mu      sync.Mutex
	onNext  map[string]func(map[string]interface{}, bool)
	onError map[string]func(error)
	updates int
}

func newStubStore() *stubStore {
	return &stubStore{
		onNext:  make(map[string]func(map[string]interface{}, bool)),
		onError: make(map[string]func(error)),
	}
}

func (s *stubStore) Get(context.Context, string, string) (map[string]interface{}, error) {
	return nil, errors.New("not found")
}

func (s *stubStore) Set(context.Context, string, string, map[string]interface{}) error {
	return nil
}

func (s *stubStore) Update(_ context.Context, _, _ string, _ map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates++
	return nil
}

func (s *stubStore) Snapshots(_ context.Context, _, id string, onNext func(map[string]interface{}, bool), onError func(error)) func() {
	s.mu.Lock()
	s.onNext[id] = onNext
	s.onError[id] = onError
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.onNext, id)
		delete(s.onError, id)
		s.mu.Unlock()
	}
}

func (s *stubStore) ServerTimestamp() interface{} { return time.Now() }

func (s *stubStore) emit(userID string, doc map[string]interface{}) {
	s.mu.Lock()
	onNext := s.onNext[userID]
	s.mu.Unlock()
	if onNext != nil {
		onNext(doc, true)
	}
}

func (s *stubStore) emitMissing(userID string) {
	s.mu.Lock()
	onNext := s.onNext[userID]
	s.mu.Unlock()
	if onNext != nil {
		onNext(nil, false)
	}
}

func (s *stubStore) emitError(userID string, err error) {
	s.mu.Lock()
	onError := s.onError[userID]
	s.mu.Unlock()
	if onError != nil {
		onError(err)
	}
}

func (s *stubStore) subscribed(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.onNext[userID] != nil
}

func newTestManager() (*Manager, *stubStore) {
	store := newStubStore()
	cfg := &config.Config{UsersCollection: "users"}
	profiles := profile.NewService(cfg, store, metrics.NewCollector(), zap.NewNop())
	return NewManager(profiles, metrics.NewCollector(), zap.NewNop()), store
}

func onboardedDoc() map[string]interface{} {
	return map[string]interface{}{
		"displayName":            "Ada",
		"hasCompletedOnboarding": true,
		"location": map[string]interface{}{
			"cityId":   "seattle",
			"cityName": "Seattle",
		},
	}
}

func TestFlowStartsOnWelcome(t *testing.T) {
	m, _ := newTestManager()
	f := m.Create()
	defer m.Remove(f.ID())

	// The identity client reports "no session" synchronously, so a fresh flow
	// is never stuck on loading.
	assert.Equal(t, StateUnauthenticated, f.SessionState())
	assert.Equal(t, RouteWelcome, f.Route())
	assert.Nil(t, f.Session())
	assert.Nil(t, f.Picker())
}

func TestFlowSignInRoutesHomeWhenOnboarded(t *testing.T) {
	m, store := newTestManager()
	f := m.Create()
	defer m.Remove(f.ID())

	f.Client().Establish(&identity.Account{UID: "uid-1", Email: "ada@example.com"})
	assert.Equal(t, StateAuthenticated, f.SessionState())
	assert.Equal(t, RouteLoading, f.Route())
	require.NotNil(t, f.Picker())

	store.emit("uid-1", onboardedDoc())
	assert.Equal(t, RouteHome, f.Route())

	p := f.Profile()
	require.NotNil(t, p)
	assert.Equal(t, "Ada", p.DisplayName)
}

func TestFlowInitialRouteDecidedOnce(t *testing.T) {
	m, store := newTestManager()
	f := m.Create()
	defer m.Remove(f.ID())

	f.Client().Establish(&identity.Account{UID: "uid-1"})

	// First snapshot: no saved location, so onboarding is needed.
	store.emit("uid-1", map[string]interface{}{"hasCompletedOnboarding": false})
	assert.Equal(t, RouteLocationPicker, f.Route())

	// A later snapshot completing onboarding refreshes the profile but does
	// not re-route; only explicit navigation moves the client.
	store.emit("uid-1", onboardedDoc())
	assert.Equal(t, RouteLocationPicker, f.Route())
	require.NotNil(t, f.Profile())
	assert.True(t, f.Profile().HasCompletedOnboarding)

	f.NavigateHome()
	assert.Equal(t, RouteHome, f.Route())
}

func TestFlowNavigate(t *testing.T) {
	m, store := newTestManager()
	f := m.Create()
	defer m.Remove(f.ID())

	// Navigation needs an authenticated, loaded flow.
	err := f.Navigate(RouteHome)
	require.Error(t, err)

	err = f.Navigate(RouteWelcome)
	require.Error(t, err)

	f.Client().Establish(&identity.Account{UID: "uid-1"})
	err = f.Navigate(RouteHome)
	require.Error(t, err)

	store.emit("uid-1", onboardedDoc())
	require.NoError(t, f.Navigate(RouteLocationPicker))
	assert.Equal(t, RouteLocationPicker, f.Route())

	require.NoError(t, f.Navigate(RouteHome))
	assert.Equal(t, RouteHome, f.Route())
}

func TestFlowSignOutTearsDownAuthenticatedStack(t *testing.T) {
	m, store := newTestManager()
	f := m.Create()
	defer m.Remove(f.ID())

	f.Client().Establish(&identity.Account{UID: "uid-1"})
	store.emit("uid-1", onboardedDoc())
	require.Equal(t, RouteHome, f.Route())
	require.True(t, store.subscribed("uid-1"))

	f.Client().SignOut()
	assert.Equal(t, StateUnauthenticated, f.SessionState())
	assert.Equal(t, RouteWelcome, f.Route())
	assert.Nil(t, f.Picker())
	assert.Nil(t, f.Profile())
	assert.False(t, store.subscribed("uid-1"))
}

func TestFlowMissingProfileRoutesToOnboarding(t *testing.T) {
	m, store := newTestManager()
	f := m.Create()
	defer m.Remove(f.ID())

	f.Client().Establish(&identity.Account{UID: "uid-1"})
	require.Equal(t, RouteLoading, f.Route())

	// An account with no profile document (an interrupted sign-up signing in
	// later) resolves to the picker instead of staying on loading forever.
	store.emitMissing("uid-1")
	assert.Equal(t, RouteLocationPicker, f.Route())
	assert.Nil(t, f.Profile())

	// No migration write is issued for the absent document.
	store.mu.Lock()
	assert.Equal(t, 0, store.updates)
	store.mu.Unlock()

	require.NoError(t, f.Navigate(RouteHome))
	assert.Equal(t, RouteHome, f.Route())
}

func TestFlowProfileSubscriptionError(t *testing.T) {
	m, store := newTestManager()
	f := m.Create()
	defer m.Remove(f.ID())

	f.Client().Establish(&identity.Account{UID: "uid-1"})
	require.Equal(t, RouteLoading, f.Route())

	// A failed subscription resolves loading toward onboarding rather than
	// leaving the client stuck.
	store.emitError("uid-1", errors.New("permission denied"))
	assert.Equal(t, RouteLocationPicker, f.Route())
	assert.Nil(t, f.Profile())
}

func TestFlowSessionUserID(t *testing.T) {
	m, _ := newTestManager()
	f := m.Create()
	defer m.Remove(f.ID())

	_, ok := f.SessionUserID()
	assert.False(t, ok)

	f.Client().Establish(&identity.Account{UID: "uid-1"})
	id, ok := f.SessionUserID()
	require.True(t, ok)
	assert.Equal(t, "uid-1", id)
}

func TestOnboardingRouterStartAfterStopIsInert(t *testing.T) {
	store := newStubStore()
	cfg := &config.Config{UsersCollection: "users"}
	profiles := profile.NewService(cfg, store, metrics.NewCollector(), zap.NewNop())

	// Stop winning the race against Start must leave no live subscription
	// behind.
	r := NewOnboardingRouter(profiles, "uid-1", zap.NewNop())
	r.Stop()
	r.Start()
	assert.False(t, store.subscribed("uid-1"))

	// The ordinary lifecycle still subscribes and tears down.
	r2 := NewOnboardingRouter(profiles, "uid-1", zap.NewNop())
	r2.Start()
	assert.True(t, store.subscribed("uid-1"))
	r2.Stop()
	assert.False(t, store.subscribed("uid-1"))
	r2.Stop()
}

func TestManagerLifecycle(t *testing.T) {
	m, _ := newTestManager()

	f := m.Create()
	assert.Equal(t, 1, m.Len())

	got, ok := m.Get(f.ID())
	require.True(t, ok)
	assert.Equal(t, f.ID(), got.ID())

	_, ok = m.Get("missing")
	assert.False(t, ok)

	assert.True(t, m.Remove(f.ID()))
	assert.False(t, m.Remove(f.ID()))
	assert.Equal(t, 0, m.Len())
}

func TestManagerRemoveClosesSubscriptions(t *testing.T) {
	m, store := newTestManager()
	f := m.Create()

	f.Client().Establish(&identity.Account{UID: "uid-1"})
	require.True(t, store.subscribed("uid-1"))

	m.Remove(f.ID())
	assert.False(t, store.subscribed("uid-1"))
}

func TestManagerSweepIdle(t *testing.T) {
	m, _ := newTestManager()
	m.Create()
	m.Create()

	assert.Equal(t, 0, m.SweepIdle(time.Hour))
	assert.Equal(t, 2, m.Len())

	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 2, m.SweepIdle(time.Millisecond))
	assert.Equal(t, 0, m.Len())
}

func TestLocationFlowsAdapter(t *testing.T) {
	m, _ := newTestManager()
	f := m.Create()
	defer m.Remove(f.ID())

	resolver := NewLocationFlows(m)

	got, ok := resolver.Flow(f.ID())
	require.True(t, ok)
	_, authed := got.SessionUserID()
	assert.False(t, authed)

	_, ok = resolver.Flow("missing")
	assert.False(t, ok)
}
