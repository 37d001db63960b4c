// File: internal/flow/flow.go
package flow

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"gatherus_backend/internal/common"
	"gatherus_backend/internal/identity"
	"gatherus_backend/internal/location"
	"gatherus_backend/internal/profile"
)

// Flow is one connected client's live state: its identity session, the
// session watcher and router, and, while authenticated, the onboarding
// router and location picker. A flow owns its subscriptions and tears them
// down on Close.
type Flow struct {
	id       string
	logger   *zap.Logger
	profiles *profile.Service

	client  *identity.Client
	watcher *SessionWatcher
	router  *SessionRouter

	mu         sync.Mutex
	onboarding *OnboardingRouter
	picker     *location.Picker
	nav        Route
	navSeeded  bool
	lastActive time.Time
	closed     bool
}

func newFlow(id string, profiles *profile.Service, logger *zap.Logger) *Flow {
	f := &Flow{
		id:         id,
		logger:     logger.Named("Flow").With(zap.String("flowID", id)),
		profiles:   profiles,
		client:     identity.NewClient(),
		lastActive: time.Now(),
	}

	f.router = NewSessionRouter(f.enterAuthenticated, f.leaveAuthenticated)
	f.watcher = NewSessionWatcher(f.router.Apply)
	f.watcher.Start(f.client)

	return f
}

// enterAuthenticated activates the authenticated stack for the session's user.
func (f *Flow) enterAuthenticated(session *identity.Session) {
	onboarding := NewOnboardingRouter(f.profiles, session.UserID, f.logger)
	picker := location.NewPicker(f.profiles, f.logger)

	f.mu.Lock()
	f.onboarding = onboarding
	f.picker = picker
	f.nav = ""
	f.navSeeded = false
	f.mu.Unlock()

	onboarding.Start()
}

// leaveAuthenticated tears the authenticated stack down.
func (f *Flow) leaveAuthenticated() {
	f.mu.Lock()
	onboarding := f.onboarding
	f.onboarding = nil
	f.picker = nil
	f.nav = ""
	f.navSeeded = false
	f.mu.Unlock()

	if onboarding != nil {
		onboarding.Stop()
	}
}

// ID returns the flow's identifier.
func (f *Flow) ID() string {
	return f.id
}

// Client returns the flow's identity client.
func (f *Flow) Client() *identity.Client {
	return f.client
}

// Session returns the current session, or nil.
func (f *Flow) Session() *identity.Session {
	return f.watcher.Session()
}

// SessionState returns the session router's state.
func (f *Flow) SessionState() SessionState {
	return f.router.State()
}

// Route computes the screen the client is on. While authenticated, the first
// call after the onboarding router resolves seeds the navigation stack with
// its initial route; afterwards only explicit navigation changes it.
func (f *Flow) Route() Route {
	if f.watcher.Initializing() {
		return RouteLoading
	}
	if f.watcher.Session() == nil {
		return RouteWelcome
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.onboarding == nil || f.onboarding.Loading() {
		return RouteLoading
	}
	if !f.navSeeded {
		f.navSeeded = true
		f.nav = f.onboarding.InitialRoute()
	}
	return f.nav
}

// Navigate moves between the authenticated screens (home and location
// picker). It fails while unauthenticated or before the initial route is
// seeded.
func (f *Flow) Navigate(target Route) error {
	if target != RouteHome && target != RouteLocationPicker {
		return common.ErrBadRequest.WithDetails("Cannot navigate to route: " + string(target))
	}
	if f.Route() == RouteLoading || f.watcher.Session() == nil {
		return common.ErrConflict.WithDetails("Navigation is only available once signed in and loaded.")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.nav = target
	return nil
}

// NavigateHome advances to the home screen after a successful location save.
func (f *Flow) NavigateHome() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.navSeeded {
		f.nav = RouteHome
	}
}

// Picker returns the location picker, or nil while unauthenticated.
func (f *Flow) Picker() *location.Picker {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.picker
}

// SessionUserID returns the authenticated user's id.
func (f *Flow) SessionUserID() (string, bool) {
	s := f.watcher.Session()
	if s == nil {
		return "", false
	}
	return s.UserID, true
}

// Profile returns the latest profile snapshot, or nil.
func (f *Flow) Profile() *profile.Profile {
	f.mu.Lock()
	onboarding := f.onboarding
	f.mu.Unlock()

	if onboarding == nil {
		return nil
	}
	return onboarding.Profile()
}

// Touch records client activity for idle eviction.
func (f *Flow) Touch() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastActive = time.Now()
}

// IdleSince returns the time of the last client activity.
func (f *Flow) IdleSince() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastActive
}

// Close tears down all subscriptions. The flow must not be used afterwards.
func (f *Flow) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	f.mu.Unlock()

	f.watcher.Stop()
	f.leaveAuthenticated()
}
