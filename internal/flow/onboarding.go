// File: internal/flow/onboarding.go
package flow

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"gatherus_backend/internal/profile"
)

// OnboardingRouter watches the authenticated user's profile and decides the
// initial screen of the authenticated stack: location picker when onboarding
// is still needed, home otherwise.
//
// The decision is a stack seed, fixed at the moment the first snapshot
// resolves loading. Later snapshots refresh the cached profile but do not
// re-route the user; explicit navigation is the only way to move between the
// authenticated screens afterwards.
type OnboardingRouter struct {
	profiles *profile.Service
	userID   string
	logger   *zap.Logger

	mu           sync.Mutex
	loading      bool
	current      *profile.Profile
	initialRoute Route
	routeDecided bool
	stopped      bool
	stop         func()
}

// NewOnboardingRouter creates a router for the given user's profile.
func NewOnboardingRouter(profiles *profile.Service, userID string, logger *zap.Logger) *OnboardingRouter {
	return &OnboardingRouter{
		profiles: profiles,
		userID:   userID,
		logger:   logger.Named("OnboardingRouter"),
		loading:  true,
	}
}

// Start opens the profile subscription. A router that was already stopped
// stays inert: Start must not revive a torn-down router, even when the two
// calls race on concurrent sign-in and sign-out.
func (r *OnboardingRouter) Start() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	stop := r.profiles.Subscribe(context.Background(), r.userID, r.onSnapshot, r.onError)

	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		stop()
		return
	}
	r.stop = stop
	r.mu.Unlock()
}

func (r *OnboardingRouter) onSnapshot(p *profile.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = p
	if !r.routeDecided {
		r.routeDecided = true
		r.loading = false
		if profile.NeedsOnboarding(p) {
			r.initialRoute = RouteLocationPicker
		} else {
			r.initialRoute = RouteHome
		}
		r.logger.Debug("Initial route decided",
			zap.String("userID", r.userID),
			zap.String("route", string(r.initialRoute)),
		)
	}
}

func (r *OnboardingRouter) onError(err error) {
	r.logger.Error("Error fetching user profile", zap.Error(err), zap.String("userID", r.userID))

	r.mu.Lock()
	defer r.mu.Unlock()
	// A failed subscription leaves no profile, which counts as needing
	// onboarding; the flow is no longer stuck on loading.
	if !r.routeDecided {
		r.routeDecided = true
		r.loading = false
		r.initialRoute = RouteLocationPicker
	}
}

// Loading reports whether the first snapshot is still pending.
func (r *OnboardingRouter) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}

// Profile returns the latest profile snapshot, or nil before the first one.
func (r *OnboardingRouter) Profile() *profile.Profile {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// InitialRoute returns the seeded route. Only meaningful once Loading is false.
func (r *OnboardingRouter) InitialRoute() Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.initialRoute
}

// Stop cancels the profile subscription; no callbacks fire afterwards and a
// later Start is a no-op.
func (r *OnboardingRouter) Stop() {
	r.mu.Lock()
	r.stopped = true
	stop := r.stop
	r.stop = nil
	r.mu.Unlock()

	if stop != nil {
		stop()
	}
}
