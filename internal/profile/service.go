// File: internal/profile/service.go
package profile

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"gatherus_backend/internal/city"
	"gatherus_backend/internal/config"
	"gatherus_backend/internal/metrics"
)

// Service is the profile store adapter: it owns every read and write path for
// the per-user profile document and performs the one-time onboarding-flag
// migration on subscribed reads.
type Service struct {
	store      Store
	collection string
	logger     *zap.Logger
	metrics    *metrics.Collector
}

// NewService creates the profile service.
func NewService(cfg *config.Config, store Store, collector *metrics.Collector, logger *zap.Logger) *Service {
	return &Service{
		store:      store,
		collection: cfg.UsersCollection,
		logger:     logger.Named("ProfileService"),
		metrics:    collector,
	}
}

// CreateProfile writes the initial profile record for a freshly signed-up
// user: server-assigned creation and last-login timestamps, onboarding not
// completed, no location. The write is a single atomic document set.
func (s *Service) CreateProfile(ctx context.Context, userID, displayName, email string) error {
	fields := map[string]interface{}{
		fieldDisplayName:    displayName,
		fieldEmail:          email,
		fieldCreatedAt:      s.store.ServerTimestamp(),
		fieldLastLoginAt:    s.store.ServerTimestamp(),
		fieldOnboardingDone: false,
	}

	if err := s.store.Set(ctx, s.collection, userID, fields); err != nil {
		s.logger.Error("Failed to create profile document", zap.Error(err), zap.String("userID", userID))
		return fmt.Errorf("failed to create profile: %w", err)
	}

	s.logger.Info("Profile created", zap.String("userID", userID))
	return nil
}

// TouchLastLogin advances lastLoginAt to server time. Callers treat failures
// as non-fatal; the failure is still logged and counted here.
func (s *Service) TouchLastLogin(ctx context.Context, userID string) error {
	fields := map[string]interface{}{
		fieldLastLoginAt: s.store.ServerTimestamp(),
	}

	if err := s.store.Update(ctx, s.collection, userID, fields); err != nil {
		s.logger.Error("Failed to update last login time", zap.Error(err), zap.String("userID", userID))
		s.metrics.RecordLastLoginTouchFailure()
		return err
	}
	return nil
}

// SaveLocation persists the chosen city (savedAt = server time) and marks
// onboarding complete in a single merge write. Calling it again with the same
// city converges to the same stored state.
func (s *Service) SaveLocation(ctx context.Context, userID string, c city.City) error {
	fields := map[string]interface{}{
		fieldLocation: map[string]interface{}{
			fieldCityID:    c.ID,
			fieldCityName:  c.Name,
			fieldState:     c.State,
			fieldCountry:   c.Country,
			fieldLatitude:  c.Latitude,
			fieldLongitude: c.Longitude,
			fieldSavedAt:   s.store.ServerTimestamp(),
		},
		fieldOnboardingDone: true,
	}

	if err := s.store.Update(ctx, s.collection, userID, fields); err != nil {
		s.logger.Error("Failed to save location", zap.Error(err), zap.String("userID", userID), zap.String("cityID", c.ID))
		s.metrics.RecordLocationSave("failure")
		return fmt.Errorf("failed to save location: %w", err)
	}

	s.metrics.RecordLocationSave("success")
	s.logger.Info("Location saved", zap.String("userID", userID), zap.String("cityID", c.ID))
	return nil
}

// Subscribe opens a live subscription on the user's profile document. Every
// snapshot is decoded and delivered through onChange; subscription errors and
// migration write failures go to onError. The returned stop function cancels
// the subscription, after which neither callback fires again.
//
// A missing document is delivered as a nil profile so subscribers can resolve
// their loading state; no migration write is issued for a document that does
// not exist.
//
// Legacy records missing hasCompletedOnboarding are migrated on read: one
// best-effort merge write per such snapshot sets the field to false, and the
// emitted profile carries the patched value immediately, without waiting for
// the write to round-trip. The migration is fire-and-forget, not
// transactional: a failed write is reported but the patched value stands.
func (s *Service) Subscribe(ctx context.Context, userID string, onChange func(*Profile), onError func(error)) func() {
	var mu sync.Mutex
	stopped := false

	emitChange := func(p *Profile) {
		mu.Lock()
		live := !stopped
		mu.Unlock()
		if live {
			onChange(p)
		}
	}
	emitError := func(err error) {
		mu.Lock()
		live := !stopped
		mu.Unlock()
		if live {
			onError(err)
		}
	}

	onNext := func(doc map[string]interface{}, exists bool) {
		if !exists {
			emitChange(nil)
			return
		}

		p, hasFlag := fromDoc(doc)
		if !hasFlag {
			p.HasCompletedOnboarding = false
			s.logger.Info("Migrating user profile: adding hasCompletedOnboarding field", zap.String("userID", userID))
			s.metrics.RecordMigrationPatch()
			go func() {
				patch := map[string]interface{}{fieldOnboardingDone: false}
				if err := s.store.Update(context.Background(), s.collection, userID, patch); err != nil {
					s.logger.Error("Profile migration write failed", zap.Error(err), zap.String("userID", userID))
					s.metrics.RecordMigrationPatchFailure()
					emitError(err)
				}
			}()
		}
		emitChange(p)
	}

	stop := s.store.Snapshots(ctx, s.collection, userID, onNext, emitError)

	return func() {
		mu.Lock()
		stopped = true
		mu.Unlock()
		stop()
	}
}

// Get reads the profile document once. Missing documents surface as
// common.ErrNotFound from the store.
func (s *Service) Get(ctx context.Context, userID string) (*Profile, error) {
	doc, err := s.store.Get(ctx, s.collection, userID)
	if err != nil {
		return nil, err
	}
	p, _ := fromDoc(doc)
	return p, nil
}
