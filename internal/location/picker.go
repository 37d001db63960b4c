// File: internal/location/picker.go
package location

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"gatherus_backend/internal/city"
	"gatherus_backend/internal/common"
	"gatherus_backend/internal/profile"
)

// ErrSaveInProgress is returned when a confirm is already running.
var ErrSaveInProgress = common.ErrConflict.WithDetails("A location save is already in progress.")

// Picker holds the location picker's local state for one client flow: the
// highlighted city (defaulting to the first table entry), the saving flag and
// the selector-open flag.
type Picker struct {
	profiles *profile.Service
	logger   *zap.Logger

	mu       sync.Mutex
	selected city.City
	saving   bool
	open     bool
}

// NewPicker creates a picker with the default city highlighted.
func NewPicker(profiles *profile.Service, logger *zap.Logger) *Picker {
	return &Picker{
		profiles: profiles,
		logger:   logger.Named("LocationPicker"),
		selected: city.Default(),
	}
}

// Cities returns the selectable city table.
func (p *Picker) Cities() []city.City {
	return city.All()
}

// Selected returns the currently highlighted city.
func (p *Picker) Selected() city.City {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selected
}

// Saving reports whether a confirm is in flight.
func (p *Picker) Saving() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saving
}

// OpenSelector and CloseSelector toggle the city selector.
func (p *Picker) OpenSelector() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = true
}

func (p *Picker) CloseSelector() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = false
}

// SelectorOpen reports whether the selector is showing.
func (p *Picker) SelectorOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

// Select highlights a city by id and closes the selector.
func (p *Picker) Select(cityID string) error {
	c, ok := city.ByID(cityID)
	if !ok {
		return common.ErrNotFound.WithDetails("Unknown city id: " + cityID)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.selected = c
	p.open = false
	return nil
}

// Confirm persists the highlighted city for the user. On failure the saving
// flag is reset and the caller must stay on the picker; navigation only
// happens on success, never optimistically.
func (p *Picker) Confirm(ctx context.Context, userID string) error {
	p.mu.Lock()
	if p.saving {
		p.mu.Unlock()
		return ErrSaveInProgress
	}
	p.saving = true
	chosen := p.selected
	p.mu.Unlock()

	err := p.profiles.SaveLocation(ctx, userID, chosen)

	p.mu.Lock()
	p.saving = false
	p.mu.Unlock()

	if err != nil {
		p.logger.Warn("Location save failed", zap.Error(err), zap.String("userID", userID), zap.String("cityID", chosen.ID))
		return err
	}
	return nil
}
