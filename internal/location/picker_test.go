// File: internal/location/picker_test.go
package location

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gatherus_backend/internal/city"
	"gatherus_backend/internal/common"
	"gatherus_backend/internal/config"
	"gatherus_backend/internal/metrics"
	"gatherus_backend/internal/profile"
)

// gateStore is a profile.Store whose writes can fail or block on demand.
type gateStore struct {
	mu        sync.Mutex
	updates   []map[string]interface{}
	updateErr error
	gate      chan struct{}
}

func (g *gateStore) Get(context.Context, string, string) (map[string]interface{}, error) {
	return nil, errors.New("not found")
}

func (g *gateStore) Set(context.Context, string, string, map[string]interface{}) error {
	return nil
}

func (g *gateStore) Update(_ context.Context, _, _ string, fields map[string]interface{}) error {
	if g.gate != nil {
		<-g.gate
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.updateErr != nil {
		return g.updateErr
	}
	g.updates = append(g.updates, fields)
	return nil
}

func (g *gateStore) Snapshots(context.Context, string, string, func(map[string]interface{}, bool), func(error)) func() {
	return func() {}
}

func (g *gateStore) ServerTimestamp() interface{} { return time.Now() }

func newTestPicker(store profile.Store) *Picker {
	cfg := &config.Config{UsersCollection: "users"}
	profiles := profile.NewService(cfg, store, metrics.NewCollector(), zap.NewNop())
	return NewPicker(profiles, zap.NewNop())
}

func TestPickerDefaults(t *testing.T) {
	p := newTestPicker(&gateStore{})

	assert.Equal(t, city.Default(), p.Selected())
	assert.False(t, p.Saving())
	assert.False(t, p.SelectorOpen())
	assert.Equal(t, city.All(), p.Cities())
}

func TestPickerSelect(t *testing.T) {
	p := newTestPicker(&gateStore{})

	p.OpenSelector()
	require.True(t, p.SelectorOpen())

	require.NoError(t, p.Select("tacoma"))
	assert.Equal(t, "tacoma", p.Selected().ID)
	// Selecting closes the selector.
	assert.False(t, p.SelectorOpen())

	err := p.Select("nowhere")
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
	// The previous selection is untouched.
	assert.Equal(t, "tacoma", p.Selected().ID)
}

func TestPickerConfirm(t *testing.T) {
	store := &gateStore{}
	p := newTestPicker(store)

	require.NoError(t, p.Select("bellevue"))
	require.NoError(t, p.Confirm(context.Background(), "uid-1"))
	assert.False(t, p.Saving())

	require.Len(t, store.updates, 1)
	fields := store.updates[0]
	assert.Equal(t, true, fields["hasCompletedOnboarding"])
	loc, ok := fields["location"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "bellevue", loc["cityId"])
}

func TestPickerConfirmFailureResetsSaving(t *testing.T) {
	store := &gateStore{updateErr: errors.New("firestore unavailable")}
	p := newTestPicker(store)

	err := p.Confirm(context.Background(), "uid-1")
	require.Error(t, err)
	assert.False(t, p.Saving())

	// The picker can retry after a failure.
	store.mu.Lock()
	store.updateErr = nil
	store.mu.Unlock()
	assert.NoError(t, p.Confirm(context.Background(), "uid-1"))
}

func TestPickerConcurrentConfirm(t *testing.T) {
	store := &gateStore{gate: make(chan struct{})}
	p := newTestPicker(store)

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- p.Confirm(context.Background(), "uid-1")
	}()

	require.Eventually(t, func() bool { return p.Saving() }, time.Second, time.Millisecond)

	err := p.Confirm(context.Background(), "uid-1")
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "CONFLICT", apiErr.Code)

	close(store.gate)
	require.NoError(t, <-firstDone)
	assert.False(t, p.Saving())
}
