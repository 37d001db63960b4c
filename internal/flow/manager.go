// File: internal/flow/manager.go
package flow

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gatherus_backend/internal/location"
	"gatherus_backend/internal/metrics"
	"gatherus_backend/internal/profile"
)

// Manager is the registry of live client flows.
type Manager struct {
	profiles *profile.Service
	logger   *zap.Logger
	metrics  *metrics.Collector

	mu    sync.RWMutex
	flows map[string]*Flow
}

// NewManager creates an empty flow registry.
func NewManager(profiles *profile.Service, collector *metrics.Collector, logger *zap.Logger) *Manager {
	return &Manager{
		profiles: profiles,
		logger:   logger.Named("FlowManager"),
		metrics:  collector,
		flows:    make(map[string]*Flow),
	}
}

// Create opens a new client flow.
func (m *Manager) Create() *Flow {
	f := newFlow(uuid.NewString(), m.profiles, m.logger)

	m.mu.Lock()
	m.flows[f.ID()] = f
	m.mu.Unlock()

	m.metrics.FlowOpened()
	m.logger.Info("Flow created", zap.String("flowID", f.ID()))
	return f
}

// Get returns a flow by id, recording client activity on it.
func (m *Manager) Get(id string) (*Flow, bool) {
	m.mu.RLock()
	f, ok := m.flows[id]
	m.mu.RUnlock()

	if ok {
		f.Touch()
	}
	return f, ok
}

// Remove closes and forgets a flow.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	f, ok := m.flows[id]
	if ok {
		delete(m.flows, id)
	}
	m.mu.Unlock()

	if !ok {
		return false
	}

	f.Close()
	m.metrics.FlowClosed()
	m.logger.Info("Flow removed", zap.String("flowID", id))
	return true
}

// SweepIdle closes flows with no client activity since the cutoff and returns
// how many were evicted.
func (m *Manager) SweepIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	m.mu.Lock()
	var stale []*Flow
	for id, f := range m.flows {
		if f.IdleSince().Before(cutoff) {
			stale = append(stale, f)
			delete(m.flows, id)
		}
	}
	m.mu.Unlock()

	for _, f := range stale {
		f.Close()
		m.metrics.FlowClosed()
		m.logger.Info("Idle flow evicted", zap.String("flowID", f.ID()))
	}
	return len(stale)
}

// Len returns the number of live flows.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.flows)
}

// LocationFlows adapts the manager to the location endpoints' resolver.
type LocationFlows struct {
	m *Manager
}

// NewLocationFlows creates the adapter.
func NewLocationFlows(m *Manager) location.FlowResolver {
	return LocationFlows{m: m}
}

func (l LocationFlows) Flow(id string) (location.Flow, bool) {
	f, ok := l.m.Get(id)
	if !ok {
		return nil, false
	}
	return f, true
}
