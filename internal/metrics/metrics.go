// File: internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gin-gonic/gin"
)

// Collector gathers the application's Prometheus metrics. The fire-and-forget
// write paths (migration patch, last-login touch) report their failures here
// so they are observable instead of silently discarded.
type Collector struct {
	registry *prometheus.Registry

	authAttempts           *prometheus.CounterVec
	migrationPatches       prometheus.Counter
	migrationPatchFailures prometheus.Counter
	lastLoginTouchFailures prometheus.Counter
	locationSaves          *prometheus.CounterVec
	activeFlows            prometheus.Gauge
}

// NewCollector creates a Collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gatherus_auth_attempts_total",
			Help: "Authentication attempts by kind (sign_up, sign_in) and result.",
		}, []string{"kind", "result"}),
		migrationPatches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gatherus_migration_patches_total",
			Help: "Onboarding-flag migration writes issued for legacy profiles.",
		}),
		migrationPatchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gatherus_migration_patch_failures_total",
			Help: "Onboarding-flag migration writes that failed.",
		}),
		lastLoginTouchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gatherus_last_login_touch_failures_total",
			Help: "Failed lastLoginAt updates after successful sign-ins.",
		}),
		locationSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gatherus_location_saves_total",
			Help: "Location save attempts by result.",
		}, []string{"result"}),
		activeFlows: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gatherus_active_flows",
			Help: "Client flows currently held in the registry.",
		}),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		c.authAttempts,
		c.migrationPatches,
		c.migrationPatchFailures,
		c.lastLoginTouchFailures,
		c.locationSaves,
		c.activeFlows,
	)

	return c
}

// RecordAuthAttempt counts a sign-up or sign-in attempt.
func (c *Collector) RecordAuthAttempt(kind, result string) {
	c.authAttempts.WithLabelValues(kind, result).Inc()
}

// RecordMigrationPatch counts a migration write issued for a legacy profile.
func (c *Collector) RecordMigrationPatch() {
	c.migrationPatches.Inc()
}

// RecordMigrationPatchFailure counts a failed migration write.
func (c *Collector) RecordMigrationPatchFailure() {
	c.migrationPatchFailures.Inc()
}

// RecordLastLoginTouchFailure counts a failed post-sign-in lastLoginAt update.
func (c *Collector) RecordLastLoginTouchFailure() {
	c.lastLoginTouchFailures.Inc()
}

// RecordLocationSave counts a location save attempt.
func (c *Collector) RecordLocationSave(result string) {
	c.locationSaves.WithLabelValues(result).Inc()
}

// FlowOpened and FlowClosed track the active-flow gauge.
func (c *Collector) FlowOpened() {
	c.activeFlows.Inc()
}

func (c *Collector) FlowClosed() {
	c.activeFlows.Dec()
}

// Handler exposes the registry for the /metrics endpoint.
func (c *Collector) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
	return func(ctx *gin.Context) {
		h.ServeHTTP(ctx.Writer, ctx.Request)
	}
}
