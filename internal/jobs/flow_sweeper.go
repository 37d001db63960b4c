// File: internal/jobs/flow_sweeper.go
package jobs

import (
	"fmt"
	"time"

	"gatherus_backend/internal/config"
	"gatherus_backend/internal/flow"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// FlowSweeperJob evicts idle client flows on a cron schedule so abandoned
// sessions do not hold their profile subscriptions open forever.
type FlowSweeperJob struct {
	flows         *flow.Manager
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
}

// NewFlowSweeperJob creates a new FlowSweeperJob.
func NewFlowSweeperJob(
	flows *flow.Manager,
	logger *zap.Logger,
	cfg *config.Config,
) *FlowSweeperJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))

	return &FlowSweeperJob{
		flows:         flows,
		logger:        logger.Named("FlowSweeperJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *FlowSweeperJob) SetupAndStart() error {
	jobSpec := j.cfg.FlowSweepSchedule
	if jobSpec == "" {
		j.logger.Warn("Flow sweep schedule not defined (FLOW_SWEEP_SCHEDULE). Job will not run.")
		return nil // Not a fatal error, just won't run
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule flow sweeper job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Flow sweeper job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

// runJob is the actual work performed by the cron job.
func (j *FlowSweeperJob) runJob() {
	evicted := j.flows.SweepIdle(j.cfg.FlowIdleTimeout)
	if evicted > 0 {
		j.logger.Info("Flow sweep completed", zap.Int("flows_evicted", evicted), zap.Int("flows_remaining", j.flows.Len()))
	} else {
		j.logger.Debug("Flow sweep completed, nothing to evict", zap.Int("flows_live", j.flows.Len()))
	}
}

// Stop gracefully stops the cron scheduler.
func (j *FlowSweeperJob) Stop() {
	if j.cronScheduler != nil {
		j.logger.Info("Stopping flow sweeper job scheduler...")
		stopCtx := j.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("Flow sweeper job scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			j.logger.Warn("Flow sweeper job scheduler stop timed out.")
		}
	}
}

// --- Cron Logger Adapter ---

// cronLogger adapts zap.Logger to cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

// Info logs routine messages from cron.
func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	cl.zl.Info(msg, cl.parseKeysAndValues(keysAndValues...)...)
}

// Error logs error messages from cron.
func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}
