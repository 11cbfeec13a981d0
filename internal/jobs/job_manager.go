package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager coordinates the scheduled jobs of the application.
type JobManager struct {
	reconciliationJob *ReconciliationJob
}

// NewJobManager wires the reconciliation job to its handler.
func NewJobManager(reconciler Reconciler, reconcileSchedule string, logger *slog.Logger) *JobManager {
	return &JobManager{
		reconciliationJob: NewReconciliationJob(reconciler, reconcileSchedule, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.reconciliationJob.Start(); err != nil {
		return fmt.Errorf("failed to start reconciliation job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.reconciliationJob.Stop()
}
