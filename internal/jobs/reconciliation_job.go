package jobs

import (
	"context"
	"log/slog"
	"time"

	"freight/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultReconcileSchedule runs reconciliation every thirty seconds.
const DefaultReconcileSchedule = "*/30 * * * * *"

// Reconciler is satisfied by *commands.ReconcileWorkflowsCommandHandler.
type Reconciler interface {
	Handle(ctx context.Context, cmd commands.ReconcileWorkflowsCommand) (int, error)
}

// ReconciliationJob periodically writes back workflows whose last
// persistence attempt failed.
type ReconciliationJob struct {
	handler  Reconciler
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewReconciliationJob creates the job. An empty schedule falls back to
// DefaultReconcileSchedule.
func NewReconciliationJob(handler Reconciler, schedule string, logger *slog.Logger) *ReconciliationJob {
	if schedule == "" {
		schedule = DefaultReconcileSchedule
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReconciliationJob{
		handler:  handler,
		schedule: schedule,
		timeout:  time.Minute,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "reconciliation_job"),
	}
}

// Start registers the job on its schedule and starts the scheduler.
func (j *ReconciliationJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Reconciliation job started", "schedule", j.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running pass to finish.
func (j *ReconciliationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Reconciliation job stopped")
}

// RunOnce executes a single reconciliation pass.
func (j *ReconciliationJob) RunOnce(ctx context.Context) (int, error) {
	return j.handler.Handle(ctx, commands.NewReconcileWorkflowsCommand())
}

func (j *ReconciliationJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if _, err := j.RunOnce(ctx); err != nil {
		j.logger.ErrorContext(ctx, "Reconciliation job failed", "error", err)
	}
}
