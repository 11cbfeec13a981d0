// Package jobs provides scheduled background tasks for the freight service.
//
// Jobs are cron-based (github.com/robfig/cron/v3, seconds-resolution specs)
// and are managed through JobManager:
//
//	jobManager := jobs.NewJobManager(reconcileHandler, cfg.ReconcileSchedule, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Available Jobs
//
// ReconciliationJob writes back every cached workflow whose last
// persistence attempt failed. It defaults to "*/30 * * * * *". Overlapping
// runs are skipped, and a failed pass is logged and retried on the next tick.
package jobs
