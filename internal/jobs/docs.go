// Package jobs provides scheduled background tasks for the pricing engine.
//
// Jobs are built on github.com/robfig/cron/v3 with seconds-precision schedules.
//
// # Available Jobs
//
// DemandRefreshJob force-refreshes the demand records of configured hot
// locations, so pricing requests in busy areas find a fresh record instead of
// recomputing it inline.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(pricingEngine, hotLocations, "0 */5 * * * *", logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll(10 * time.Second)
//
// # Error Handling
//
// A failing location is logged and skipped; the next tick retries it.
// Failed job starts stop any already running jobs.
package jobs
