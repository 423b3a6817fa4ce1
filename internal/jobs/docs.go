// Package jobs provides scheduled background tasks for the marketplace.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required by the delivery marketplace.
//
// # Available Jobs
//
// 1. DeliveryExpiryJob - Runs every minute to expire open deliveries whose
// deadline has passed.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(sweepHandler, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// The sweep handler logs and skips individual deliveries that fail to
// expire; only infrastructure failures surface here and are logged.
package jobs
