package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"pricing/internal/core/domain/model/kernel"
)

// Starter is a scheduled job.
type Starter interface {
	Start() error
	Stop()
}

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	jobs   []Starter
	logger *slog.Logger
}

// NewJobManager creates a manager running the demand refresh job for the
// given hot locations. With no locations there is nothing to refresh and no
// job is registered.
func NewJobManager(
	refresher DemandRefresher,
	hotLocations []kernel.Location,
	refreshSchedule string,
	logger *slog.Logger,
) *JobManager {
	jm := &JobManager{logger: logger.With("component", "job_manager")}
	if len(hotLocations) > 0 {
		jm.jobs = append(jm.jobs, NewDemandRefreshJob(refresher, hotLocations, refreshSchedule, logger))
	}
	return jm
}

// StartAll starts all scheduled jobs. If one fails to start, the jobs
// already started are stopped.
func (jm *JobManager) StartAll() error {
	for i, job := range jm.jobs {
		if err := job.Start(); err != nil {
			for _, started := range jm.jobs[:i] {
				started.Stop()
			}
			return fmt.Errorf("failed to start job %T: %w", job, err)
		}
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully, giving up after timeout.
func (jm *JobManager) StopAll(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, job := range jm.jobs {
			job.Stop()
		}
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		jm.logger.Warn("Jobs did not stop in time", "timeout", timeout)
	}
}

// Len returns the number of registered jobs.
func (jm *JobManager) Len() int {
	return len(jm.jobs)
}
