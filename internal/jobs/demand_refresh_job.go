package jobs

import (
	"context"
	"log/slog"
	"time"

	"pricing/internal/core/domain/model/demand"
	"pricing/internal/core/domain/model/kernel"

	"github.com/robfig/cron/v3"
)

// DefaultRefreshSchedule runs the refresh every five minutes, at second 0.
const DefaultRefreshSchedule = "0 */5 * * * *"

// DemandRefresher recomputes the demand record of one bucket.
type DemandRefresher interface {
	RefreshDemand(ctx context.Context, loc kernel.Location, force bool) (*demand.Record, error)
}

// DemandRefreshJob keeps the demand records of hot locations warm, so pricing
// requests there rarely pay for a recomputation.
type DemandRefreshJob struct {
	refresher DemandRefresher
	locations []kernel.Location
	schedule  string
	timeout   time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewDemandRefreshJob creates a job that force-refreshes every location on
// schedule (six-field cron syntax, seconds first). An empty schedule selects
// DefaultRefreshSchedule.
func NewDemandRefreshJob(
	refresher DemandRefresher,
	locations []kernel.Location,
	schedule string,
	logger *slog.Logger,
) *DemandRefreshJob {
	if schedule == "" {
		schedule = DefaultRefreshSchedule
	}
	return &DemandRefreshJob{
		refresher: refresher,
		locations: locations,
		schedule:  schedule,
		timeout:   30 * time.Second,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "demand_refresh_job"),
	}
}

// Start schedules the job. A malformed schedule is returned as an error.
func (j *DemandRefreshJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()
		j.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Demand refresh job started",
		"schedule", j.schedule, "locations", len(j.locations))
	return nil
}

// RunOnce refreshes every location once and returns how many succeeded.
// A failing location is logged and does not stop the others.
func (j *DemandRefreshJob) RunOnce(ctx context.Context) int {
	refreshed := 0
	for _, loc := range j.locations {
		rec, err := j.refresher.RefreshDemand(ctx, loc, true)
		if err != nil {
			j.logger.ErrorContext(ctx, "Demand refresh failed", "bucket", loc.Bucket(), "error", err)
			continue
		}
		refreshed++
		j.logger.DebugContext(ctx, "Demand refreshed",
			"bucket", rec.Bucket(), "multiplier", rec.DemandMultiplier())
	}
	return refreshed
}

// Stop stops scheduling and waits for a running refresh to finish.
func (j *DemandRefreshJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Demand refresh job stopped")
}
