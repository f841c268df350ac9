package commands

import (
	"context"
	"fmt"
	"time"

	"pricing/internal/core/domain/model/demand"
	"pricing/internal/core/domain/model/kernel"
	"pricing/internal/core/ports"
	"pricing/internal/pkg/errs"

	"golang.org/x/sync/singleflight"
)

const (
	// DefaultMaxAge is how long a demand record is reused before it is recomputed.
	DefaultMaxAge = 15 * time.Minute
	// DefaultRadiusMeters is the search radius of the supply and demand counts.
	DefaultRadiusMeters = 20000.0
	// DefaultRefreshTimeout bounds one shared recomputation.
	DefaultRefreshTimeout = 30 * time.Second

	completedWindow = time.Hour
)

// RefreshDemandSettings tunes the refresh. Zero values fall back to the defaults.
type RefreshDemandSettings struct {
	MaxAge       time.Duration
	RadiusMeters float64
	// Timeout bounds the shared recomputation, which outlives the callers' contexts.
	Timeout time.Duration
}

func (s RefreshDemandSettings) withDefaults() RefreshDemandSettings {
	if s.MaxAge <= 0 {
		s.MaxAge = DefaultMaxAge
	}
	if s.RadiusMeters <= 0 {
		s.RadiusMeters = DefaultRadiusMeters
	}
	if s.Timeout <= 0 {
		s.Timeout = DefaultRefreshTimeout
	}
	return s
}

// RefreshDemandCommandHandler reads or recomputes the demand record of one
// (bucket, hour slot) pair.
//
// A fresh record is returned as is. Otherwise the courier, active demand and
// completed delivery counts are queried and the record is upserted. When any
// of those queries fails nothing is written and an errs.UpstreamQueryError is
// returned; there is no fallback to stale or zero-filled data.
//
// Concurrent calls for the same pair within this process share one
// computation. Writers in other processes are reconciled by the storage-level
// unique key on (bucket, slot): the last write wins. A caller whose context
// ends gets its context error back, while the shared computation carries on
// for the others, bounded by RefreshDemandSettings.Timeout.
//
// Example:
//
//	handler := NewRefreshDemandCommandHandler(repo, couriers, requests, clock.System{}, RefreshDemandSettings{})
//	cmd, _ := NewRefreshDemandCommand(pickup, false)
//
//	rec, err := handler.Handle(ctx, cmd)
//	if errs.IsRetryable(err) {
//	    // the courier directory or demand store is down
//	}
type RefreshDemandCommandHandler struct {
	repo     ports.DemandRecordRepository
	couriers ports.CourierDirectory
	requests ports.DemandQuery
	clock    ports.Clock
	settings RefreshDemandSettings

	group *singleflight.Group
}

// NewRefreshDemandCommandHandler creates the handler. The handler must be
// shared by all callers so that concurrent refreshes are collapsed.
func NewRefreshDemandCommandHandler(
	repo ports.DemandRecordRepository,
	couriers ports.CourierDirectory,
	requests ports.DemandQuery,
	clock ports.Clock,
	settings RefreshDemandSettings,
) *RefreshDemandCommandHandler {
	return &RefreshDemandCommandHandler{
		repo:     repo,
		couriers: couriers,
		requests: requests,
		clock:    clock,
		settings: settings.withDefaults(),
		group:    &singleflight.Group{},
	}
}

// MaxAge returns the freshness window in use.
func (h *RefreshDemandCommandHandler) MaxAge() time.Duration {
	return h.settings.MaxAge
}

// Handle returns the current demand record for the command's location.
func (h *RefreshDemandCommandHandler) Handle(ctx context.Context, cmd RefreshDemandCommand) (*demand.Record, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	bucket := cmd.Location().Bucket()
	slot := kernel.TimeSlot(now)
	key := fmt.Sprintf("%s|%d|%t", bucket, slot.Unix(), cmd.ForceUpdate())

	// The shared work is detached from the caller that started it: callers
	// collapsed onto the same key must not fail because that caller went away.
	ch := h.group.DoChan(key, func() (any, error) {
		workCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.settings.Timeout)
		defer cancel()
		return h.readOrRefresh(workCtx, cmd, bucket, slot, now)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*demand.Record), nil
	}
}

func (h *RefreshDemandCommandHandler) readOrRefresh(
	ctx context.Context,
	cmd RefreshDemandCommand,
	bucket string,
	slot time.Time,
	now time.Time,
) (*demand.Record, error) {
	if !cmd.ForceUpdate() {
		existing, err := h.repo.Get(ctx, bucket, slot)
		if err != nil {
			return nil, errs.NewUpstreamQueryError("load demand record of bucket "+bucket, err)
		}
		if existing != nil && existing.IsFresh(now, h.settings.MaxAge) {
			return existing, nil
		}
	}

	counts, err := h.count(ctx, cmd.Location(), bucket, now)
	if err != nil {
		return nil, err
	}

	rec, err := demand.NewRecord(kernel.NewUUID(), bucket, counts, now)
	if err != nil {
		return nil, err
	}

	stored, err := h.repo.Upsert(ctx, rec)
	if err != nil {
		return nil, errs.NewUpstreamQueryError("store demand record of bucket "+bucket, err)
	}

	return stored, nil
}

func (h *RefreshDemandCommandHandler) count(
	ctx context.Context,
	loc kernel.Location,
	bucket string,
	now time.Time,
) (demand.Counts, error) {
	radius := h.settings.RadiusMeters

	couriers, err := h.couriers.CountAvailableCouriersNear(ctx, loc, radius)
	if err != nil {
		return demand.Counts{}, errs.NewUpstreamQueryError("count available couriers near bucket "+bucket, err)
	}

	active, err := h.requests.CountActiveRequestsNear(ctx, loc, radius, now)
	if err != nil {
		return demand.Counts{}, errs.NewUpstreamQueryError("count active requests near bucket "+bucket, err)
	}

	completed, err := h.requests.CountCompletedDeliveriesNear(ctx, loc, radius, now.Add(-completedWindow))
	if err != nil {
		return demand.Counts{}, errs.NewUpstreamQueryError("count completed deliveries near bucket "+bucket, err)
	}

	return demand.Counts{
		AvailableCouriers:   couriers,
		ActiveDemand:        active,
		CompletedDeliveries: completed,
	}, nil
}
