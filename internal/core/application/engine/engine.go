// Package engine is the entry point of the pricing core. It turns a delivery
// request into one priced suggestion per active tier and exposes the demand
// and catalog operations used by jobs and admin tooling.
package engine

import (
	"context"
	"fmt"
	"time"

	"pricing/internal/core/application/usecases/commands"
	"pricing/internal/core/application/usecases/queries"
	"pricing/internal/core/domain/model/demand"
	"pricing/internal/core/domain/model/kernel"
	"pricing/internal/core/domain/model/parcel"
	"pricing/internal/core/domain/model/tier"
	"pricing/internal/core/domain/services"
	"pricing/internal/core/ports"
)

type (
	// DemandRefresher reads or recomputes the demand record of one bucket.
	DemandRefresher interface {
		Handle(ctx context.Context, cmd commands.RefreshDemandCommand) (*demand.Record, error)
	}

	// DemandBatchReader reads existing demand records of several buckets.
	DemandBatchReader interface {
		Handle(ctx context.Context, query queries.GetDemandBatchQuery) ([]*demand.Record, error)
	}

	// DemandHistoryReader summarises the stored demand of one bucket.
	DemandHistoryReader interface {
		Handle(ctx context.Context, query queries.GetDemandHistoryQuery) (demand.History, error)
	}

	// TierSeeder creates the missing tiers of the default catalog.
	TierSeeder interface {
		Handle(ctx context.Context, cmd commands.SeedDefaultTiersCommand) (int, error)
	}

	// ActiveTierReader lists the active tiers, fastest first.
	ActiveTierReader interface {
		Handle(ctx context.Context, query queries.ListActiveTiersQuery) ([]*tier.Tier, error)
	}

	// Calculator prices one tier.
	Calculator interface {
		Calculate(in services.PricingInput) (services.Suggestion, error)
	}
)

// Deps are the collaborators of the engine.
type Deps struct {
	Refresher  DemandRefresher
	Batch      DemandBatchReader
	History    DemandHistoryReader
	Seeder     TierSeeder
	Tiers      ActiveTierReader
	Calculator Calculator
	Clock      ports.Clock
	// MaxAge is the freshness window reported by IsFresh.
	MaxAge time.Duration
}

// SuggestRequest describes a delivery to price. DistanceKm may be nil, in
// which case the great-circle distance between pickup and dropoff is used.
type SuggestRequest struct {
	Pickup      kernel.Location
	Dropoff     kernel.Location
	DistanceKm  *float64
	Parcel      parcel.Parcel
	RequestedAt *time.Time
}

// Engine is stateless: it holds its collaborators and nothing else, so one
// instance is built at startup and shared by all callers.
type Engine struct {
	deps Deps
}

// New creates an Engine.
func New(deps Deps) *Engine {
	if deps.MaxAge <= 0 {
		deps.MaxAge = commands.DefaultMaxAge
	}
	return &Engine{deps: deps}
}

// Suggest prices req once per active tier, fastest tier first.
//
// Input errors are returned before any I/O. The pickup bucket's demand record
// is read, or refreshed when stale, then every active tier is priced with it.
// An empty catalog yields an empty slice: callers must treat that as "pricing
// unavailable", never as a zero price.
func (e *Engine) Suggest(ctx context.Context, req SuggestRequest) ([]services.Suggestion, error) {
	query, err := queries.NewSuggestPricingQuery(req.Pickup, req.Dropoff, req.DistanceKm, req.Parcel, req.RequestedAt)
	if err != nil {
		return nil, err
	}

	rec, err := e.RefreshDemand(ctx, query.Pickup(), false)
	if err != nil {
		return nil, err
	}

	tiers, err := e.ListActiveTiers(ctx)
	if err != nil {
		return nil, err
	}

	now := e.deps.Clock.Now()
	suggestions := make([]services.Suggestion, 0, len(tiers))
	for _, t := range tiers {
		s, err := e.deps.Calculator.Calculate(services.PricingInput{
			DistanceKm:        query.DistanceKm(),
			DistanceEstimated: query.DistanceEstimated(),
			Parcel:            query.Parcel(),
			Tier:              t,
			Demand:            rec,
			RequestedAt:       query.RequestedAt(),
			Now:               now,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to price %s tier: %w", t.Type(), err)
		}
		suggestions = append(suggestions, s)
	}

	return suggestions, nil
}

// RefreshDemand returns the demand record of loc's bucket, recomputing it when
// stale or when force is set.
func (e *Engine) RefreshDemand(ctx context.Context, loc kernel.Location, force bool) (*demand.Record, error) {
	cmd, err := commands.NewRefreshDemandCommand(loc, force)
	if err != nil {
		return nil, err
	}
	return e.deps.Refresher.Handle(ctx, cmd)
}

// BatchDemand returns the existing demand records of the given locations for
// the current hour. Locations without a record are skipped.
func (e *Engine) BatchDemand(ctx context.Context, locs []kernel.Location) ([]*demand.Record, error) {
	query, err := queries.NewGetDemandBatchQuery(locs)
	if err != nil {
		return nil, err
	}
	return e.deps.Batch.Handle(ctx, query)
}

// DemandHistory summarises the stored demand of loc's bucket over the last
// days days. Zero days selects demand.DefaultHistoryDays.
func (e *Engine) DemandHistory(ctx context.Context, loc kernel.Location, days int) (demand.History, error) {
	query, err := queries.NewGetDemandHistoryQuery(loc, days)
	if err != nil {
		return demand.History{}, err
	}
	return e.deps.History.Handle(ctx, query)
}

// SeedDefaultTiers creates the missing default tiers and returns how many were created.
func (e *Engine) SeedDefaultTiers(ctx context.Context) (int, error) {
	return e.deps.Seeder.Handle(ctx, commands.NewSeedDefaultTiersCommand())
}

// ListActiveTiers returns the active tiers, fastest first.
func (e *Engine) ListActiveTiers(ctx context.Context) ([]*tier.Tier, error) {
	return e.deps.Tiers.Handle(ctx, queries.NewListActiveTiersQuery())
}

// IsFresh reports whether rec is recent enough to be presented as live data.
func (e *Engine) IsFresh(rec *demand.Record) bool {
	return rec != nil && rec.IsFresh(e.deps.Clock.Now(), e.deps.MaxAge)
}
