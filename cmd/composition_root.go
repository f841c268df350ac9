package cmd

import (
	"context"
	"log/slog"

	httpin "pricing/internal/adapters/in/http"
	"pricing/internal/adapters/out/cache/tiercache"
	"pricing/internal/adapters/out/postgres"
	"pricing/internal/adapters/out/postgres/demandrepo"
	"pricing/internal/adapters/out/postgres/georepo"
	"pricing/internal/adapters/out/postgres/tierrepo"
	"pricing/internal/adapters/out/redis/courierdir"
	"pricing/internal/core/application/engine"
	"pricing/internal/core/application/usecases/commands"
	"pricing/internal/core/application/usecases/queries"
	"pricing/internal/core/domain/services"
	"pricing/internal/jobs"
	"pricing/internal/pkg/clock"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot wires adapters, handlers and the engine once at startup.
type CompositionRoot struct {
	cfg        Config
	logger     *slog.Logger
	uowFactory *postgres.GormUnitOfWorkFactory
	tierCache  *tiercache.Cache
	couriers   *courierdir.Directory
	engine     *engine.Engine
}

// NewCompositionRoot builds the object graph on the given connections.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, rdb redis.Cmdable, logger *slog.Logger) *CompositionRoot {
	c := &CompositionRoot{
		cfg:        cfg,
		logger:     logger,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		tierCache:  tiercache.New(tierrepo.NewGormTierRepository(gormDB), cfg.TierCacheTTL),
		couriers:   courierdir.New(rdb, courierdir.DefaultKey),
	}

	demands := demandrepo.NewGormDemandRecordRepository(gormDB)
	refresher := commands.NewRefreshDemandCommandHandler(
		demands,
		c.couriers,
		georepo.NewGormDemandQuery(gormDB),
		clock.System{},
		commands.RefreshDemandSettings{
			MaxAge:       cfg.DemandMaxAge,
			RadiusMeters: cfg.DemandRadiusMeters,
			Timeout:      cfg.DemandRefreshTimeout,
		},
	)

	c.engine = engine.New(engine.Deps{
		Refresher:  refresher,
		Batch:      queries.NewGetDemandBatchQueryHandler(demands, clock.System{}),
		History:    queries.NewGetDemandHistoryQueryHandler(demands, clock.System{}),
		Seeder:     c.createSeeder(),
		Tiers:      queries.NewListActiveTiersQueryHandler(c.tierCache),
		Calculator: services.NewPricingCalculator(),
		Clock:      clock.System{},
		MaxAge:     refresher.MaxAge(),
	})

	return c
}

// Engine returns the shared pricing engine.
func (c *CompositionRoot) Engine() *engine.Engine {
	return c.engine
}

// CreateHTTPServer returns the JSON API over the engine and courier directory.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(c.engine, c.couriers, c.logger)
}

// CreateJobManager returns the scheduled jobs configured for this process.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.engine, c.cfg.HotLocations, c.cfg.RefreshSchedule, c.logger)
}

func (c *CompositionRoot) createSeeder() engine.TierSeeder {
	var f commands.TierUoWFactory = FuncTierUoWFactory(func() commands.TierUoW {
		return c.uowFactory.Create()
	})
	handler := commands.NewSeedDefaultTiersCommandHandler(f)
	return &cacheInvalidatingSeeder{next: &handler, cache: c.tierCache}
}

// FuncTierUoWFactory adapts a function to commands.TierUoWFactory.
type FuncTierUoWFactory func() commands.TierUoW

func (f FuncTierUoWFactory) Create() commands.TierUoW {
	return f()
}

// cacheInvalidatingSeeder drops the cached tier list once seeding committed,
// so new tiers are priced without waiting for the cache to expire.
type cacheInvalidatingSeeder struct {
	next  engine.TierSeeder
	cache *tiercache.Cache
}

func (s *cacheInvalidatingSeeder) Handle(ctx context.Context, cmd commands.SeedDefaultTiersCommand) (int, error) {
	created, err := s.next.Handle(ctx, cmd)
	if err != nil {
		return 0, err
	}
	if created > 0 {
		s.cache.Invalidate()
	}
	return created, nil
}
