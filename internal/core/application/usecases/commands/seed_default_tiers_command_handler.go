package commands

import (
	"context"
	"fmt"

	"pricing/internal/core/domain/model/kernel"
	"pricing/internal/core/domain/model/tier"
)

// SeedDefaultTiersCommandHandler creates the tiers of the default catalog that
// do not exist yet. Tiers that already exist, including ones edited by an
// admin, are left untouched.
//
// Example:
//
//	handler := NewSeedDefaultTiersCommandHandler(uowFactory)
//	created, err := handler.Handle(ctx, NewSeedDefaultTiersCommand())
//	if err != nil {
//	    return fmt.Errorf("seeding failed: %w", err)
//	}
//	// created is 4 on an empty database and 0 afterwards
type SeedDefaultTiersCommandHandler struct {
	uowFactory TierUoWFactory
}

// NewSeedDefaultTiersCommandHandler creates a handler for catalog seeding.
func NewSeedDefaultTiersCommandHandler(uowFactory TierUoWFactory) SeedDefaultTiersCommandHandler {
	return SeedDefaultTiersCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle seeds the catalog in one transaction and returns the number of tiers created.
func (h *SeedDefaultTiersCommandHandler) Handle(ctx context.Context, cmd SeedDefaultTiersCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.TierRepository()
	created := 0
	for _, attrs := range tier.DefaultCatalog() {
		t, err := tier.NewTier(kernel.NewUUID(), attrs)
		if err != nil {
			return 0, err
		}

		added, err := repo.AddIfAbsent(ctx, t)
		if err != nil {
			return 0, fmt.Errorf("failed to seed %s tier: %w", attrs.Type, err)
		}
		if added {
			created++
		}
	}

	if err := uow.Commit(ctx); err != nil {
		return 0, err
	}

	return created, nil
}
