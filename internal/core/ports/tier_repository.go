// Package ports defines the contracts between the pricing core and its
// infrastructure: persistence, geospatial queries and the clock.
package ports

import (
	"context"

	"pricing/internal/core/domain/model/tier"
)

// TierRepository defines the persistence contract for the tier catalog.
type TierRepository interface {
	// ListActive returns active tiers ordered by minimum delivery hours ascending,
	// fastest first. An empty catalog yields an empty slice and no error.
	ListActive(ctx context.Context) ([]*tier.Tier, error)

	// AddIfAbsent stores t unless a tier of the same type already exists.
	// Existing rows are never modified. Reports whether a row was created.
	//
	// Example:
	//   created, err := repo.AddIfAbsent(ctx, t)
	//   if err != nil {
	//       return fmt.Errorf("failed to seed %s tier: %w", t.Type(), err)
	//   }
	AddIfAbsent(ctx context.Context, t *tier.Tier) (bool, error)
}
