package ports

import (
	"context"
	"time"

	"pricing/internal/core/domain/model/kernel"
)

// CourierDirectory answers supply questions about couriers.
type CourierDirectory interface {
	// CountAvailableCouriersNear counts active, available couriers within
	// radiusMeters of loc.
	CountAvailableCouriersNear(ctx context.Context, loc kernel.Location, radiusMeters float64) (int, error)
}

// DemandQuery answers demand questions about delivery requests.
type DemandQuery interface {
	// CountActiveRequestsNear counts active delivery requests not expired at now
	// whose pickup lies within radiusMeters of loc.
	CountActiveRequestsNear(ctx context.Context, loc kernel.Location, radiusMeters float64, now time.Time) (int, error)

	// CountCompletedDeliveriesNear counts deliveries completed since the given
	// time whose pickup lies within radiusMeters of loc.
	CountCompletedDeliveriesNear(ctx context.Context, loc kernel.Location, radiusMeters float64, since time.Time) (int, error)
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}
