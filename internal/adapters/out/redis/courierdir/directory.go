// Package courierdir keeps the positions of available couriers in a Redis GEO
// set and answers "how many couriers are near this point".
package courierdir

import (
	"context"

	"pricing/internal/core/domain/model/kernel"
	"pricing/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

// DefaultKey is the GEO set holding available couriers.
const DefaultKey = "pricing:couriers:available"

var _ ports.CourierDirectory = (*Directory)(nil)

// Directory implements ports.CourierDirectory on Redis GEO commands.
// A courier is available exactly while it is a member of the set.
type Directory struct {
	redis redis.Cmdable
	key   string
}

// New creates a directory on the given client and GEO key.
// An empty key selects DefaultKey.
func New(client redis.Cmdable, key string) *Directory {
	if key == "" {
		key = DefaultKey
	}
	return &Directory{redis: client, key: key}
}

// MarkAvailable adds the courier at loc, or moves it there.
func (d *Directory) MarkAvailable(ctx context.Context, courierID string, loc kernel.Location) error {
	if err := loc.Validate(); err != nil {
		return err
	}
	return d.redis.GeoAdd(ctx, d.key, &redis.GeoLocation{
		Name:      courierID,
		Longitude: loc.Longitude(),
		Latitude:  loc.Latitude(),
	}).Err()
}

// MarkUnavailable removes the courier. Removing an absent courier is not an error.
func (d *Directory) MarkUnavailable(ctx context.Context, courierID string) error {
	return d.redis.ZRem(ctx, d.key, courierID).Err()
}

// CountAvailableCouriersNear counts available couriers within radiusMeters of loc.
func (d *Directory) CountAvailableCouriersNear(
	ctx context.Context,
	loc kernel.Location,
	radiusMeters float64,
) (int, error) {
	if err := loc.Validate(); err != nil {
		return 0, err
	}

	members, err := d.redis.GeoRadius(ctx, d.key, loc.Longitude(), loc.Latitude(), &redis.GeoRadiusQuery{
		Radius: radiusMeters,
		Unit:   "m",
	}).Result()
	if err != nil {
		return 0, err
	}

	return len(members), nil
}
