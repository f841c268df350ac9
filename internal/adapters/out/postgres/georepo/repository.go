package georepo

import (
	"context"
	"time"

	"pricing/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

// withinRadius is a haversine great-circle predicate on the pickup point.
// Arguments: latitude, latitude, longitude, radius in meters.
// least() guards asin against rounding slightly above 1.
const withinRadius = `6371000 * 2 * asin(least(1, sqrt(
	power(sin(radians(pickup_latitude - ?) / 2), 2) +
	cos(radians(?)) * cos(radians(pickup_latitude)) *
	power(sin(radians(pickup_longitude - ?) / 2), 2)
))) <= ?`

// GormDemandQuery implements ports.DemandQuery on plain PostgreSQL.
type GormDemandQuery struct {
	db *gorm.DB
}

// NewGormDemandQuery creates the query adapter.
func NewGormDemandQuery(db *gorm.DB) *GormDemandQuery {
	return &GormDemandQuery{db: db}
}

// CountActiveRequestsNear counts pending or searching requests not expired at
// now whose pickup lies within radiusMeters of loc.
func (q *GormDemandQuery) CountActiveRequestsNear(
	ctx context.Context,
	loc kernel.Location,
	radiusMeters float64,
	now time.Time,
) (int, error) {
	if err := loc.Validate(); err != nil {
		return 0, err
	}

	var n int64
	err := q.near(ctx, loc, radiusMeters).
		Where("status IN ?", activeStatuses).
		Where("(expires_at IS NULL OR expires_at > ?)", now).
		Count(&n).Error

	return int(n), err
}

// CountCompletedDeliveriesNear counts deliveries completed since the given
// time whose pickup lies within radiusMeters of loc.
func (q *GormDemandQuery) CountCompletedDeliveriesNear(
	ctx context.Context,
	loc kernel.Location,
	radiusMeters float64,
	since time.Time,
) (int, error) {
	if err := loc.Validate(); err != nil {
		return 0, err
	}

	var n int64
	err := q.near(ctx, loc, radiusMeters).
		Where("status = ?", StatusCompleted).
		Where("completed_at >= ?", since).
		Count(&n).Error

	return int(n), err
}

func (q *GormDemandQuery) near(ctx context.Context, loc kernel.Location, radiusMeters float64) *gorm.DB {
	return q.db.WithContext(ctx).
		Model(&DeliveryRequestDTO{}).
		Where(withinRadius, loc.Latitude(), loc.Latitude(), loc.Longitude(), radiusMeters)
}
