package demandrepo

import (
	"context"
	"errors"
	"time"

	"pricing/internal/core/domain/model/demand"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDemandRecordRepository implements ports.DemandRecordRepository using GORM.
type GormDemandRecordRepository struct {
	db *gorm.DB
}

// NewGormDemandRecordRepository creates a new GORM demand record repository.
func NewGormDemandRecordRepository(db *gorm.DB) *GormDemandRecordRepository {
	return &GormDemandRecordRepository{db: db}
}

// Get returns the record of (bucket, slot), or nil when there is none.
func (r *GormDemandRecordRepository) Get(ctx context.Context, bucket string, slot time.Time) (*demand.Record, error) {
	var dto DemandRecordDTO
	err := r.db.WithContext(ctx).
		Where("location_bucket = ? AND time_slot = ?", bucket, slot.UTC()).
		Take(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil //nolint:nilnil // a missing record is a valid state
	}
	if err != nil {
		return nil, err
	}

	return toDomain(dto)
}

// GetMany returns the existing records of the buckets in slot, in one query.
func (r *GormDemandRecordRepository) GetMany(
	ctx context.Context,
	buckets []string,
	slot time.Time,
) ([]*demand.Record, error) {
	if len(buckets) == 0 {
		return []*demand.Record{}, nil
	}

	var dtos []DemandRecordDTO
	if err := r.db.WithContext(ctx).
		Where("location_bucket = ANY(?) AND time_slot = ?", pq.StringArray(buckets), slot.UTC()).
		Order("location_bucket").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

// ListSince returns the records of bucket whose time slot is at or after
// from, oldest first.
func (r *GormDemandRecordRepository) ListSince(
	ctx context.Context,
	bucket string,
	from time.Time,
) ([]*demand.Record, error) {
	var dtos []DemandRecordDTO
	if err := r.db.WithContext(ctx).
		Where("location_bucket = ? AND time_slot >= ?", bucket, from.UTC()).
		Order("time_slot").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

// Upsert writes rec keyed by (bucket, slot). When a row for the key exists
// its counts and derived values are overwritten and its ID is kept: the last
// writer wins. The row as stored is read back and returned.
func (r *GormDemandRecordRepository) Upsert(ctx context.Context, rec *demand.Record) (*demand.Record, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	dto := fromDomain(rec)
	db := r.db.WithContext(ctx)
	if err := db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "location_bucket"}, {Name: "time_slot"}},
			DoUpdates: clause.AssignmentColumns(refreshedColumns),
		}).
		Create(&dto).Error; err != nil {
		return nil, err
	}

	stored, err := r.Get(ctx, rec.Bucket(), rec.TimeSlot())
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, gorm.ErrRecordNotFound
	}

	return stored, nil
}

