package tierrepo

import (
	"context"
	"fmt"

	"pricing/internal/core/domain/model/tier"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTierRepository implements ports.TierRepository using GORM.
type GormTierRepository struct {
	db *gorm.DB
}

// NewGormTierRepository creates a new GORM tier repository.
func NewGormTierRepository(db *gorm.DB) *GormTierRepository {
	return &GormTierRepository{db: db}
}

// ListActive returns active tiers, fastest first.
func (r *GormTierRepository) ListActive(ctx context.Context) ([]*tier.Tier, error) {
	var dtos []TierDTO
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("min_delivery_hours ASC").
		Order("max_delivery_hours ASC").
		Order("type ASC").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	tiers := make([]*tier.Tier, 0, len(dtos))
	for _, dto := range dtos {
		t, err := toDomain(dto)
		if err != nil {
			return nil, fmt.Errorf("tier %s: %w", dto.Type, err)
		}
		tiers = append(tiers, t)
	}

	return tiers, nil
}

// AddIfAbsent inserts t unless a tier of the same type exists.
// It relies on the unique index on type, so concurrent seeders never create
// duplicates and never overwrite each other.
func (r *GormTierRepository) AddIfAbsent(ctx context.Context, t *tier.Tier) (bool, error) {
	if err := t.Validate(); err != nil {
		return false, err
	}

	dto := fromDomain(t)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "type"}},
			DoNothing: true,
		}).
		Create(&dto)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}
