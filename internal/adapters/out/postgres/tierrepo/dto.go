// Package tierrepo persists the tier catalog with GORM.
package tierrepo

import (
	"time"

	"pricing/internal/core/domain/model/kernel"
	"pricing/internal/core/domain/model/tier"

	"github.com/google/uuid"
)

// TierDTO is the row of the tiers table. Type is unique: the catalog holds at
// most one tier per type.
type TierDTO struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Type                  string    `gorm:"type:varchar(16);not null;uniqueIndex:idx_tiers_type"`
	Name                  string    `gorm:"type:varchar(100);not null"`
	Description           string    `gorm:"type:text"`
	MinDeliveryHours      int       `gorm:"type:int;not null"`
	MaxDeliveryHours      int       `gorm:"type:int;not null"`
	BasePriceMultiplier   float64   `gorm:"type:numeric(6,2);not null"`
	PlatformFeePercentage float64   `gorm:"type:numeric(6,2);not null"`
	SLAGuarantee          float64   `gorm:"type:numeric(6,2);not null"`
	IsActive              bool      `gorm:"not null;index"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// TableName overrides GORM's default "tier_dtos".
func (TierDTO) TableName() string {
	return "tiers"
}

func fromDomain(t *tier.Tier) TierDTO {
	a := t.Attributes()
	return TierDTO{
		ID:                    t.ID().Bytes(),
		Type:                  a.Type.String(),
		Name:                  a.Name,
		Description:           a.Description,
		MinDeliveryHours:      a.MinDeliveryHours,
		MaxDeliveryHours:      a.MaxDeliveryHours,
		BasePriceMultiplier:   a.BasePriceMultiplier,
		PlatformFeePercentage: a.PlatformFeePercentage,
		SLAGuarantee:          a.SLAGuarantee,
		IsActive:              t.IsActive(),
	}
}

func toDomain(dto TierDTO) (*tier.Tier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	tp, err := tier.ParseType(dto.Type)
	if err != nil {
		return nil, err
	}

	return tier.RestoreTier(id, tier.Attributes{
		Type:                  tp,
		Name:                  dto.Name,
		Description:           dto.Description,
		MinDeliveryHours:      dto.MinDeliveryHours,
		MaxDeliveryHours:      dto.MaxDeliveryHours,
		BasePriceMultiplier:   dto.BasePriceMultiplier,
		PlatformFeePercentage: dto.PlatformFeePercentage,
		SLAGuarantee:          dto.SLAGuarantee,
	}, dto.IsActive)
}
