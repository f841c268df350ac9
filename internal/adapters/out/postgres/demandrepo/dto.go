// Package demandrepo persists demand records with GORM.
package demandrepo

import (
	"time"

	"pricing/internal/core/domain/model/demand"
	"pricing/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DemandRecordDTO is the row of the demand_records table.
// (location_bucket, time_slot) is unique.
type DemandRecordDTO struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	LocationBucket      string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_demand_bucket_slot,priority:1"`
	TimeSlot            time.Time `gorm:"type:timestamptz;not null;uniqueIndex:idx_demand_bucket_slot,priority:2"`
	AvailableCouriers   int       `gorm:"type:int;not null"`
	ActiveDemand        int       `gorm:"type:int;not null"`
	CompletedDeliveries int       `gorm:"type:int;not null"`
	AverageDeliveryTime float64   `gorm:"type:double precision;not null"`
	DemandMultiplier    float64   `gorm:"type:numeric(4,2);not null"`
	WeatherConditions   *string   `gorm:"type:varchar(64)"`
	EventModifier       float64   `gorm:"type:numeric(4,2);not null"`
	CalculatedAt        time.Time `gorm:"type:timestamptz;not null"`
}

// TableName overrides GORM's default "demand_record_dtos".
func (DemandRecordDTO) TableName() string {
	return "demand_records"
}

// refreshedColumns are overwritten when a second writer hits the same key.
var refreshedColumns = []string{
	"available_couriers",
	"active_demand",
	"completed_deliveries",
	"average_delivery_time",
	"demand_multiplier",
	"weather_conditions",
	"event_modifier",
	"calculated_at",
}

func fromDomain(rec *demand.Record) DemandRecordDTO {
	return DemandRecordDTO{
		ID:                  rec.ID().Bytes(),
		LocationBucket:      rec.Bucket(),
		TimeSlot:            rec.TimeSlot(),
		AvailableCouriers:   rec.AvailableCouriers(),
		ActiveDemand:        rec.ActiveDemand(),
		CompletedDeliveries: rec.CompletedDeliveries(),
		AverageDeliveryTime: rec.AverageDeliveryMinutes(),
		DemandMultiplier:    rec.DemandMultiplier(),
		WeatherConditions:   rec.WeatherConditions(),
		EventModifier:       rec.EventModifier(),
		CalculatedAt:        rec.CalculatedAt(),
	}
}

// toDomain ignores the stored multiplier: it is recomputed from the counts.
func toDomain(dto DemandRecordDTO) (*demand.Record, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return demand.RestoreRecord(demand.Snapshot{
		ID:       id,
		Bucket:   dto.LocationBucket,
		TimeSlot: dto.TimeSlot,
		Counts: demand.Counts{
			AvailableCouriers:   dto.AvailableCouriers,
			ActiveDemand:        dto.ActiveDemand,
			CompletedDeliveries: dto.CompletedDeliveries,
		},
		AverageDeliveryMinutes: dto.AverageDeliveryTime,
		WeatherConditions:      dto.WeatherConditions,
		EventModifier:          dto.EventModifier,
		CalculatedAt:           dto.CalculatedAt,
	})
}

func toDomainAll(dtos []DemandRecordDTO) ([]*demand.Record, error) {
	records := make([]*demand.Record, 0, len(dtos))
	for _, dto := range dtos {
		rec, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
