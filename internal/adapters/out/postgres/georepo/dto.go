// Package georepo answers demand questions over the delivery_requests table
// written by the booking layer.
package georepo

import (
	"time"

	"github.com/google/uuid"
)

// Request statuses as written by the booking layer.
const (
	StatusPending   = "pending"
	StatusSearching = "searching"
	StatusAssigned  = "assigned"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// activeStatuses are requests still waiting for a courier.
var activeStatuses = []string{StatusPending, StatusSearching}

// DeliveryRequestDTO is the row of the delivery_requests table. Only the
// columns the demand queries read are mapped.
type DeliveryRequestDTO struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	PickupLongitude float64    `gorm:"type:double precision;not null"`
	PickupLatitude  float64    `gorm:"type:double precision;not null"`
	Status          string     `gorm:"type:varchar(16);not null;index"`
	ExpiresAt       *time.Time `gorm:"type:timestamptz"`
	CompletedAt     *time.Time `gorm:"type:timestamptz;index"`
	CreatedAt       time.Time  `gorm:"type:timestamptz;not null"`
}

// TableName overrides GORM's default "delivery_request_dtos".
func (DeliveryRequestDTO) TableName() string {
	return "delivery_requests"
}
