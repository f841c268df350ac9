package postgres

import (
	"pricing/internal/adapters/out/postgres/demandrepo"
	"pricing/internal/adapters/out/postgres/georepo"
	"pricing/internal/adapters/out/postgres/tierrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates the tables and unique indexes of the engine.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&tierrepo.TierDTO{},
		&demandrepo.DemandRecordDTO{},
		&georepo.DeliveryRequestDTO{},
	)
}
