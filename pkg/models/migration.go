package models

import (
	"gorm.io/gorm"
)

// Database migration function
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Employee{},
		&Office{},
		&Way{},
		&PickupPoint{},
		&BusRoute{},
	)
}

func CreateIndexes(db *gorm.DB) error {
	// Composite indexes for common queries
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_pickup_points_way_position ON pickup_points(way_id, position)").Error; err != nil {
		return err
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_pickup_points_way_office ON pickup_points(way_id, office_id)").Error; err != nil {
		return err
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_bus_routes_way_active ON bus_routes(way_id, is_active)").Error; err != nil {
		return err
	}

	return nil
}
