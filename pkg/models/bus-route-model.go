package models

import (
	"time"

	"gorm.io/gorm"
)

// BusRoute is a sellable line definition referencing a way by id. Trips
// are scheduled against a route; the route itself only fixes the path
// and base pricing.
type BusRoute struct {
	ID        uint           `gorm:"primaryKey" json:"route_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	WayID uint `gorm:"not null;index" json:"way_id"`
	Way   Way  `gorm:"foreignKey:WayID" json:"way,omitempty"`

	Name       string  `gorm:"not null" json:"route_name"`
	DistanceKm float64 `json:"distance_km"`
	BasePrice  int64   `gorm:"not null" json:"base_price"`
	IsActive   bool    `gorm:"default:true" json:"is_active"`
}
