package models

import (
	"time"

	"gorm.io/gorm"
)

// Pickup point kind codes as used on the wire: -1 start, 0 middle, 1 end.
const (
	PointKindStart  = -1
	PointKindMiddle = 0
	PointKindEnd    = 1
)

// Way represents a named route path: one start point, zero or more
// middle points and one end point, stored as a flat ordered list.
type Way struct {
	ID        uint           `gorm:"primaryKey" json:"way_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name        string `gorm:"not null" json:"way_name"`
	Description string `gorm:"type:text;not null" json:"way_description"`

	// Relationships
	PickupPoints []PickupPoint `gorm:"foreignKey:WayID;constraint:OnDelete:CASCADE" json:"list_pickup_point"`
	BusRoutes    []BusRoute    `gorm:"foreignKey:WayID" json:"bus_routes,omitempty"`
}

// PickupPoint is one stop of a way. Position preserves the presentation
// order within the way (start first, middles in insertion order, end
// last); the start point's time offset is always 0.
type PickupPoint struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	WayID    uint   `gorm:"not null;index" json:"way_id"`
	OfficeID uint   `gorm:"not null;index" json:"office_id"`
	Office   Office `gorm:"foreignKey:OfficeID" json:"office,omitempty"`

	Name        string `gorm:"not null" json:"pickup_point_name"`
	TimeOffset  int    `gorm:"not null" json:"pickup_point_time"`
	Kind        int    `gorm:"not null" json:"pickup_point_kind"`
	Description string `json:"pickup_point_description,omitempty"`
	Position    int    `gorm:"not null" json:"-"`
}
