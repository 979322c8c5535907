package models

import (
	"time"

	"gorm.io/gorm"
)

// Office represents a physical office a way's pickup points can bind to.
// Reference data for the way editor; the editor never mutates offices.
type Office struct {
	ID        uint           `gorm:"primaryKey" json:"office_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name     string `gorm:"not null;uniqueIndex" json:"office_name"`
	Address  string `json:"office_address,omitempty"`
	Phone    string `json:"office_phone,omitempty"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	// Relationships
	PickupPoints []PickupPoint `gorm:"foreignKey:OfficeID" json:"pickup_points,omitempty"`
}
