package models

import (
	"time"

	"gorm.io/gorm"
)

// EmployeeRole enum
type EmployeeRole string

const (
	RoleAdmin    EmployeeRole = "admin"
	RoleOperator EmployeeRole = "operator"
)

// Employee represents a back-office account that can manage ways,
// offices and routes.
type Employee struct {
	ID        uint           `gorm:"primaryKey" json:"employee_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Email        string       `gorm:"uniqueIndex;not null" json:"email"`
	Name         string       `gorm:"not null" json:"name"`
	PasswordHash string       `gorm:"not null" json:"-"`
	Role         EmployeeRole `gorm:"default:'operator'" json:"role"`
	IsActive     bool         `gorm:"default:true" json:"is_active"`
	LastLoginAt  *time.Time   `json:"last_login_at,omitempty"`
}
