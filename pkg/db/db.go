package db

import (
	"context"
	"fmt"
	"time"

	"github.com/busline-vn/backoffice/pkg/config"
	"github.com/busline-vn/backoffice/pkg/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB wraps the gorm.DB instance with additional functionality
type DB struct {
	*gorm.DB
	config *config.DatabaseConfig
}

// New creates a new database connection
func New(cfg *config.DatabaseConfig) (*DB, error) {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.GetDSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.GetDSN())
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	// Configure GORM
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	// Open database connection
	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{
		DB:     db,
		config: cfg,
	}, nil
}

// Migrate runs database migrations
func (db *DB) Migrate() error {
	if err := models.AutoMigrate(db.DB); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := models.CreateIndexes(db.DB); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// SeedInitialData seeds the database with initial data. The bootstrap
// admin is only created when credentials are configured and no account
// with that email exists yet.
func (db *DB) SeedInitialData(adminEmail, adminPasswordHash string) error {
	offices := []models.Office{
		{Name: "Saigon Central", Address: "272 De Tham, District 1, Ho Chi Minh City", Phone: "02838389999", IsActive: true},
		{Name: "Dalat Station", Address: "1 To Hien Thanh, Dalat", Phone: "02633585858", IsActive: true},
		{Name: "Nha Trang", Address: "176 Tran Phu, Nha Trang", Phone: "02583528866", IsActive: true},
	}

	for _, office := range offices {
		var existing models.Office
		result := db.Where("name = ?", office.Name).First(&existing)
		if result.Error == gorm.ErrRecordNotFound {
			if err := db.Create(&office).Error; err != nil {
				return fmt.Errorf("failed to seed office %s: %w", office.Name, err)
			}
		}
	}

	if adminEmail != "" && adminPasswordHash != "" {
		var existing models.Employee
		result := db.Where("email = ?", adminEmail).First(&existing)
		if result.Error == gorm.ErrRecordNotFound {
			admin := models.Employee{
				Email:        adminEmail,
				Name:         "Administrator",
				PasswordHash: adminPasswordHash,
				Role:         models.RoleAdmin,
				IsActive:     true,
			}
			if err := db.Create(&admin).Error; err != nil {
				return fmt.Errorf("failed to seed admin account: %w", err)
			}
		}
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// HealthCheck performs a health check on the database
func (db *DB) HealthCheck() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return sqlDB.PingContext(ctx)
}

// Transaction executes a function within a database transaction
func (db *DB) Transaction(fn func(*gorm.DB) error) error {
	return db.DB.Transaction(fn)
}
