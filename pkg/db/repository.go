package db

import (
	"errors"
	"time"

	"github.com/busline-vn/backoffice/pkg/models"
	"github.com/busline-vn/backoffice/pkg/way"
	"gorm.io/gorm"
)

var (
	// ErrWayInUse is returned when deleting a way that a bus route
	// still references.
	ErrWayInUse = errors.New("db: way is referenced by a bus route")

	// ErrOfficeInUse is returned when deleting an office that a pickup
	// point still references.
	ErrOfficeInUse = errors.New("db: office is referenced by a pickup point")
)

// Repository provides database operations for specific models
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) DB() *DB {
	return r.db
}

// Way repository methods. Ways are persisted as a way row plus its flat
// ordered pickup-point list; create and update replace the whole list in
// one transaction so a way is never visible half-written.

func (r *Repository) GetWays(limit, offset int) ([]models.Way, error) {
	var ways []models.Way
	err := r.db.
		Preload("PickupPoints", func(db *gorm.DB) *gorm.DB {
			return db.Order("pickup_points.position")
		}).
		Preload("PickupPoints.Office").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&ways).Error
	return ways, err
}

func (r *Repository) GetWayByID(id uint) (*models.Way, error) {
	var w models.Way
	err := r.db.
		Preload("PickupPoints", func(db *gorm.DB) *gorm.DB {
			return db.Order("pickup_points.position")
		}).
		Preload("PickupPoints.Office").
		First(&w, id).Error
	return &w, err
}

func (r *Repository) GetWaysCount() (int, error) {
	var count int64
	err := r.db.Model(&models.Way{}).Count(&count).Error
	return int(count), err
}

// CreateWay persists a new way from its transport form.
func (r *Repository) CreateWay(t *way.Transport) (*models.Way, error) {
	w := &models.Way{
		Name:        t.Name,
		Description: t.Description,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(w).Error; err != nil {
			return err
		}
		return tx.Create(transportPoints(w.ID, t)).Error
	})
	if err != nil {
		return nil, err
	}

	return r.GetWayByID(w.ID)
}

// UpdateWay rewrites an existing way from its transport form, replacing
// the pickup-point list.
func (r *Repository) UpdateWay(t *way.Transport) (*models.Way, error) {
	if t.WayID == nil {
		return nil, errors.New("db: update requires a way id")
	}
	id := *t.WayID

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Way
		if err := tx.First(&existing, id).Error; err != nil {
			return err
		}

		existing.Name = t.Name
		existing.Description = t.Description
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}

		if err := tx.Where("way_id = ?", id).Delete(&models.PickupPoint{}).Error; err != nil {
			return err
		}
		return tx.Create(transportPoints(id, t)).Error
	})
	if err != nil {
		return nil, err
	}

	return r.GetWayByID(id)
}

func (r *Repository) DeleteWay(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var routeCount int64
		if err := tx.Model(&models.BusRoute{}).Where("way_id = ?", id).Count(&routeCount).Error; err != nil {
			return err
		}
		if routeCount > 0 {
			return ErrWayInUse
		}

		if err := tx.Where("way_id = ?", id).Delete(&models.PickupPoint{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Way{}, id).Error
	})
}

// GetWayTransport loads a way in the flat transport form the editor
// decodes from.
func (r *Repository) GetWayTransport(id uint) (*way.Transport, error) {
	w, err := r.GetWayByID(id)
	if err != nil {
		return nil, err
	}

	points := make([]way.TransportPoint, len(w.PickupPoints))
	for i, p := range w.PickupPoints {
		points[i] = way.TransportPoint{
			OfficeID:    p.OfficeID,
			Name:        p.Name,
			Time:        p.TimeOffset,
			Kind:        way.Kind(p.Kind),
			Description: p.Description,
		}
	}

	wayID := w.ID
	return &way.Transport{
		WayID:       &wayID,
		Name:        w.Name,
		Description: w.Description,
		Points:      points,
	}, nil
}

func transportPoints(wayID uint, t *way.Transport) []models.PickupPoint {
	points := make([]models.PickupPoint, len(t.Points))
	for i, p := range t.Points {
		points[i] = models.PickupPoint{
			WayID:       wayID,
			OfficeID:    p.OfficeID,
			Name:        p.Name,
			TimeOffset:  p.Time,
			Kind:        int(p.Kind),
			Description: p.Description,
			Position:    i,
		}
	}
	return points
}

// Office repository methods

func (r *Repository) GetOffices() ([]models.Office, error) {
	var offices []models.Office
	err := r.db.Order("name").Find(&offices).Error
	return offices, err
}

func (r *Repository) GetOfficeByID(id uint) (*models.Office, error) {
	var office models.Office
	err := r.db.First(&office, id).Error
	return &office, err
}

func (r *Repository) CreateOffice(office *models.Office) error {
	return r.db.Create(office).Error
}

func (r *Repository) UpdateOffice(office *models.Office) error {
	return r.db.Save(office).Error
}

func (r *Repository) DeleteOffice(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var pointCount int64
		if err := tx.Model(&models.PickupPoint{}).Where("office_id = ?", id).Count(&pointCount).Error; err != nil {
			return err
		}
		if pointCount > 0 {
			return ErrOfficeInUse
		}
		return tx.Delete(&models.Office{}, id).Error
	})
}

// ActiveOfficeRefs returns active offices as the editor's reference
// data, fetched once per editing session.
func (r *Repository) ActiveOfficeRefs() ([]way.Office, error) {
	var offices []models.Office
	if err := r.db.Where("is_active = ?", true).Order("name").Find(&offices).Error; err != nil {
		return nil, err
	}

	refs := make([]way.Office, len(offices))
	for i, o := range offices {
		refs[i] = way.Office{ID: o.ID, Name: o.Name}
	}
	return refs, nil
}

// BusRoute repository methods

func (r *Repository) GetBusRoutes(limit, offset int) ([]models.BusRoute, error) {
	var routes []models.BusRoute
	err := r.db.
		Preload("Way").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&routes).Error
	return routes, err
}

func (r *Repository) GetBusRoutesCount() (int, error) {
	var count int64
	err := r.db.Model(&models.BusRoute{}).Count(&count).Error
	return int(count), err
}

func (r *Repository) GetBusRouteByID(id uint) (*models.BusRoute, error) {
	var route models.BusRoute
	err := r.db.Preload("Way").Preload("Way.PickupPoints", func(db *gorm.DB) *gorm.DB {
		return db.Order("pickup_points.position")
	}).First(&route, id).Error
	return &route, err
}

func (r *Repository) CreateBusRoute(route *models.BusRoute) error {
	return r.db.Create(route).Error
}

func (r *Repository) UpdateBusRoute(route *models.BusRoute) error {
	return r.db.Save(route).Error
}

func (r *Repository) DeleteBusRoute(id uint) error {
	return r.db.Delete(&models.BusRoute{}, id).Error
}

// Employee repository methods

func (r *Repository) GetEmployees(limit, offset int) ([]models.Employee, error) {
	var employees []models.Employee
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&employees).Error
	return employees, err
}

func (r *Repository) GetEmployeesCount() (int, error) {
	var count int64
	err := r.db.Model(&models.Employee{}).Count(&count).Error
	return int(count), err
}

func (r *Repository) GetEmployeeByID(id uint) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.First(&employee, id).Error
	return &employee, err
}

func (r *Repository) GetEmployeeByEmail(email string) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.Where("email = ?", email).First(&employee).Error
	return &employee, err
}

func (r *Repository) CreateEmployee(employee *models.Employee) error {
	return r.db.Create(employee).Error
}

func (r *Repository) UpdateEmployee(employee *models.Employee) error {
	return r.db.Save(employee).Error
}

func (r *Repository) DeleteEmployee(id uint) error {
	return r.db.Delete(&models.Employee{}, id).Error
}

func (r *Repository) TouchEmployeeLogin(id uint) error {
	now := time.Now()
	return r.db.Model(&models.Employee{}).Where("id = ?", id).Update("last_login_at", &now).Error
}
