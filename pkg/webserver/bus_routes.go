package webserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/busline-vn/backoffice/pkg/db"
	"github.com/busline-vn/backoffice/pkg/models"
	"github.com/busline-vn/backoffice/pkg/utils"
)

// CreateBusRouteRequest represents the request to create a bus route
type CreateBusRouteRequest struct {
	WayID      uint    `json:"way_id" binding:"required"`
	Name       string  `json:"route_name" binding:"required,min=1,max=200"`
	DistanceKm float64 `json:"distance_km" binding:"gte=0"`
	BasePrice  int64   `json:"base_price" binding:"required,gte=0"`
}

// UpdateBusRouteRequest represents the request to update a bus route
type UpdateBusRouteRequest struct {
	WayID      uint    `json:"way_id" binding:"required"`
	Name       string  `json:"route_name" binding:"required,min=1,max=200"`
	DistanceKm float64 `json:"distance_km" binding:"gte=0"`
	BasePrice  int64   `json:"base_price" binding:"required,gte=0"`
	IsActive   *bool   `json:"is_active"`
}

// getBusRoutes returns all bus routes, paginated
func (s *Server) getBusRoutes(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	repo := db.NewRepository(s.db)
	total, err := repo.GetBusRoutesCount()
	if err != nil {
		s.logger.WithError(err).Error("Failed to count bus routes")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to get bus routes"))
		return
	}

	pagination := utils.NewPagination(page, limit, total)
	routes, err := repo.GetBusRoutes(pagination.Limit, pagination.GetOffset())
	if err != nil {
		s.logger.WithError(err).Error("Failed to get bus routes")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to get bus routes"))
		return
	}

	c.JSON(http.StatusOK, utils.NewPaginatedResponse(routes, pagination, "Bus routes retrieved successfully"))
}

// getBusRoute returns a specific bus route with its way
func (s *Server) getBusRoute(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid route ID"))
		return
	}

	repo := db.NewRepository(s.db)
	route, err := repo.GetBusRouteByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utils.NewErrorResponse("Bus route not found"))
			return
		}
		s.logger.WithError(err).Error("Failed to get bus route")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to get bus route"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(route, "Bus route retrieved successfully"))
}

// createBusRoute creates a bus route referencing an existing way
func (s *Server) createBusRoute(c *gin.Context) {
	employee, err := s.getCurrentEmployee(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Unauthorized"))
		return
	}

	var req CreateBusRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid request data"))
		return
	}

	repo := db.NewRepository(s.db)
	if _, err := repo.GetWayByID(req.WayID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Referenced way does not exist"))
			return
		}
		s.logger.WithError(err).Error("Failed to check way")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to create bus route"))
		return
	}

	route := &models.BusRoute{
		WayID:      req.WayID,
		Name:       s.validator.SanitizeInput(req.Name),
		DistanceKm: req.DistanceKm,
		BasePrice:  req.BasePrice,
		IsActive:   true,
	}

	if err := repo.CreateBusRoute(route); err != nil {
		s.logger.WithError(err).Error("Failed to create bus route")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to create bus route"))
		return
	}

	s.logger.WithFields(map[string]interface{}{
		"employee_id": employee.ID,
		"route_id":    route.ID,
		"way_id":      route.WayID,
		"name":        route.Name,
	}).Info("Bus route created")

	c.JSON(http.StatusCreated, utils.NewSuccessResponse(route, "Bus route created successfully"))
}

// updateBusRoute updates a bus route
func (s *Server) updateBusRoute(c *gin.Context) {
	employee, err := s.getCurrentEmployee(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Unauthorized"))
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid route ID"))
		return
	}

	var req UpdateBusRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid request data"))
		return
	}

	repo := db.NewRepository(s.db)
	route, err := repo.GetBusRouteByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utils.NewErrorResponse("Bus route not found"))
			return
		}
		s.logger.WithError(err).Error("Failed to get bus route")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to update bus route"))
		return
	}

	if req.WayID != route.WayID {
		if _, err := repo.GetWayByID(req.WayID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Referenced way does not exist"))
				return
			}
			s.logger.WithError(err).Error("Failed to check way")
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to update bus route"))
			return
		}
	}

	route.WayID = req.WayID
	route.Name = s.validator.SanitizeInput(req.Name)
	route.DistanceKm = req.DistanceKm
	route.BasePrice = req.BasePrice
	if req.IsActive != nil {
		route.IsActive = *req.IsActive
	}
	route.Way = models.Way{}

	if err := repo.UpdateBusRoute(route); err != nil {
		s.logger.WithError(err).Error("Failed to update bus route")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to update bus route"))
		return
	}

	s.logger.WithFields(map[string]interface{}{
		"employee_id": employee.ID,
		"route_id":    route.ID,
		"way_id":      route.WayID,
		"is_active":   route.IsActive,
	}).Info("Bus route updated")

	c.JSON(http.StatusOK, utils.NewSuccessResponse(route, "Bus route updated successfully"))
}

// deleteBusRoute deletes a bus route
func (s *Server) deleteBusRoute(c *gin.Context) {
	employee, err := s.getCurrentEmployee(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Unauthorized"))
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid route ID"))
		return
	}

	repo := db.NewRepository(s.db)
	if err := repo.DeleteBusRoute(uint(id)); err != nil {
		s.logger.WithError(err).Error("Failed to delete bus route")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to delete bus route"))
		return
	}

	s.logger.WithFields(map[string]interface{}{
		"employee_id": employee.ID,
		"route_id":    id,
	}).Info("Bus route deleted")

	c.JSON(http.StatusOK, utils.NewSuccessResponse(nil, "Bus route deleted successfully"))
}
