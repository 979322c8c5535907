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

// CreateOfficeRequest represents the request to create an office
type CreateOfficeRequest struct {
	Name    string `json:"office_name" binding:"required,min=1,max=100"`
	Address string `json:"office_address" binding:"max=500"`
	Phone   string `json:"office_phone" binding:"max=20"`
}

// UpdateOfficeRequest represents the request to update an office
type UpdateOfficeRequest struct {
	Name     string `json:"office_name" binding:"required,min=1,max=100"`
	Address  string `json:"office_address" binding:"max=500"`
	Phone    string `json:"office_phone" binding:"max=20"`
	IsActive *bool  `json:"is_active"`
}

// getOffices returns all offices
func (s *Server) getOffices(c *gin.Context) {
	repo := db.NewRepository(s.db)
	offices, err := repo.GetOffices()
	if err != nil {
		s.logger.WithError(err).Error("Failed to get offices")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to get offices"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(offices, "Offices retrieved successfully"))
}

// getOffice returns a specific office by ID
func (s *Server) getOffice(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid office ID"))
		return
	}

	repo := db.NewRepository(s.db)
	office, err := repo.GetOfficeByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utils.NewErrorResponse("Office not found"))
			return
		}
		s.logger.WithError(err).Error("Failed to get office")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to get office"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(office, "Office retrieved successfully"))
}

// createOffice creates a new office
func (s *Server) createOffice(c *gin.Context) {
	employee, err := s.getCurrentEmployee(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Unauthorized"))
		return
	}

	var req CreateOfficeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid request data"))
		return
	}

	office := &models.Office{
		Name:     s.validator.SanitizeInput(req.Name),
		Address:  s.validator.SanitizeInput(req.Address),
		Phone:    s.validator.SanitizeInput(req.Phone),
		IsActive: true,
	}

	if office.Phone != "" && !s.validator.ValidatePhone(office.Phone) {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid phone number"))
		return
	}

	repo := db.NewRepository(s.db)
	if err := repo.CreateOffice(office); err != nil {
		s.logger.WithError(err).Error("Failed to create office")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to create office"))
		return
	}

	s.logger.WithFields(map[string]interface{}{
		"employee_id": employee.ID,
		"office_id":   office.ID,
		"name":        office.Name,
	}).Info("Office created")

	c.JSON(http.StatusCreated, utils.NewSuccessResponse(office, "Office created successfully"))
}

// updateOffice updates an office
func (s *Server) updateOffice(c *gin.Context) {
	employee, err := s.getCurrentEmployee(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Unauthorized"))
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid office ID"))
		return
	}

	var req UpdateOfficeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid request data"))
		return
	}

	repo := db.NewRepository(s.db)
	office, err := repo.GetOfficeByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utils.NewErrorResponse("Office not found"))
			return
		}
		s.logger.WithError(err).Error("Failed to get office")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to get office"))
		return
	}

	office.Name = s.validator.SanitizeInput(req.Name)
	office.Address = s.validator.SanitizeInput(req.Address)
	office.Phone = s.validator.SanitizeInput(req.Phone)
	if req.IsActive != nil {
		office.IsActive = *req.IsActive
	}

	if err := repo.UpdateOffice(office); err != nil {
		s.logger.WithError(err).Error("Failed to update office")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to update office"))
		return
	}

	s.logger.WithFields(map[string]interface{}{
		"employee_id": employee.ID,
		"office_id":   office.ID,
		"name":        office.Name,
		"is_active":   office.IsActive,
	}).Info("Office updated")

	c.JSON(http.StatusOK, utils.NewSuccessResponse(office, "Office updated successfully"))
}

// deleteOffice deletes an office unless a pickup point references it
func (s *Server) deleteOffice(c *gin.Context) {
	employee, err := s.getCurrentEmployee(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Unauthorized"))
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid office ID"))
		return
	}

	repo := db.NewRepository(s.db)
	if err := repo.DeleteOffice(uint(id)); err != nil {
		if errors.Is(err, db.ErrOfficeInUse) {
			c.JSON(http.StatusConflict, utils.NewErrorResponse("Office is referenced by a pickup point"))
			return
		}
		s.logger.WithError(err).Error("Failed to delete office")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to delete office"))
		return
	}

	s.logger.WithFields(map[string]interface{}{
		"employee_id": employee.ID,
		"office_id":   id,
	}).Info("Office deleted")

	c.JSON(http.StatusOK, utils.NewSuccessResponse(nil, "Office deleted successfully"))
}
