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

// CreateEmployeeRequest represents the request to create an employee
type CreateEmployeeRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=admin operator"`
}

// UpdateEmployeeRequest represents the request to update an employee
type UpdateEmployeeRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Password string `json:"password" binding:"omitempty,min=8"`
	Role     string `json:"role" binding:"required,oneof=admin operator"`
	IsActive *bool  `json:"is_active"`
}

// getEmployees returns all employee accounts, paginated. Admin only.
func (s *Server) getEmployees(c *gin.Context) {
	if s.requireAdmin(c) == nil {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	repo := db.NewRepository(s.db)
	total, err := repo.GetEmployeesCount()
	if err != nil {
		s.logger.WithError(err).Error("Failed to count employees")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to get employees"))
		return
	}

	pagination := utils.NewPagination(page, limit, total)
	employees, err := repo.GetEmployees(pagination.Limit, pagination.GetOffset())
	if err != nil {
		s.logger.WithError(err).Error("Failed to get employees")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to get employees"))
		return
	}

	c.JSON(http.StatusOK, utils.NewPaginatedResponse(employees, pagination, "Employees retrieved successfully"))
}

// getEmployee returns a specific employee account. Admin only.
func (s *Server) getEmployee(c *gin.Context) {
	if s.requireAdmin(c) == nil {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid employee ID"))
		return
	}

	repo := db.NewRepository(s.db)
	employee, err := repo.GetEmployeeByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utils.NewErrorResponse("Employee not found"))
			return
		}
		s.logger.WithError(err).Error("Failed to get employee")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to get employee"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(employee, "Employee retrieved successfully"))
}

// createEmployee creates an employee account. Admin only.
func (s *Server) createEmployee(c *gin.Context) {
	admin := s.requireAdmin(c)
	if admin == nil {
		return
	}

	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid request data"))
		return
	}

	employee := &models.Employee{
		Email:        s.validator.SanitizeInput(req.Email),
		Name:         s.validator.SanitizeInput(req.Name),
		PasswordHash: s.hasher.Hash(req.Password),
		Role:         models.EmployeeRole(req.Role),
		IsActive:     true,
	}

	repo := db.NewRepository(s.db)
	if _, err := repo.GetEmployeeByEmail(employee.Email); err == nil {
		c.JSON(http.StatusConflict, utils.NewErrorResponse("Email is already in use"))
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.WithError(err).Error("Failed to check employee email")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to create employee"))
		return
	}

	if err := repo.CreateEmployee(employee); err != nil {
		s.logger.WithError(err).Error("Failed to create employee")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to create employee"))
		return
	}

	s.logger.WithFields(map[string]interface{}{
		"admin_id":    admin.ID,
		"employee_id": employee.ID,
		"email":       employee.Email,
		"role":        employee.Role,
	}).Info("Employee created")

	c.JSON(http.StatusCreated, utils.NewSuccessResponse(employee, "Employee created successfully"))
}

// updateEmployee updates an employee account. Admin only.
func (s *Server) updateEmployee(c *gin.Context) {
	admin := s.requireAdmin(c)
	if admin == nil {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid employee ID"))
		return
	}

	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid request data"))
		return
	}

	repo := db.NewRepository(s.db)
	employee, err := repo.GetEmployeeByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utils.NewErrorResponse("Employee not found"))
			return
		}
		s.logger.WithError(err).Error("Failed to get employee")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to update employee"))
		return
	}

	// Admins cannot demote or deactivate themselves
	if employee.ID == admin.ID {
		if req.Role != string(models.RoleAdmin) || (req.IsActive != nil && !*req.IsActive) {
			c.JSON(http.StatusConflict, utils.NewErrorResponse("Cannot demote or deactivate your own account"))
			return
		}
	}

	employee.Name = s.validator.SanitizeInput(req.Name)
	employee.Role = models.EmployeeRole(req.Role)
	if req.Password != "" {
		employee.PasswordHash = s.hasher.Hash(req.Password)
	}
	if req.IsActive != nil {
		employee.IsActive = *req.IsActive
	}

	if err := repo.UpdateEmployee(employee); err != nil {
		s.logger.WithError(err).Error("Failed to update employee")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to update employee"))
		return
	}

	s.logger.WithFields(map[string]interface{}{
		"admin_id":    admin.ID,
		"employee_id": employee.ID,
		"role":        employee.Role,
		"is_active":   employee.IsActive,
	}).Info("Employee updated")

	c.JSON(http.StatusOK, utils.NewSuccessResponse(employee, "Employee updated successfully"))
}

// deleteEmployee deletes an employee account. Admin only.
func (s *Server) deleteEmployee(c *gin.Context) {
	admin := s.requireAdmin(c)
	if admin == nil {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid employee ID"))
		return
	}

	if uint(id) == admin.ID {
		c.JSON(http.StatusConflict, utils.NewErrorResponse("Cannot delete your own account"))
		return
	}

	repo := db.NewRepository(s.db)
	if err := repo.DeleteEmployee(uint(id)); err != nil {
		s.logger.WithError(err).Error("Failed to delete employee")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to delete employee"))
		return
	}

	s.logger.WithFields(map[string]interface{}{
		"admin_id":    admin.ID,
		"employee_id": id,
	}).Info("Employee deleted")

	c.JSON(http.StatusOK, utils.NewSuccessResponse(nil, "Employee deleted successfully"))
}
