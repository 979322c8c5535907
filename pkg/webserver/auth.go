package webserver

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/busline-vn/backoffice/pkg/db"
	"github.com/busline-vn/backoffice/pkg/utils"
)

// LoginRequest represents the credential login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=1"`
}

// handleLogin authenticates an employee and issues a JWT
func (s *Server) handleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid request data"))
		return
	}

	req.Email = s.validator.SanitizeInput(req.Email)

	repo := db.NewRepository(s.db)
	employee, err := repo.GetEmployeeByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.LogAuth(0, req.Email, "login", false)
			c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Invalid credentials"))
			return
		}
		s.logger.WithError(err).Error("Failed to look up employee")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Login failed"))
		return
	}

	if !s.hasher.Verify(req.Password, employee.PasswordHash) {
		s.logger.LogAuth(employee.ID, employee.Email, "login", false)
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Invalid credentials"))
		return
	}

	if !employee.IsActive {
		s.logger.LogSecurity("inactive_login_attempt", employee.ID, c.ClientIP(), nil)
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Account is disabled"))
		return
	}

	token, err := s.jwtManager.GenerateToken(employee.ID, employee.Email, string(employee.Role))
	if err != nil {
		s.logger.WithError(err).Error("Failed to generate token")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Login failed"))
		return
	}

	if err := repo.TouchEmployeeLogin(employee.ID); err != nil {
		s.logger.WithError(err).Warn("Failed to record login time")
	}

	// Keep the employee id in the cookie session alongside the JWT
	session := sessions.Default(c)
	session.Set("employee_id", employee.ID)
	if err := session.Save(); err != nil {
		s.logger.WithError(err).Warn("Failed to save session")
	}

	s.logger.LogAuth(employee.ID, employee.Email, "login", true)

	c.JSON(http.StatusOK, utils.NewSuccessResponse(map[string]interface{}{
		"token":    token,
		"employee": employee,
	}, "Login successful"))
}

// handleLogout clears the cookie session
func (s *Server) handleLogout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		s.logger.WithError(err).Warn("Failed to clear session")
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(nil, "Logged out successfully"))
}
