package webserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/busline-vn/backoffice/pkg/config"
	"github.com/busline-vn/backoffice/pkg/db"
	"github.com/busline-vn/backoffice/pkg/editor"
	"github.com/busline-vn/backoffice/pkg/log"
	"github.com/busline-vn/backoffice/pkg/models"
	"github.com/busline-vn/backoffice/pkg/utils"
)

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	db         *db.DB
	logger     *log.Logger
	router     *gin.Engine
	httpServer *http.Server
	editor     *editor.Manager
	jwtManager *utils.JWTManager
	hasher     *utils.PasswordHasher
	validator  *utils.Validator
}

// New creates a new HTTP server instance
func New(cfg *config.Config, database *db.DB, editorManager *editor.Manager, logger *log.Logger) (*Server, error) {
	jwtManager := utils.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.JWTExpirationHours)
	hasher, err := utils.NewPasswordHasher(cfg.Security.PasswordSalt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize password hasher: %w", err)
	}
	validator := utils.NewValidator()

	// Set Gin mode
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	server := &Server{
		config:     cfg,
		db:         database,
		logger:     logger,
		router:     router,
		editor:     editorManager,
		jwtManager: jwtManager,
		hasher:     hasher,
		validator:  validator,
	}

	server.setupMiddleware()
	server.setupRoutes()

	server.httpServer = &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	return server, nil
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		s.logger.WithField("panic", recovered).Error("Panic recovered")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Internal server error"))
		c.Abort()
	}))

	// Logging middleware
	s.router.Use(s.loggingMiddleware())

	// CORS middleware
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"}, // back-office frontend
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Session middleware
	store := cookie.NewStore([]byte(s.config.Security.JWTSecret))
	store.Options(sessions.Options{
		MaxAge:   86400, // 1 day
		HttpOnly: true,
		Secure:   s.config.Security.SessionCookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	s.router.Use(sessions.Sessions(s.config.Security.SessionCookieName, store))

	// Rate limiting middleware
	if s.config.Security.RateLimitEnabled {
		s.router.Use(s.rateLimitMiddleware())
	}

	// Security headers middleware
	s.router.Use(s.securityHeadersMiddleware())
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		clientIP := c.ClientIP()

		s.logger.LogRequest(
			c.Request.Method,
			path,
			c.Request.UserAgent(),
			clientIP,
			c.Writer.Status(),
			latency.Milliseconds(),
		)

		// Log slow requests
		if latency > 1*time.Second {
			s.logger.LogPerformance("http_request", latency.Milliseconds(), map[string]interface{}{
				"method": c.Request.Method,
				"path":   path,
				"query":  raw,
				"status": c.Writer.Status(),
			})
		}
	}
}

// rateLimitMiddleware implements rate limiting
func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	limiter := rate.NewLimiter(
		rate.Limit(s.config.Security.RateLimitPerMinute)/60, // per second
		s.config.Security.RateLimitBurstSize,
	)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			s.logger.LogSecurity("rate_limit_exceeded", 0, c.ClientIP(), map[string]interface{}{
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			})
			c.JSON(http.StatusTooManyRequests, utils.NewErrorResponse("Rate limit exceeded"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// securityHeadersMiddleware adds security headers
func (s *Server) securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'self'")
		c.Next()
	}
}

// authMiddleware validates employee JWT tokens
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Authorization header required"))
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>" format
		tokenString := ""
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenString = authHeader[7:]
		} else {
			c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Invalid authorization header format"))
			c.Abort()
			return
		}

		claims, err := s.jwtManager.ValidateToken(tokenString)
		if err != nil {
			s.logger.LogSecurity("invalid_token", 0, c.ClientIP(), map[string]interface{}{
				"error": err.Error(),
			})
			c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Invalid token"))
			c.Abort()
			return
		}

		repo := db.NewRepository(s.db)
		employee, err := repo.GetEmployeeByID(claims.EmployeeID)
		if err != nil {
			s.logger.LogSecurity("employee_not_found", claims.EmployeeID, c.ClientIP(), map[string]interface{}{
				"error": err.Error(),
			})
			c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Employee not found"))
			c.Abort()
			return
		}

		if !employee.IsActive {
			s.logger.LogSecurity("inactive_employee", employee.ID, c.ClientIP(), nil)
			c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Account is disabled"))
			c.Abort()
			return
		}

		c.Set("employee", employee)
		c.Set("employee_id", employee.ID)
		c.Next()
	}
}

// getCurrentEmployee gets the current employee from context
func (s *Server) getCurrentEmployee(c *gin.Context) (*models.Employee, error) {
	employee, exists := c.Get("employee")
	if !exists {
		return nil, fmt.Errorf("employee not found in context")
	}

	employeeModel, ok := employee.(*models.Employee)
	if !ok {
		return nil, fmt.Errorf("invalid employee type in context")
	}

	return employeeModel, nil
}

// requireAdmin rejects non-admin employees. Returns nil on rejection
// after writing the response.
func (s *Server) requireAdmin(c *gin.Context) *models.Employee {
	employee, err := s.getCurrentEmployee(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Unauthorized"))
		return nil
	}
	if employee.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, utils.NewErrorResponse("Admin role required"))
		return nil
	}
	return employee
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info(fmt.Sprintf("Starting server on %s", s.config.Server.GetServerAddr()))

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	s.logger.Info("Server stopped")
	return nil
}

// Health check endpoint
func (s *Server) healthCheck(c *gin.Context) {
	if err := s.db.HealthCheck(); err != nil {
		c.JSON(http.StatusServiceUnavailable, utils.NewErrorResponse("Database unavailable"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(map[string]interface{}{
		"status":          "healthy",
		"timestamp":       time.Now().UTC(),
		"version":         "1.0.0",
		"editor_sessions": s.editor.OpenCount(),
	}, "Service is healthy"))
}
