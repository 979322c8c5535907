package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	// Health check endpoint (no auth required)
	s.router.GET("/health", s.healthCheck)

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		public := v1.Group("")
		{
			auth := public.Group("/auth")
			{
				auth.POST("/login", s.handleLogin)
				auth.POST("/logout", s.handleLogout)
			}

			// Read-only reference data for the booking frontend
			public.GET("/way/getall", s.getWays)
			public.GET("/office/getall", s.getOffices)
		}

		// Protected routes (employee JWT required)
		protected := v1.Group("/employee")
		protected.Use(s.authMiddleware())
		{
			// Direct way management
			way := protected.Group("/way")
			{
				way.POST("/create", s.createWay)
				way.PUT("/update", s.updateWay)
				way.DELETE("/delete", s.deleteWay)
				way.GET("/:id", s.getWay)
			}

			// Stateful way editor sessions
			wayEditor := protected.Group("/way-editor")
			{
				wayEditor.POST("", s.openEditorSession)
				wayEditor.GET("/:sid", s.getEditorSession)
				wayEditor.DELETE("/:sid", s.closeEditorSession)
				wayEditor.PUT("/:sid/name", s.setEditorInfo)
				wayEditor.PUT("/:sid/office", s.selectEditorOffice)
				wayEditor.PUT("/:sid/offset", s.setEditorOffset)
				wayEditor.PUT("/:sid/description", s.setEditorDescription)
				wayEditor.POST("/:sid/middle-points", s.addEditorMiddlePoint)
				wayEditor.DELETE("/:sid/middle-points/:index", s.removeEditorMiddlePoint)
				wayEditor.POST("/:sid/submit", s.submitEditorSession)
			}

			// Office management
			offices := protected.Group("/offices")
			{
				offices.POST("", s.createOffice)
				offices.GET("/:id", s.getOffice)
				offices.PUT("/:id", s.updateOffice)
				offices.DELETE("/:id", s.deleteOffice)
			}

			// Bus route management
			routes := protected.Group("/bus-routes")
			{
				routes.GET("", s.getBusRoutes)
				routes.POST("", s.createBusRoute)
				routes.GET("/:id", s.getBusRoute)
				routes.PUT("/:id", s.updateBusRoute)
				routes.DELETE("/:id", s.deleteBusRoute)
			}

			// Employee account management (admin only)
			accounts := protected.Group("/accounts")
			{
				accounts.GET("", s.getEmployees)
				accounts.POST("", s.createEmployee)
				accounts.GET("/:id", s.getEmployee)
				accounts.PUT("/:id", s.updateEmployee)
				accounts.DELETE("/:id", s.deleteEmployee)
			}
		}
	}

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})
}
