package webserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/busline-vn/backoffice/pkg/db"
	"github.com/busline-vn/backoffice/pkg/utils"
	"github.com/busline-vn/backoffice/pkg/way"
)

// getWays returns all ways with their pickup points, paginated
func (s *Server) getWays(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	repo := db.NewRepository(s.db)
	total, err := repo.GetWaysCount()
	if err != nil {
		s.logger.WithError(err).Error("Failed to count ways")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to get ways"))
		return
	}

	pagination := utils.NewPagination(page, limit, total)
	ways, err := repo.GetWays(pagination.Limit, pagination.GetOffset())
	if err != nil {
		s.logger.WithError(err).Error("Failed to get ways")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to get ways"))
		return
	}

	c.JSON(http.StatusOK, utils.NewPaginatedResponse(ways, pagination, "Ways retrieved successfully"))
}

// getWay returns a single way in transport form
func (s *Server) getWay(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid way ID"))
		return
	}

	repo := db.NewRepository(s.db)
	t, err := repo.GetWayTransport(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utils.NewErrorResponse("Way not found"))
			return
		}
		s.logger.WithError(err).Error("Failed to get way")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to get way"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(t, "Way retrieved successfully"))
}

// createWay validates a transport payload and persists a new way
func (s *Server) createWay(c *gin.Context) {
	employee, err := s.getCurrentEmployee(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Unauthorized"))
		return
	}

	var t way.Transport
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid request data"))
		return
	}
	t.WayID = nil

	encoded, ok := s.checkWayTransport(c, &t)
	if !ok {
		return
	}

	repo := db.NewRepository(s.db)
	saved, err := repo.CreateWay(encoded)
	if err != nil {
		s.logger.LogWay(0, employee.ID, "create", false, len(encoded.Points))
		s.logger.WithError(err).Error("Failed to create way")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to create way"))
		return
	}

	s.logger.LogWay(saved.ID, employee.ID, "create", true, len(encoded.Points))
	c.JSON(http.StatusCreated, utils.NewSuccessResponse(saved, "Way created successfully"))
}

// updateWay validates a transport payload and replaces an existing way
func (s *Server) updateWay(c *gin.Context) {
	employee, err := s.getCurrentEmployee(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Unauthorized"))
		return
	}

	var t way.Transport
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid request data"))
		return
	}
	if t.WayID == nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("way_id is required"))
		return
	}

	encoded, ok := s.checkWayTransport(c, &t)
	if !ok {
		return
	}

	repo := db.NewRepository(s.db)
	saved, err := repo.UpdateWay(encoded)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utils.NewErrorResponse("Way not found"))
			return
		}
		s.logger.LogWay(*t.WayID, employee.ID, "update", false, len(encoded.Points))
		s.logger.WithError(err).Error("Failed to update way")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to update way"))
		return
	}

	s.logger.LogWay(saved.ID, employee.ID, "update", true, len(encoded.Points))
	c.JSON(http.StatusOK, utils.NewSuccessResponse(saved, "Way updated successfully"))
}

// checkWayTransport runs the payload through the domain round-trip so
// the direct API enforces the same invariants as the editor. Writes
// the error response itself and reports ok=false on failure.
func (s *Server) checkWayTransport(c *gin.Context, t *way.Transport) (*way.Transport, bool) {
	draft, err := way.Decode(t)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(err.Error()))
		return nil, false
	}
	if err := draft.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, utils.NewErrorResponse(err.Error()))
		return nil, false
	}
	return draft.Encode(), true
}

// deleteWay removes a way unless a bus route still references it
func (s *Server) deleteWay(c *gin.Context) {
	employee, err := s.getCurrentEmployee(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Unauthorized"))
		return
	}

	id, err := strconv.ParseUint(c.Query("wayId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid way ID"))
		return
	}

	repo := db.NewRepository(s.db)
	if err := repo.DeleteWay(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utils.NewErrorResponse("Way not found"))
			return
		}
		if errors.Is(err, db.ErrWayInUse) {
			c.JSON(http.StatusConflict, utils.NewErrorResponse("Way is referenced by a bus route"))
			return
		}
		s.logger.WithError(err).Error("Failed to delete way")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to delete way"))
		return
	}

	s.logger.LogWay(uint(id), employee.ID, "delete", true, 0)
	c.JSON(http.StatusOK, utils.NewSuccessResponse(nil, "Way deleted successfully"))
}
