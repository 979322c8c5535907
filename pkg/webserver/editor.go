package webserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/busline-vn/backoffice/pkg/editor"
	"github.com/busline-vn/backoffice/pkg/utils"
	"github.com/busline-vn/backoffice/pkg/way"
)

// OpenSessionRequest opens an editor session, optionally loading an
// existing way.
type OpenSessionRequest struct {
	WayID *uint `json:"way_id"`
}

// SlotRequest addresses one pickup point slot in the draft
type SlotRequest struct {
	Kind  way.Kind `json:"pickup_point_kind"`
	Index int      `json:"index"`
}

// EditorInfoRequest updates the way name and description
type EditorInfoRequest struct {
	Name        string `json:"way_name" binding:"required,min=1,max=200"`
	Description string `json:"way_description" binding:"max=1000"`
}

// EditorOfficeRequest binds an office to a slot
type EditorOfficeRequest struct {
	SlotRequest
	OfficeID uint `json:"office_id" binding:"required"`
}

// EditorOffsetRequest sets a slot's minute offset
type EditorOffsetRequest struct {
	SlotRequest
	Minutes int `json:"pickup_point_time"`
}

// EditorDescriptionRequest sets a slot's free-text note
type EditorDescriptionRequest struct {
	SlotRequest
	Description string `json:"pickup_point_description" binding:"max=1000"`
}

func (r SlotRequest) slot() (way.Slot, bool) {
	switch r.Kind {
	case way.KindStart:
		return way.StartSlot(), true
	case way.KindMiddle:
		return way.MiddleSlot(r.Index), true
	case way.KindEnd:
		return way.EndSlot(), true
	}
	return way.Slot{}, false
}

// openEditorSession opens a new way editor session for the current
// employee, loading an existing way when a way id is given.
func (s *Server) openEditorSession(c *gin.Context) {
	employee, err := s.getCurrentEmployee(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Unauthorized"))
		return
	}

	var req OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid request data"))
		return
	}

	session, err := s.editor.Open(employee.ID, req.WayID)
	if err != nil {
		if errors.Is(err, editor.ErrTooManySessions) {
			c.JSON(http.StatusConflict, utils.NewErrorResponse("Too many open editor sessions"))
			return
		}
		s.logger.WithError(err).Error("Failed to open editor session")
		c.JSON(http.StatusNotFound, utils.NewErrorResponse("Way not found"))
		return
	}

	s.respondWithSnapshot(c, http.StatusCreated, session, "Editor session opened")
}

// getEditorSession returns the draft plus selectable offices per slot
func (s *Server) getEditorSession(c *gin.Context) {
	session, ok := s.lookupSession(c)
	if !ok {
		return
	}
	s.respondWithSnapshot(c, http.StatusOK, session, "Editor session retrieved")
}

// closeEditorSession discards the draft and frees the session
func (s *Server) closeEditorSession(c *gin.Context) {
	session, ok := s.lookupSession(c)
	if !ok {
		return
	}
	if err := s.editor.Close(session.ID); err != nil {
		c.JSON(http.StatusNotFound, utils.NewErrorResponse("Editor session not found"))
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse(nil, "Editor session closed"))
}

// setEditorInfo updates the draft's way name and description
func (s *Server) setEditorInfo(c *gin.Context) {
	session, ok := s.lookupSession(c)
	if !ok {
		return
	}

	var req EditorInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid request data"))
		return
	}

	req.Name = s.validator.SanitizeInput(req.Name)
	req.Description = s.validator.SanitizeInput(req.Description)

	if err := session.SetInfo(req.Name, req.Description); err != nil {
		s.editorError(c, err)
		return
	}
	s.respondWithSnapshot(c, http.StatusOK, session, "Way info updated")
}

// selectEditorOffice binds an office to one slot of the draft
func (s *Server) selectEditorOffice(c *gin.Context) {
	session, ok := s.lookupSession(c)
	if !ok {
		return
	}

	var req EditorOfficeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid request data"))
		return
	}
	slot, ok := req.slot()
	if !ok {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid pickup point kind"))
		return
	}

	if err := session.SelectOffice(slot, req.OfficeID); err != nil {
		s.editorError(c, err)
		return
	}
	s.respondWithSnapshot(c, http.StatusOK, session, "Office selected")
}

// setEditorOffset sets the minute offset of one slot
func (s *Server) setEditorOffset(c *gin.Context) {
	session, ok := s.lookupSession(c)
	if !ok {
		return
	}

	var req EditorOffsetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid request data"))
		return
	}
	slot, ok := req.slot()
	if !ok {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid pickup point kind"))
		return
	}

	if err := session.SetOffset(slot, req.Minutes); err != nil {
		s.editorError(c, err)
		return
	}
	s.respondWithSnapshot(c, http.StatusOK, session, "Offset updated")
}

// setEditorDescription sets the free-text note of one slot
func (s *Server) setEditorDescription(c *gin.Context) {
	session, ok := s.lookupSession(c)
	if !ok {
		return
	}

	var req EditorDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid request data"))
		return
	}
	slot, ok := req.slot()
	if !ok {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid pickup point kind"))
		return
	}

	if err := session.SetPointDescription(slot, s.validator.SanitizeInput(req.Description)); err != nil {
		s.editorError(c, err)
		return
	}
	s.respondWithSnapshot(c, http.StatusOK, session, "Description updated")
}

// addEditorMiddlePoint appends a middle point, refusing while an
// existing middle is still incomplete
func (s *Server) addEditorMiddlePoint(c *gin.Context) {
	session, ok := s.lookupSession(c)
	if !ok {
		return
	}

	index, err := session.AddMiddlePoint()
	if err != nil {
		s.editorError(c, err)
		return
	}

	view, err := session.Snapshot()
	if err != nil {
		s.editorError(c, err)
		return
	}
	c.JSON(http.StatusCreated, utils.NewSuccessResponse(map[string]interface{}{
		"index": index,
		"view":  view,
	}, "Middle point added"))
}

// removeEditorMiddlePoint removes the middle point at the given index
func (s *Server) removeEditorMiddlePoint(c *gin.Context) {
	session, ok := s.lookupSession(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid middle point index"))
		return
	}

	if err := session.RemoveMiddlePoint(index); err != nil {
		s.editorError(c, err)
		return
	}
	s.respondWithSnapshot(c, http.StatusOK, session, "Middle point removed")
}

// submitEditorSession validates the draft and persists it. On failure
// the session stays open with the draft intact.
func (s *Server) submitEditorSession(c *gin.Context) {
	employee, err := s.getCurrentEmployee(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Unauthorized"))
		return
	}

	session, ok := s.lookupSession(c)
	if !ok {
		return
	}

	saved, err := session.Submit()
	if err != nil {
		s.logger.LogEditor(session.ID, employee.ID, "submit", false, err.Error())
		s.editorError(c, err)
		return
	}

	s.editor.Discard(session.ID)
	s.logger.LogEditor(session.ID, employee.ID, "submit", true, "")
	c.JSON(http.StatusOK, utils.NewSuccessResponse(saved, "Way saved successfully"))
}

// lookupSession resolves :sid and checks the session belongs to the
// current employee, writing the error response itself on failure.
func (s *Server) lookupSession(c *gin.Context) (*editor.Session, bool) {
	employee, err := s.getCurrentEmployee(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Unauthorized"))
		return nil, false
	}

	session, err := s.editor.Get(c.Param("sid"))
	if err != nil {
		c.JSON(http.StatusNotFound, utils.NewErrorResponse("Editor session not found"))
		return nil, false
	}

	if session.EmployeeID != employee.ID {
		c.JSON(http.StatusForbidden, utils.NewErrorResponse("Access denied"))
		return nil, false
	}
	return session, true
}

// respondWithSnapshot writes the current editor view
func (s *Server) respondWithSnapshot(c *gin.Context, status int, session *editor.Session, message string) {
	view, err := session.Snapshot()
	if err != nil {
		s.editorError(c, err)
		return
	}
	c.JSON(status, utils.NewSuccessResponse(view, message))
}

// editorError maps session and domain errors to HTTP status codes
func (s *Server) editorError(c *gin.Context, err error) {
	var verr *way.ValidationError
	switch {
	case errors.Is(err, editor.ErrSessionNotFound), errors.Is(err, editor.ErrSessionClosed):
		c.JSON(http.StatusNotFound, utils.NewErrorResponse("Editor session not found"))
	case errors.Is(err, way.ErrIncompleteMiddle), errors.Is(err, way.ErrOfficeInUse):
		c.JSON(http.StatusConflict, utils.NewErrorResponse(err.Error()))
	case errors.Is(err, way.ErrUnknownOffice),
		errors.Is(err, way.ErrNoSuchPoint),
		errors.Is(err, way.ErrStartOffsetFixed),
		errors.Is(err, way.ErrNegativeOffset):
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(err.Error()))
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, utils.NewErrorResponse(verr.Error()))
	default:
		s.logger.WithError(err).Error("Editor operation failed")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Editor operation failed"))
	}
}
