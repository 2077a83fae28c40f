package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/rao-samarth/timetable-generator/internal/dto"
	"github.com/rao-samarth/timetable-generator/internal/scheduler"
	"github.com/rao-samarth/timetable-generator/internal/service"
	"github.com/rao-samarth/timetable-generator/pkg/response"
)

// ScheduleHandler serves course listing and selection endpoints.
type ScheduleHandler struct {
	svc service.ScheduleService
}

// NewScheduleHandler creates a ScheduleHandler.
func NewScheduleHandler(svc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

// ListCourses returns the catalog annotated with selection status.
// GET /api/v1/courses?person=
func (h *ScheduleHandler) ListCourses(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}
	response.OK(c, h.svc.ListCourses(sessionID, personFromQuery(c)))
}

// Toggle flips one (course, person) selection.
// POST /api/v1/selections/toggle
func (h *ScheduleHandler) Toggle(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	var req dto.ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 30001, "course_id is required")
		return
	}

	response.OK(c, h.svc.Toggle(sessionID, req.CourseID, scheduler.Person(req.Person)))
}

// GetSelection reports the person's selected and conflicting course ids.
// GET /api/v1/selections?person=
func (h *ScheduleHandler) GetSelection(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}
	response.OK(c, h.svc.Selection(sessionID, personFromQuery(c)))
}

// GetFlat returns the flattened multi-person export entries.
// GET /api/v1/selections/flat
func (h *ScheduleHandler) GetFlat(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}
	entries := h.svc.Flatten(sessionID)
	if entries == nil {
		entries = []scheduler.FlatEntry{}
	}
	response.OK(c, dto.FlatResponse{Entries: entries, Total: len(entries)})
}
