package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rao-samarth/timetable-generator/internal/service"
	"github.com/rao-samarth/timetable-generator/pkg/response"
)

// ExportHandler serves the export endpoints.
type ExportHandler struct {
	svc service.ExportService
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(svc service.ExportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// Events returns the session's expanded dated events as JSON.
// GET /api/v1/export/events
func (h *ExportHandler) Events(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	resp, err := h.svc.Events(sessionID)
	if err != nil {
		handleExportError(c, err)
		return
	}
	response.OK(c, resp)
}

// ICS streams the session's schedule as an iCalendar file.
// GET /api/v1/export/ics
func (h *ExportHandler) ICS(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	buf, filename, err := h.svc.ICS(sessionID)
	if err != nil {
		handleExportError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
}

// Grid streams the weekly grid workbook.
// GET /api/v1/export/grid.xlsx
func (h *ExportHandler) Grid(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	buf, filename, err := h.svc.Grid(sessionID)
	if err != nil {
		handleExportError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// handleExportError maps export service errors onto the response envelope.
func handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoSelection):
		response.BadRequest(c, 40001, "select courses before exporting")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.Error(c, http.StatusInternalServerError, 40002, "generating the export file failed")
	default:
		response.InternalError(c)
	}
}
