package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/rao-samarth/timetable-generator/internal/dto"
	"github.com/rao-samarth/timetable-generator/internal/service"
	"github.com/rao-samarth/timetable-generator/pkg/response"
)

// CatalogHandler serves catalog lifecycle endpoints.
type CatalogHandler struct {
	svc service.CatalogService
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(svc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// Reload forces a rescrape of the source documents and remerges overrides.
// POST /api/v1/catalog/reload
//
// Existing selection sessions keep their snapshots; only new sessions see
// the reloaded catalog.
func (h *CatalogHandler) Reload(c *gin.Context) {
	courses, err := h.svc.Load(c.Request.Context(), true)
	if err != nil {
		if errors.Is(err, service.ErrNoCatalogData) {
			response.NotFound(c, 20001, "no course data could be extracted, check the source documents")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, dto.ReloadResponse{CourseCount: len(courses)})
}
