package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rao-samarth/timetable-generator/config"
	"github.com/rao-samarth/timetable-generator/internal/api/handler"
	"github.com/rao-samarth/timetable-generator/internal/api/middleware"
	"github.com/rao-samarth/timetable-generator/pkg/redis"
)

// Setup builds the Gin engine and registers all routes.
func Setup(cfg *config.Config, h *handler.Handler, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── health check ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.Session())
	{
		// Rescraping reads both workbooks; keep it rare.
		v1.POST("/catalog/reload",
			middleware.RateLimit(rdb, 3, time.Minute), h.Catalog.Reload)

		v1.GET("/courses", h.Schedule.ListCourses)

		selections := v1.Group("/selections")
		{
			selections.POST("/toggle", h.Schedule.Toggle)
			selections.GET("", h.Schedule.GetSelection)
			selections.GET("/flat", h.Schedule.GetFlat)
		}

		export := v1.Group("/export")
		{
			export.GET("/events", h.Export.Events)
			export.GET("/ics", h.Export.ICS)
			export.GET("/grid.xlsx", h.Export.Grid)
		}
	}

	return r
}
