package service

import (
	"go.uber.org/zap"

	"github.com/rao-samarth/timetable-generator/config"
	"github.com/rao-samarth/timetable-generator/internal/repository"
	"github.com/rao-samarth/timetable-generator/internal/term"
	"github.com/rao-samarth/timetable-generator/pkg/redis"
)

// Service aggregates all business services.
type Service struct {
	Catalog  CatalogService
	Schedule ScheduleService
	Export   ExportService
}

// NewService wires the aggregate. rdb may be nil (cache disabled).
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	rdb *redis.Client,
	cal *term.Calendar,
	logger *zap.Logger,
) *Service {
	catalogSvc := NewCatalogService(&cfg.Catalog, repo, rdb, logger)
	scheduleSvc := NewScheduleService(catalogSvc, logger)
	exportSvc := NewExportService(scheduleSvc, cal, logger)

	return &Service{
		Catalog:  catalogSvc,
		Schedule: scheduleSvc,
		Export:   exportSvc,
	}
}
