package catalog

import (
	"go.uber.org/zap"

	"github.com/rao-samarth/timetable-generator/internal/model"
)

// ExtractCourses runs the full two-document extraction: catalog workbook →
// registry, then schedule workbook → sessions.
//
// Failure semantics are deliberately soft. A missing or unreadable catalog
// yields an empty course list and a warning; the caller surfaces a "no data"
// condition, the process keeps running. A missing schedule skips scanning, so
// registry-only courses come back with empty session lists.
func ExtractCourses(catalogPath, schedulePath string, logger *zap.Logger) []model.Course {
	pages, err := CatalogPages(catalogPath)
	if err != nil {
		logger.Warn("catalog document unreadable, no course data",
			zap.String("path", catalogPath), zap.Error(err))
		return nil
	}

	registry := BuildRegistry(pages, catalogNameColumn, logger)
	if len(registry) == 0 {
		logger.Warn("catalog document produced an empty registry", zap.String("path", catalogPath))
		return nil
	}

	scanner := NewScanner(registry, logger)

	schedulePages, err := SchedulePages(schedulePath)
	if err != nil {
		logger.Warn("schedule document unreadable, courses will have no sessions",
			zap.String("path", schedulePath), zap.Error(err))
	} else {
		for i, rows := range schedulePages {
			scanner.ScanPage(i, rows)
		}
	}

	return scanner.Courses()
}
