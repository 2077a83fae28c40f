package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/rao-samarth/timetable-generator/config"
	"github.com/rao-samarth/timetable-generator/internal/catalog"
	"github.com/rao-samarth/timetable-generator/internal/model"
	"github.com/rao-samarth/timetable-generator/internal/repository"
	"github.com/rao-samarth/timetable-generator/pkg/redis"
)

// ErrNoCatalogData means neither the store, the cache, nor a fresh scrape
// produced any courses. Callers surface a "no data" condition; the process
// keeps serving.
var ErrNoCatalogData = errors.New("no catalog data available")

// ── CatalogService ──────────────────────────────────────────
//
// Design notes:
//   - Load runs the scrape-or-load pipeline once and swaps an immutable
//     snapshot under a lock; everything else only reads that snapshot.
//   - Scraped data persists to PostgreSQL; the merged (post-override) list is
//     cached in Redis. Both stores are skipped, never fatal, when
//     unavailable.
//   - Manual overrides load from a JSON file on every build and apply as a
//     pass-through replace/delete merge over the scraped list.
// ─────────────────────────────────────────────────────────────

// CatalogService owns the course database lifecycle.
type CatalogService interface {
	// Load builds (or rebuilds, when force is true) the course database.
	Load(ctx context.Context, force bool) ([]model.Course, error)
	// Courses returns the current immutable snapshot, sorted by name.
	Courses() []model.Course
	// Course looks a course up by id.
	Course(id string) (model.Course, bool)
}

type catalogService struct {
	cfg    *config.CatalogConfig
	repo   *repository.Repository
	rdb    *redis.Client
	logger *zap.Logger

	mu      sync.RWMutex
	courses []model.Course
	byID    map[string]model.Course
}

// NewCatalogService creates a CatalogService. rdb may be nil.
func NewCatalogService(cfg *config.CatalogConfig, repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) CatalogService {
	return &catalogService{
		cfg:    cfg,
		repo:   repo,
		rdb:    rdb,
		logger: logger,
		byID:   make(map[string]model.Course),
	}
}

func (s *catalogService) Load(ctx context.Context, force bool) ([]model.Course, error) {
	// Fast path: the merged list is already cached.
	if !force && s.rdb != nil {
		if cached, err := s.rdb.CachedCourses(ctx); err == nil && len(cached) > 0 {
			s.logger.Info("course database loaded from cache", zap.Int("count", len(cached)))
			s.swap(cached)
			return cached, nil
		} else if err != nil && !errors.Is(err, redis.ErrCacheMiss) {
			s.logger.Warn("course cache read failed", zap.Error(err))
		}
	}

	// A forced rebuild drops the cached list up front, so a failure between
	// the scrape and the cache write cannot leave a stale copy to be served.
	if force && s.rdb != nil {
		if err := s.rdb.InvalidateCourses(ctx); err != nil {
			s.logger.Warn("course cache invalidation failed", zap.Error(err))
		}
	}

	// Load the persisted scrape, unless a rescrape is forced.
	var scraped []model.Course
	if !force {
		stored, err := s.repo.Course.List(ctx)
		if err != nil {
			s.logger.Warn("persisted course list unavailable", zap.Error(err))
		} else {
			scraped = stored
		}
	}

	// Scrape fresh when forced or nothing is persisted.
	if len(scraped) == 0 {
		s.logger.Info("scraping course data from source documents",
			zap.String("catalog", s.cfg.CoursesWorkbook),
			zap.String("schedule", s.cfg.ScheduleWorkbook),
		)
		scraped = catalog.ExtractCourses(s.cfg.CoursesWorkbook, s.cfg.ScheduleWorkbook, s.logger)
		if len(scraped) > 0 {
			if err := s.repo.Course.ReplaceAll(ctx, scraped); err != nil {
				s.logger.Warn("persisting scraped courses failed", zap.Error(err))
			}
		}
	}

	// Merge manual corrections, then publish.
	overrides := s.loadOverrides()
	final := catalog.ApplyOverrides(scraped, overrides)

	if len(final) == 0 {
		s.swap(nil)
		return nil, ErrNoCatalogData
	}

	if s.rdb != nil {
		if err := s.rdb.CacheCourses(ctx, final, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("course cache write failed", zap.Error(err))
		}
	}

	s.logger.Info("course database ready",
		zap.Int("scraped", len(scraped)),
		zap.Int("overrides", len(overrides)),
		zap.Int("final", len(final)),
	)
	s.swap(final)
	return final, nil
}

// loadOverrides reads the manual correction file. A missing file means no
// overrides; an unreadable or malformed one is logged and skipped.
func (s *catalogService) loadOverrides() []catalog.Override {
	data, err := os.ReadFile(s.cfg.ManualOverrides)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("manual override file unreadable",
				zap.String("path", s.cfg.ManualOverrides), zap.Error(err))
		}
		return nil
	}

	var overrides []catalog.Override
	if err := json.Unmarshal(data, &overrides); err != nil {
		s.logger.Warn("manual override file malformed",
			zap.String("path", s.cfg.ManualOverrides), zap.Error(err))
		return nil
	}
	return overrides
}

func (s *catalogService) swap(courses []model.Course) {
	byID := make(map[string]model.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	s.mu.Lock()
	s.courses = courses
	s.byID = byID
	s.mu.Unlock()
}

func (s *catalogService) Courses() []model.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.courses
}

func (s *catalogService) Course(id string) (model.Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byID[id]
	return c, ok
}
