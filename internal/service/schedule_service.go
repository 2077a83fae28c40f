package service

import (
	"sync"

	"go.uber.org/zap"

	"github.com/rao-samarth/timetable-generator/internal/dto"
	"github.com/rao-samarth/timetable-generator/internal/scheduler"
)

// ── ScheduleService ─────────────────────────────────────────
//
// Design notes:
//   - Every HTTP session owns one conflict engine seeded with the course
//     snapshot current at session creation. Sessions never observe each
//     other's selections; a catalog reload affects only sessions created
//     afterwards.
//   - The session map is guarded by its own mutex; each engine additionally
//     guards its own selection state, so concurrent toggles from different
//     sessions never interleave at the map-mutation level.
// ─────────────────────────────────────────────────────────────

// ScheduleService exposes per-session selection and conflict queries.
type ScheduleService interface {
	// ListCourses returns the catalog annotated with the person's selection
	// status within the session.
	ListCourses(sessionID string, person scheduler.Person) *dto.CourseListResponse
	// Toggle flips one (course, person) selection.
	Toggle(sessionID, courseID string, person scheduler.Person) *dto.ToggleResponse
	// Selection reports the person's selected and conflicting course ids.
	Selection(sessionID string, person scheduler.Person) *dto.SelectionResponse
	// Flatten renders the session's full multi-person selection for export.
	Flatten(sessionID string) []scheduler.FlatEntry
}

type scheduleService struct {
	catalog CatalogService
	logger  *zap.Logger

	mu       sync.Mutex
	sessions map[string]*scheduler.Scheduler
}

// NewScheduleService creates a ScheduleService.
func NewScheduleService(catalogSvc CatalogService, logger *zap.Logger) ScheduleService {
	return &scheduleService{
		catalog:  catalogSvc,
		logger:   logger,
		sessions: make(map[string]*scheduler.Scheduler),
	}
}

// session returns the engine for a session id, creating it on first use with
// the current course snapshot.
func (s *scheduleService) session(sessionID string) *scheduler.Scheduler {
	s.mu.Lock()
	defer s.mu.Unlock()

	if eng, ok := s.sessions[sessionID]; ok {
		return eng
	}
	eng := scheduler.New(s.catalog.Courses())
	s.sessions[sessionID] = eng
	s.logger.Debug("session created", zap.String("session_id", sessionID))
	return eng
}

func (s *scheduleService) ListCourses(sessionID string, person scheduler.Person) *dto.CourseListResponse {
	eng := s.session(sessionID)

	conflicting := make(map[string]bool)
	for _, id := range eng.ConflictingIDs(person) {
		conflicting[id] = true
	}

	courses := s.catalog.Courses()
	out := make([]dto.CourseResponse, 0, len(courses))
	for _, c := range courses {
		status := dto.StatusAvailable
		switch {
		case eng.IsSelected(c.ID, person):
			status = dto.StatusSelected
		case conflicting[c.ID]:
			status = dto.StatusConflicting
		}
		out = append(out, dto.CourseResponse{
			ID:        c.ID,
			Name:      c.Name,
			Half:      c.Half,
			Classroom: c.Classroom,
			Sessions:  c.Sessions,
			Status:    status,
		})
	}

	return &dto.CourseListResponse{Courses: out, Total: len(out)}
}

func (s *scheduleService) Toggle(sessionID, courseID string, person scheduler.Person) *dto.ToggleResponse {
	selected := s.session(sessionID).Toggle(courseID, person)
	return &dto.ToggleResponse{
		CourseID: courseID,
		Person:   string(person),
		Selected: selected,
	}
}

func (s *scheduleService) Selection(sessionID string, person scheduler.Person) *dto.SelectionResponse {
	eng := s.session(sessionID)

	selected := eng.SelectedIDs(person)
	if selected == nil {
		selected = []string{}
	}
	conflicting := eng.ConflictingIDs(person)
	if conflicting == nil {
		conflicting = []string{}
	}

	return &dto.SelectionResponse{
		Person:      string(person),
		Selected:    selected,
		Conflicting: conflicting,
	}
}

func (s *scheduleService) Flatten(sessionID string) []scheduler.FlatEntry {
	return s.session(sessionID).Flatten()
}
