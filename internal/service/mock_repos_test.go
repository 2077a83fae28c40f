package service

import (
	"context"
	"errors"
	"sort"

	"github.com/rao-samarth/timetable-generator/internal/model"
)

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses map[string]model.Course

	listErr    error
	replaceErr error
	replaced   int // ReplaceAll call count
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]model.Course)}
}

func (m *mockCourseRepo) List(_ context.Context) ([]model.Course, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]model.Course, 0, len(m.courses))
	for _, c := range m.courses {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockCourseRepo) ReplaceAll(_ context.Context, courses []model.Course) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.replaced++
	m.courses = make(map[string]model.Course, len(courses))
	for _, c := range courses {
		m.courses[c.ID] = c
	}
	return nil
}

var errStoreDown = errors.New("store unavailable")
