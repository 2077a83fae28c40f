package dto

import "github.com/rao-samarth/timetable-generator/internal/model"

// CourseStatus classifies a course relative to one person's selections.
type CourseStatus string

const (
	StatusAvailable   CourseStatus = "available"
	StatusSelected    CourseStatus = "selected"
	StatusConflicting CourseStatus = "conflicting"
)

// CourseResponse is one course in the listing, annotated with its selection
// status for the requesting session/person.
type CourseResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Half      model.Half        `json:"half"`
	Classroom string            `json:"classroom"`
	Sessions  model.SessionList `json:"sessions"`
	Status    CourseStatus      `json:"status"`
}

// CourseListResponse wraps the annotated listing.
type CourseListResponse struct {
	Courses []CourseResponse `json:"courses"`
	Total   int              `json:"total"`
}

// ReloadResponse reports a forced rescrape.
type ReloadResponse struct {
	CourseCount int `json:"course_count"`
}
