package dto

import (
	"time"

	"github.com/rao-samarth/timetable-generator/internal/model"
	"github.com/rao-samarth/timetable-generator/internal/scheduler"
)

// ToggleRequest flips one (course, person) selection. Person is optional;
// omitted means the session's shared identity.
type ToggleRequest struct {
	CourseID string `json:"course_id" binding:"required"`
	Person   string `json:"person" binding:"omitempty,max=60"`
}

// ToggleResponse reports the selection state after the toggle.
type ToggleResponse struct {
	CourseID string `json:"course_id"`
	Person   string `json:"person,omitempty"`
	Selected bool   `json:"selected"`
}

// SelectionResponse lists one person's current selection and the course ids
// that would now conflict.
type SelectionResponse struct {
	Person      string   `json:"person,omitempty"`
	Selected    []string `json:"selected"`
	Conflicting []string `json:"conflicting"`
}

// FlatResponse carries the flattened multi-person export entries.
type FlatResponse struct {
	Entries []scheduler.FlatEntry `json:"entries"`
	Total   int                   `json:"total"`
}

// EventResponse is one materialized dated class instance.
type EventResponse struct {
	CourseID  string     `json:"course_id"`
	Name      string     `json:"name"`
	Classroom string     `json:"classroom"`
	Day       model.Day  `json:"day"`
	Slot      int        `json:"slot"`
	Half      model.Half `json:"half"`
	Start     time.Time  `json:"start"`
	End       time.Time  `json:"end"`
}

// EventListResponse wraps the expanded term events.
type EventListResponse struct {
	Events []EventResponse `json:"events"`
	Total  int             `json:"total"`
}
