package catalog

import (
	"sort"

	"github.com/rao-samarth/timetable-generator/internal/model"
)

// Override is one manual correction record: a complete course to insert or
// replace, or a deletion marker for an id.
type Override struct {
	model.Course
	Delete bool `json:"delete,omitempty"`
}

// ApplyOverrides merges a manual correction list into the scraped course
// list. Records apply in order: Delete removes any entry with the same id
// (no-op if absent); otherwise the record replaces (never field-merges) an
// existing entry, or inserts a new one. The result is deduplicated by id and
// sorted by name.
func ApplyOverrides(courses []model.Course, overrides []Override) []model.Course {
	byID := make(map[string]model.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	for _, ov := range overrides {
		if ov.ID == "" {
			continue
		}
		if ov.Delete {
			delete(byID, ov.ID)
			continue
		}
		byID[ov.ID] = ov.Course
	}

	final := make([]model.Course, 0, len(byID))
	for _, c := range byID {
		final = append(final, c)
	}
	sort.Slice(final, func(i, j int) bool { return final[i].Name < final[j].Name })
	return final
}
