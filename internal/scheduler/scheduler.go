package scheduler

import (
	"sort"
	"strings"
	"sync"

	"github.com/rao-samarth/timetable-generator/internal/model"
)

// ── Conflict engine ─────────────────────────────────────────
//
// One Scheduler holds the course selections of one user session. Within a
// session several people may select courses under their own name so a shared
// grid can show everyone's picks with attribution; callers that never name a
// person all land on the shared identity and therefore share one effective
// schedule.
// ─────────────────────────────────────────────────────────────

// Person identifies who made a selection inside a session. The zero value is
// the shared identity used by callers that do not distinguish people.
type Person string

// SharedPerson is the default identity. Everyone toggling without a name
// edits the same schedule.
const SharedPerson Person = ""

// Shared reports whether p is the shared identity.
func (p Person) Shared() bool { return p == SharedPerson }

// Selection is the snapshot taken at toggle time: a copy of the course's half
// and sessions, so a later catalog correction does not retroactively change
// the conflict semantics of a selection already made.
type Selection struct {
	Half     model.Half
	Sessions model.SessionList
}

// FlatEntry is one line of the export contract consumed by the calendar
// expander and the grid renderers. Renderers must not reinterpret Half or
// session identity.
type FlatEntry struct {
	CourseID  string     `json:"course_id"`
	Name      string     `json:"name"`
	Classroom string     `json:"classroom"`
	Day       model.Day  `json:"day"`
	Slot      int        `json:"slot"`
	Half      model.Half `json:"half"`
}

// Scheduler is the per-session conflict engine over an immutable course
// database. All methods are safe for concurrent use; the course database
// itself is never mutated.
type Scheduler struct {
	mu         sync.RWMutex
	courses    map[string]model.Course
	selections map[string]map[Person]Selection // courseID → person → snapshot
}

// New builds a Scheduler over the given course database. The list is copied
// into an id-keyed map; later catalog reloads do not affect an existing
// session.
func New(courses []model.Course) *Scheduler {
	byID := make(map[string]model.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}
	return &Scheduler{
		courses:    byID,
		selections: make(map[string]map[Person]Selection),
	}
}

// Toggle flips the (courseID, person) selection. A present pair is removed;
// an absent one snapshots the course's current half and sessions and inserts
// it. Toggling twice is a no-op overall. Unknown course ids never insert and
// never error. Returns whether the pair is selected after the call.
func (s *Scheduler) Toggle(courseID string, p Person) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if people, ok := s.selections[courseID]; ok {
		if _, selected := people[p]; selected {
			delete(people, p)
			if len(people) == 0 {
				delete(s.selections, courseID)
			}
			return false
		}
	}

	course, ok := s.courses[courseID]
	if !ok {
		return false
	}

	snapshot := Selection{
		Half:     course.Half,
		Sessions: append(model.SessionList(nil), course.Sessions...),
	}
	if s.selections[courseID] == nil {
		s.selections[courseID] = make(map[Person]Selection)
	}
	s.selections[courseID][p] = snapshot
	return true
}

// IsSelected reports whether (courseID, person) is currently selected.
func (s *Scheduler) IsSelected(courseID string, p Person) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.selections[courseID][p]
	return ok
}

// SelectedIDs returns the ids selected by one person, sorted.
func (s *Scheduler) SelectedIDs(p Person) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for id, people := range s.selections {
		if _, ok := people[p]; ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// AllSelectedIDs returns every id with at least one selector, sorted.
func (s *Scheduler) AllSelectedIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.selections))
	for id := range s.selections {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// conflict decides whether two (session, half) pairs collide: same day, same
// slot, and not the one combination that coexists: one course in H1 and the
// other in H2. Equal halves and anything involving BOTH conflict.
func conflict(a model.Session, halfA model.Half, b model.Session, halfB model.Half) bool {
	if a.Day != b.Day || a.Slot != b.Slot {
		return false
	}
	if (halfA == model.HalfFirst && halfB == model.HalfSecond) ||
		(halfA == model.HalfSecond && halfB == model.HalfFirst) {
		return false
	}
	return true
}

// ConflictingIDs returns the courses the person has NOT selected that cannot
// be added: at least one of their sessions collides with at least one
// occupied (session, half) pair of the person's current selections. With no
// selections the result is empty.
func (s *Scheduler) ConflictingIDs(p Person) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type occupied struct {
		sess model.Session
		half model.Half
	}
	var taken []occupied
	for _, people := range s.selections {
		sel, ok := people[p]
		if !ok {
			continue
		}
		for _, sess := range sel.Sessions {
			taken = append(taken, occupied{sess, sel.Half})
		}
	}
	if len(taken) == 0 {
		return nil
	}

	var conflicts []string
	for id, course := range s.courses {
		if _, selected := s.selections[id][p]; selected {
			continue
		}
	candidate:
		for _, sess := range course.Sessions {
			for _, occ := range taken {
				if conflict(sess, course.Half, occ.sess, occ.half) {
					conflicts = append(conflicts, id)
					break candidate
				}
			}
		}
	}
	sort.Strings(conflicts)
	return conflicts
}

// Flatten renders all selections across all people into the export contract.
// Entries group by (courseID, day, slot, half); each group collects the
// distinct named people alphabetically and, when any exist, suffixes them to
// the course name as "Course (A/B)". Groups selected only under the shared
// identity keep the plain name. Output is sorted by day, slot, then name so
// exports are deterministic.
func (s *Scheduler) Flatten() []FlatEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type groupKey struct {
		courseID string
		day      model.Day
		slot     int
		half     model.Half
	}
	people := make(map[groupKey]map[Person]bool)

	for courseID, sels := range s.selections {
		if _, known := s.courses[courseID]; !known {
			continue
		}
		for person, sel := range sels {
			for _, sess := range sel.Sessions {
				k := groupKey{courseID, sess.Day, sess.Slot, sel.Half}
				if people[k] == nil {
					people[k] = make(map[Person]bool)
				}
				people[k][person] = true
			}
		}
	}

	entries := make([]FlatEntry, 0, len(people))
	for k, selectors := range people {
		course := s.courses[k.courseID]

		var names []string
		for person := range selectors {
			if !person.Shared() {
				names = append(names, string(person))
			}
		}
		sort.Strings(names)

		name := course.Name
		if len(names) > 0 {
			name += " (" + strings.Join(names, "/") + ")"
		}

		entries = append(entries, FlatEntry{
			CourseID:  k.courseID,
			Name:      name,
			Classroom: course.Classroom,
			Day:       k.day,
			Slot:      k.slot,
			Half:      k.half,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Day != b.Day {
			return a.Day.Order() < b.Day.Order()
		}
		if a.Slot != b.Slot {
			return a.Slot < b.Slot
		}
		return a.Name < b.Name
	})
	return entries
}
