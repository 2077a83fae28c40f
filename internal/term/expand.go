package term

import (
	"time"

	"github.com/rao-samarth/timetable-generator/internal/model"
)

// Entry is one flattened weekly session as produced by the conflict engine's
// export flattening. The expander treats it as opaque apart from the
// scheduling fields; Name/CourseID/Classroom pass through untouched.
type Entry struct {
	CourseID  string     `json:"course_id"`
	Name      string     `json:"name"`
	Classroom string     `json:"classroom"`
	Day       model.Day  `json:"day"`
	Slot      int        `json:"slot"`
	Half      model.Half `json:"half"`
}

// Event is one concrete dated class instance. Every instance is fully
// materialized; downstream consumers never evaluate recurrence.
type Event struct {
	CourseID  string     `json:"course_id"`
	Name      string     `json:"name"`
	Classroom string     `json:"classroom"`
	Day       model.Day  `json:"day"`
	Slot      int        `json:"slot"`
	Half      model.Half `json:"half"`
	Start     time.Time  `json:"start"`
	End       time.Time  `json:"end"`
}

// Expand unrolls the weekly template across the whole term, one date at a
// time. Per date it skips the non-teaching weekday, holidays and blackouts,
// resolves the logical day (honoring dated relabelings), drops cancelled
// slots, gates every emission on half-window validity and finally applies the
// additive slot remaps. Expansion never fails for in-range dates; a date
// outside both half windows simply emits nothing for half-scoped courses.
func Expand(entries []Entry, cal *Calendar) []Event {
	// Index the weekly template by (day, slot).
	type key struct {
		day  model.Day
		slot int
	}
	byDaySlot := make(map[key][]Entry, len(entries))
	for _, e := range entries {
		k := key{e.Day, e.Slot}
		byDaySlot[k] = append(byDaySlot[k], e)
	}

	var events []Event
	emit := func(e Entry, day time.Time, slot int) {
		start, end := cal.SlotWindow(day, slot)
		events = append(events, Event{
			CourseID:  e.CourseID,
			Name:      e.Name,
			Classroom: e.Classroom,
			Day:       e.Day,
			Slot:      slot,
			Half:      e.Half,
			Start:     start,
			End:       end,
		})
	}

	for day := cal.TermStart.Time; !day.After(cal.TermEnd.Time); day = day.AddDate(0, 0, 1) {
		if cal.IsHoliday(day) || cal.InBlackout(day) {
			continue
		}
		logical := cal.LogicalDay(day)
		if logical == "" { // non-teaching weekday
			continue
		}

		dateHalf, inTerm := cal.HalfOn(day)

		cancelled := make(map[int]bool)
		for _, s := range cal.CancelledSlots(day) {
			cancelled[s] = true
		}

		for slot := 1; slot <= model.NumSlots; slot++ {
			if cancelled[slot] {
				continue
			}
			for _, e := range byDaySlot[key{logical, slot}] {
				if halfValid(e.Half, dateHalf, inTerm) {
					emit(e, day, slot)
				}
			}
		}

		// Additive remaps: the session also runs at the target slot on this
		// date, on top of its regular occurrence.
		for _, rm := range cal.RemapsFor(day) {
			for _, e := range byDaySlot[key{rm.SourceDay, rm.SourceSlot}] {
				if halfValid(e.Half, dateHalf, inTerm) {
					emit(e, day, rm.TargetSlot)
				}
			}
		}
	}
	return events
}

// halfValid gates an emission on the date's half window: a BOTH course meets
// whenever the date is inside either window, a half-scoped course only when
// the date's half matches exactly.
func halfValid(courseHalf, dateHalf model.Half, inTerm bool) bool {
	if !inTerm {
		return false
	}
	if courseHalf == model.HalfBoth {
		return true
	}
	return courseHalf == dateHalf
}
