package term

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rao-samarth/timetable-generator/internal/model"
)

// ── Semester calendar ───────────────────────────────────────
//
// The term calendar is constant data, not user input: term boundaries, the
// half-semester windows, holidays, blackout ranges and the finite set of
// dated exceptions. Exceptions are closed and enumerable: any date not
// explicitly listed follows the default weekday-to-logical-day mapping,
// nothing is ever inferred from a rule.
// ─────────────────────────────────────────────────────────────

const dateLayout = "2006-01-02"

// Date is a calendar day parsed from a "2006-01-02" YAML scalar.
type Date struct {
	time.Time
}

// UnmarshalYAML parses the date scalar.
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	t, err := time.Parse(dateLayout, value.Value)
	if err != nil {
		return fmt.Errorf("invalid calendar date %q: %w", value.Value, err)
	}
	d.Time = t
	return nil
}

// DateRange is a closed date interval.
type DateRange struct {
	Start Date `yaml:"start"`
	End   Date `yaml:"end"`
}

// Contains reports whether day falls inside the range, inclusive.
func (r DateRange) Contains(day time.Time) bool {
	return !day.Before(r.Start.Time) && !day.After(r.End.Time)
}

// SlotTime is the wall-clock window of one teaching slot ("15:04" layout).
type SlotTime struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// SlotRemap is a dated exception that additionally emits sessions normally
// scheduled at (SourceDay, SourceSlot) into TargetSlot on that one date.
type SlotRemap struct {
	SourceDay  model.Day `yaml:"source_day"`
	SourceSlot int       `yaml:"source_slot"`
	TargetSlot int       `yaml:"target_slot"`
}

// Calendar is the full semester definition.
type Calendar struct {
	Name     string `yaml:"name"`
	Timezone string `yaml:"timezone"`

	TermStart Date `yaml:"term_start"`
	TermEnd   Date `yaml:"term_end"`

	FirstHalf  DateRange `yaml:"first_half"`
	SecondHalf DateRange `yaml:"second_half"`

	Holidays  []Date      `yaml:"holidays"`
	Blackouts []DateRange `yaml:"blackouts"`

	// Dated exceptions, keyed by "2006-01-02".
	DayRemaps         map[string]model.Day   `yaml:"day_remaps"`
	SlotCancellations map[string][]int       `yaml:"slot_cancellations"`
	SlotRemaps        map[string][]SlotRemap `yaml:"slot_remaps"`

	SlotTimes map[int]SlotTime `yaml:"slot_times"`

	loc *time.Location
}

//go:embed spring2026.yaml
var spring2026YAML []byte

// LoadCalendar parses a YAML calendar definition and resolves its timezone.
func LoadCalendar(data []byte) (*Calendar, error) {
	var cal Calendar
	if err := yaml.Unmarshal(data, &cal); err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}
	if err := cal.validate(); err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(cal.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cal.Timezone, err)
	}
	cal.loc = loc
	return &cal, nil
}

// Spring2026 returns the built-in Spring 2026 calendar. The embedded
// definition is validated by tests, so a parse failure here is a programmer
// error.
func Spring2026() *Calendar {
	cal, err := LoadCalendar(spring2026YAML)
	if err != nil {
		panic(fmt.Sprintf("embedded spring2026.yaml is invalid: %v", err))
	}
	return cal
}

func (c *Calendar) validate() error {
	if c.TermEnd.Before(c.TermStart.Time) {
		return fmt.Errorf("calendar %q: term_end before term_start", c.Name)
	}
	for slot := 1; slot <= model.NumSlots; slot++ {
		st, ok := c.SlotTimes[slot]
		if !ok {
			return fmt.Errorf("calendar %q: missing slot_times[%d]", c.Name, slot)
		}
		for _, clock := range []string{st.Start, st.End} {
			if _, err := time.Parse("15:04", clock); err != nil {
				return fmt.Errorf("calendar %q: bad slot %d time %q", c.Name, slot, clock)
			}
		}
	}
	return nil
}

// Location returns the calendar's resolved timezone.
func (c *Calendar) Location() *time.Location { return c.loc }

// IsHoliday reports whether day is a single-date holiday.
func (c *Calendar) IsHoliday(day time.Time) bool {
	for _, h := range c.Holidays {
		if sameDate(h.Time, day) {
			return true
		}
	}
	return false
}

// InBlackout reports whether day falls inside any blackout range.
func (c *Calendar) InBlackout(day time.Time) bool {
	for _, r := range c.Blackouts {
		if r.Contains(day) {
			return true
		}
	}
	return false
}

// LogicalDay resolves the teaching day label for a date: the default
// weekday mapping unless a dated relabeling exception applies. Returns ""
// for the non-teaching weekday.
func (c *Calendar) LogicalDay(day time.Time) model.Day {
	// The non-teaching weekday is resolved first: a relabeling dated on it
	// must not resurrect it as a teaching day.
	if model.DayOfWeekday(day.Weekday()) == "" {
		return ""
	}
	if d, ok := c.DayRemaps[day.Format(dateLayout)]; ok {
		return d
	}
	return model.DayOfWeekday(day.Weekday())
}

// CancelledSlots returns the slots explicitly cancelled on a date.
func (c *Calendar) CancelledSlots(day time.Time) []int {
	return c.SlotCancellations[day.Format(dateLayout)]
}

// RemapsFor returns the additive slot remaps applying on a date.
func (c *Calendar) RemapsFor(day time.Time) []SlotRemap {
	return c.SlotRemaps[day.Format(dateLayout)]
}

// HalfOn resolves which half-semester window a date falls in. ok is false
// when the date sits outside both windows (e.g. mid-semester break), in which
// case no half-scoped course meets.
func (c *Calendar) HalfOn(day time.Time) (half model.Half, ok bool) {
	switch {
	case c.FirstHalf.Contains(day):
		return model.HalfFirst, true
	case c.SecondHalf.Contains(day):
		return model.HalfSecond, true
	}
	return "", false
}

// SlotWindow anchors slot's wall-clock window to a date in the calendar's
// timezone. Slot numbers are validated at load time, so unknown slots return
// zero times only for out-of-contract callers.
func (c *Calendar) SlotWindow(day time.Time, slot int) (start, end time.Time) {
	st, ok := c.SlotTimes[slot]
	if !ok {
		return time.Time{}, time.Time{}
	}
	return combine(day, st.Start, c.loc), combine(day, st.End, c.loc)
}

func combine(day time.Time, clock string, loc *time.Location) time.Time {
	t, _ := time.Parse("15:04", clock)
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc)
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
