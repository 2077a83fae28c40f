package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ── Half-semester enum ──

// Half marks which half of the semester a course runs in.
type Half string

const (
	HalfFirst  Half = "H1"
	HalfSecond Half = "H2"
	HalfBoth   Half = "BOTH"
)

// Valid reports whether h is one of the three known values.
func (h Half) Valid() bool {
	return h == HalfFirst || h == HalfSecond || h == HalfBoth
}

// Narrow implements the one-shot narrowing transition: a course starts at
// BOTH and moves to H1/H2 on the first non-BOTH observation. Once narrowed it
// never changes again, later observations are ignored.
func (h Half) Narrow(observed Half) Half {
	if h == HalfBoth && observed != HalfBoth {
		return observed
	}
	return h
}

// ── Teaching day enum ──

// Day is a teaching weekday (Sunday has no classes).
type Day string

const (
	Mon Day = "Mon"
	Tue Day = "Tue"
	Wed Day = "Wed"
	Thu Day = "Thu"
	Fri Day = "Fri"
	Sat Day = "Sat"
)

// Days lists teaching days in grid order.
var Days = []Day{Mon, Tue, Wed, Thu, Fri, Sat}

var dayOrder = map[Day]int{Mon: 0, Tue: 1, Wed: 2, Thu: 3, Fri: 4, Sat: 5}

// Order returns the grid index of d (Mon=0 … Sat=5), or 6 for unknown days so
// they sort last instead of panicking.
func (d Day) Order() int {
	if n, ok := dayOrder[d]; ok {
		return n
	}
	return len(dayOrder)
}

// DayOfWeekday maps a calendar weekday to its logical teaching day. Sunday
// maps to "", the non-teaching marker.
func DayOfWeekday(wd time.Weekday) Day {
	switch wd {
	case time.Monday:
		return Mon
	case time.Tuesday:
		return Tue
	case time.Wednesday:
		return Wed
	case time.Thursday:
		return Thu
	case time.Friday:
		return Fri
	case time.Saturday:
		return Sat
	}
	return ""
}

// ── Session ──

// NumSlots is the number of daily teaching periods; lunch falls between
// slots 3 and 4.
const NumSlots = 6

// Session is one (day, slot) weekly meeting of a course. Value type,
// equality by field comparison.
type Session struct {
	Day  Day `json:"day"`
	Slot int `json:"slot"` // 1..NumSlots
}

// SessionList is stored as JSONB in PostgreSQL, implements the GORM
// Scanner/Valuer interfaces.
type SessionList []Session

// Scan parses the JSONB column value into the slice.
func (l *SessionList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("SessionList.Scan: unsupported type %T", src)
	}
	return json.Unmarshal(data, l)
}

// Value serializes the slice as JSON for the JSONB column.
func (l SessionList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Contains reports whether s is already present (dedupe by value equality).
func (l SessionList) Contains(s Session) bool {
	for _, have := range l {
		if have == s {
			return true
		}
	}
	return false
}

// ── Course ──

// DefaultClassroom is used when the source documents carry no room.
const DefaultClassroom = "TBD"

// Course maps to the courses table: one catalog course with its weekly
// sessions. ID equals the official name and is the stable join key everywhere
// downstream.
type Course struct {
	ID        string      `gorm:"type:varchar(200);primaryKey" json:"id"`
	Name      string      `gorm:"type:varchar(200);not null"   json:"name"`
	Half      Half        `gorm:"type:varchar(4);not null"     json:"half"`
	Classroom string      `gorm:"type:varchar(100);not null"   json:"classroom"`
	Sessions  SessionList `gorm:"type:jsonb;not null"          json:"sessions"`
}

// TableName fixes the table name.
func (Course) TableName() string { return "courses" }
