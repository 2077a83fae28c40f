package catalog

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/rao-samarth/timetable-generator/internal/model"
)

// ── Timetable scanning ──────────────────────────────────────
//
// The schedule document lays three weekdays per page: page 0 carries Mon-Wed,
// page 1 carries Thu-Sat. Each data row is one weekday; header rows repeat the
// slot times ("8:30" in the second column) and are not weekdays. Course cells
// sit in fixed columns, with a lunch spacer and a day-count artifact between
// slot 3 and slot 4.
//
// Matching is an explicit ordered pass: longest search term first, matched
// text blanked out of the working cell so a shorter alias can never re-match
// the same characters (first-match-wins).
// ─────────────────────────────────────────────────────────────

// slotColumns maps logical slot 1..6 to its source table column. Columns 4
// and 5 are the lunch spacer and day-count artifact, skipped entirely.
var slotColumns = map[int]int{1: 1, 2: 2, 3: 3, 4: 6, 5: 7, 6: 8}

// pageDays fixes the weekday order per page index.
var pageDays = [][]model.Day{
	{model.Mon, model.Tue, model.Wed},
	{model.Thu, model.Fri, model.Sat},
}

const headerMarker = "8:30"

// Scanner walks schedule pages and populates a course database from the
// registry. One Scanner is used per extraction run.
type Scanner struct {
	registry Registry
	terms    []string // longest first
	courses  map[string]*model.Course
	logger   *zap.Logger
}

// NewScanner seeds the course database from the registry: every registry
// entry becomes a course with no sessions yet, so a course that never appears
// on the schedule still survives (with an empty session list) rather than
// vanishing.
func NewScanner(registry Registry, logger *zap.Logger) *Scanner {
	courses := make(map[string]*model.Course, len(registry))
	for term, entry := range registry {
		courses[term] = &model.Course{
			ID:        entry.OfficialName,
			Name:      entry.OfficialName,
			Half:      entry.Half,
			Classroom: model.DefaultClassroom,
			Sessions:  model.SessionList{},
		}
	}
	return &Scanner{
		registry: registry,
		terms:    registry.TermsLongestFirst(),
		courses:  courses,
		logger:   logger,
	}
}

// ScanPage processes one page's raw rows. pageIdx selects the weekday
// sequence; out-of-range pages are ignored.
func (s *Scanner) ScanPage(pageIdx int, rows [][]string) {
	if pageIdx < 0 || pageIdx >= len(pageDays) {
		return
	}
	days := pageDays[pageIdx]

	merged := mergeBrokenRows(rows)
	dayIdx := 0

	for _, row := range merged {
		if dayIdx >= len(days) {
			break
		}
		// Header repeats and malformed short rows do not consume a weekday.
		if len(row) < 7 || strings.Contains(row[1], headerMarker) {
			continue
		}

		day := days[dayIdx]
		for slot := 1; slot <= model.NumSlots; slot++ {
			col := slotColumns[slot]
			if col >= len(row) || row[col] == "" {
				continue
			}
			s.scanCell(day, slot, row[col])
		}
		dayIdx++
	}
}

// scanCell runs the ordered matching pass over one cell's text.
func (s *Scanner) scanCell(day model.Day, slot int, cell string) {
	working := strings.ToUpper(cell)

	for _, term := range s.terms {
		termUpper := strings.ToUpper(term)

		matched := ""
		if strings.Contains(working, termUpper) {
			matched = termUpper
		} else {
			for _, alias := range aliasMap[termUpper] {
				if strings.Contains(working, alias) {
					matched = alias
					break
				}
			}
		}
		if matched == "" {
			continue
		}

		course := s.courses[term]

		// Name-level overrides always win; otherwise the first non-BOTH
		// cell observation narrows the course once and locks it.
		if forced, ok := halfOverrides[strings.ToUpper(course.ID)]; ok {
			course.Half = forced
		} else {
			course.Half = course.Half.Narrow(ParseHalf(cell))
		}

		s.addSession(course, model.Session{Day: day, Slot: slot})
		if IsTwoSlot(termUpper) && slot < model.NumSlots {
			// Double-period courses spill into the next slot. A match on
			// slot 3 extends into slot 4 across the lunch break; the
			// documents rely on it.
			s.addSession(course, model.Session{Day: day, Slot: slot + 1})
		}

		// Blank out the matched characters so a later, shorter term cannot
		// claim them again.
		working = strings.ReplaceAll(working, matched, strings.Repeat(" ", len(matched)))
	}
}

func (s *Scanner) addSession(c *model.Course, sess model.Session) {
	if !c.Sessions.Contains(sess) {
		c.Sessions = append(c.Sessions, sess)
	}
}

// Courses returns the extracted database as a list sorted by name.
func (s *Scanner) Courses() []model.Course {
	list := make([]model.Course, 0, len(s.courses))
	for _, c := range s.courses {
		list = append(list, *c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// mergeBrokenRows repairs cells whose text wrapped across document lines: a
// row with an empty first (day) cell is a continuation of the previous row,
// its non-empty cells are concatenated column-wise onto it.
func mergeBrokenRows(raw [][]string) [][]string {
	var merged [][]string
	for _, row := range raw {
		clean := make([]string, len(row))
		nonEmpty := false
		for i, cell := range row {
			clean[i] = CleanText(cell)
			if clean[i] != "" {
				nonEmpty = true
			}
		}

		isContinuation := len(clean) > 0 && clean[0] == "" && nonEmpty
		if isContinuation && len(merged) > 0 {
			last := merged[len(merged)-1]
			for i, cell := range clean {
				if cell == "" || i >= len(last) {
					continue
				}
				if last[i] != "" {
					last[i] += " " + cell
				} else {
					last[i] = cell
				}
			}
			continue
		}
		merged = append(merged, clean)
	}
	return merged
}
