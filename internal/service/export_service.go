package service

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/rao-samarth/timetable-generator/internal/dto"
	"github.com/rao-samarth/timetable-generator/internal/model"
	"github.com/rao-samarth/timetable-generator/internal/term"
)

// ── export module errors ──

var (
	ErrExportNoSelection  = errors.New("no courses selected")
	ErrExportGenerateFail = errors.New("generating export file failed")
)

// ExportService renders a session's flattened selection into its export
// formats.
//
// Design notes:
//   - All three outputs consume the same flattened entry list; none of them
//     reinterprets half or session identity.
//   - The ICS file contains one VEVENT per materialized instance; clients
//     never evaluate recurrence.
//   - Files return as buffers; the handler sets HTTP headers and streams.
type ExportService interface {
	// Events expands the session's selection into dated term events.
	Events(sessionID string) (*dto.EventListResponse, error)
	// ICS serializes the expanded events as an iCalendar file.
	ICS(sessionID string) (*bytes.Buffer, string, error)
	// Grid renders the weekly timetable grid as an .xlsx workbook.
	Grid(sessionID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	schedule ScheduleService
	cal      *term.Calendar
	logger   *zap.Logger
}

// NewExportService creates an ExportService bound to one term calendar.
func NewExportService(schedule ScheduleService, cal *term.Calendar, logger *zap.Logger) ExportService {
	return &exportService{schedule: schedule, cal: cal, logger: logger}
}

// expand flattens the session and unrolls it across the term.
func (s *exportService) expand(sessionID string) ([]term.Event, error) {
	flat := s.schedule.Flatten(sessionID)
	if len(flat) == 0 {
		return nil, ErrExportNoSelection
	}

	entries := make([]term.Entry, 0, len(flat))
	for _, f := range flat {
		entries = append(entries, term.Entry{
			CourseID:  f.CourseID,
			Name:      f.Name,
			Classroom: f.Classroom,
			Day:       f.Day,
			Slot:      f.Slot,
			Half:      f.Half,
		})
	}
	return term.Expand(entries, s.cal), nil
}

func (s *exportService) Events(sessionID string) (*dto.EventListResponse, error) {
	events, err := s.expand(sessionID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.EventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, dto.EventResponse{
			CourseID:  ev.CourseID,
			Name:      ev.Name,
			Classroom: ev.Classroom,
			Day:       ev.Day,
			Slot:      ev.Slot,
			Half:      ev.Half,
			Start:     ev.Start,
			End:       ev.End,
		})
	}
	return &dto.EventListResponse{Events: out, Total: len(out)}, nil
}

// ════════════════════════════════════════════════════════════
// ICS: iCalendar serialization
// ════════════════════════════════════════════════════════════

func (s *exportService) ICS(sessionID string) (*bytes.Buffer, string, error) {
	events, err := s.expand(sessionID)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//timetable-generator//EN")

	now := time.Now()
	for _, ev := range events {
		e := cal.AddEvent(uuid.New().String())
		e.SetCreatedTime(now)
		e.SetDtStampTime(now)
		e.SetStartAt(ev.Start)
		e.SetEndAt(ev.End)
		e.SetSummary(ev.Name)
		if ev.Classroom != "" && ev.Classroom != model.DefaultClassroom {
			e.SetLocation(ev.Classroom)
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	return buf, "timetable.ics", nil
}

// ════════════════════════════════════════════════════════════
// Grid: weekly .xlsx grid
// ════════════════════════════════════════════════════════════
//
// Layout mirrors the printed timetable: day rows Mon-Sat, slot columns 1-3,
// a lunch spacer column, slot columns 4-6. Cells stack every course meeting
// at that (day, slot), half-scoped ones tagged [H1]/[H2].

func (s *exportService) Grid(sessionID string) (*bytes.Buffer, string, error) {
	flat := s.schedule.Flatten(sessionID)
	if len(flat) == 0 {
		return nil, "", ErrExportNoSelection
	}

	type cellKey struct {
		day  model.Day
		slot int
	}
	cells := make(map[cellKey][]string)
	for _, f := range flat {
		text := f.Name
		if f.Half != model.HalfBoth {
			text += " [" + string(f.Half) + "]"
		}
		k := cellKey{f.Day, f.Slot}
		cells[k] = append(cells[k], text)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Timetable"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		s.logger.Error("creating worksheet failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	// Column layout: A=Day, B..D=slots 1-3, E=lunch, F..H=slots 4-6.
	slotCols := map[int]string{1: "B", 2: "C", 3: "D", 4: "F", 5: "G", 6: "H"}
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "D", 28)
	f.SetColWidth(sheet, "E", "E", 4)
	f.SetColWidth(sheet, "F", "H", 28)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#F5F7FA"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	lunchStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", TextRotation: 90},
	})
	cellStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})

	// Header row: day column plus each slot's wall-clock window.
	f.SetCellValue(sheet, "A1", "Day")
	for slot := 1; slot <= model.NumSlots; slot++ {
		start, end := s.cal.SlotWindow(s.cal.TermStart.Time, slot)
		label := fmt.Sprintf("%s - %s", start.Format("15:04"), end.Format("15:04"))
		f.SetCellValue(sheet, slotCols[slot]+"1", label)
	}
	f.SetCellValue(sheet, "E1", "LUNCH")
	f.SetCellStyle(sheet, "A1", "H1", headerStyle)

	// One row per teaching day.
	for i, day := range model.Days {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), string(day))
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), headerStyle)
		f.SetCellStyle(sheet, fmt.Sprintf("E%d", row), fmt.Sprintf("E%d", row), lunchStyle)

		for slot := 1; slot <= model.NumSlots; slot++ {
			texts := cells[cellKey{day, slot}]
			if len(texts) == 0 {
				continue
			}
			cell := fmt.Sprintf("%s%d", slotCols[slot], row)
			f.SetCellValue(sheet, cell, strings.Join(texts, "\n"))
			f.SetCellStyle(sheet, cell, cell, cellStyle)
		}
		f.SetRowHeight(sheet, row, 48)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("writing workbook failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, "timetable_grid.xlsx", nil
}
