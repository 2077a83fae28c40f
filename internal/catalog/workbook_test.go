package catalog

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/rao-samarth/timetable-generator/internal/model"
)

// writeTestWorkbook builds an .xlsx from per-sheet row data and returns its
// path.
func writeTestWorkbook(t *testing.T, sheets map[string][][]string, order []string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			f.SetSheetName("Sheet1", name)
		} else {
			if _, err := f.NewSheet(name); err != nil {
				t.Fatalf("creating sheet %s: %v", name, err)
			}
		}
		for r, row := range sheets[name] {
			cell, _ := excelize.CoordinatesToCellName(1, r+1)
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatalf("writing row %d of %s: %v", r, name, err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "test.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("saving workbook: %v", err)
	}
	return path
}

func TestReadWorkbookPages_OrderAndCap(t *testing.T) {
	path := writeTestWorkbook(t, map[string][][]string{
		"P1": {{"a", "b"}},
		"P2": {{"c", "d"}},
		"P3": {{"e", "f"}},
	}, []string{"P1", "P2", "P3"})

	pages, err := ReadWorkbookPages(path, 2)
	if err != nil {
		t.Fatalf("ReadWorkbookPages failed: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages with cap, got %d", len(pages))
	}
	if pages[0][0][0] != "a" || pages[1][0][0] != "c" {
		t.Errorf("pages out of order: %v", pages)
	}

	all, err := ReadWorkbookPages(path, 0)
	if err != nil {
		t.Fatalf("ReadWorkbookPages failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("cap 0 should read all sheets, got %d", len(all))
	}
}

func TestReadWorkbookPages_PadsTrimmedRows(t *testing.T) {
	// The library drops trailing empty cells on read, so a weekday whose
	// afternoon slots are all blank comes back short of the full nine
	// columns. Every row must be squared off to the sheet's width.
	path := writeTestWorkbook(t, map[string][][]string{
		"MonWed": {
			{"Monday", "8:30", "9:55", "11:40", "LUNCH", "1", "14:00", "15:35", "17:10"},
			{"Tuesday", "Algebra"},
			{"Wednesday", "", "Pottery"},
		},
	}, []string{"MonWed"})

	pages, err := ReadWorkbookPages(path, 0)
	if err != nil {
		t.Fatalf("ReadWorkbookPages failed: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	for i, row := range pages[0] {
		if len(row) != 9 {
			t.Errorf("row %d not padded to sheet width: len=%d %v", i, len(row), row)
		}
	}
	if pages[0][1][0] != "Tuesday" || pages[0][1][1] != "Algebra" || pages[0][1][8] != "" {
		t.Errorf("padded row content wrong: %v", pages[0][1])
	}
}

func TestReadWorkbookPages_MissingFile(t *testing.T) {
	if _, err := ReadWorkbookPages(filepath.Join(t.TempDir(), "nope.xlsx"), 0); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestCatalogPages_DropsHeaderAndNarrowPages(t *testing.T) {
	path := writeTestWorkbook(t, map[string][][]string{
		"Main": {
			{"No.", "Code", "Course Name"},
			{"1", "CS101", "Operating Systems"},
		},
		"Notes": {
			{"just", "notes"}, // narrower than a course table
		},
		"More": {
			{"2", "CS102", "Linear Algebra"},
		},
	}, []string{"Main", "Notes", "More"})

	pages, err := CatalogPages(path)
	if err != nil {
		t.Fatalf("CatalogPages failed: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 usable pages, got %d", len(pages))
	}
	// The first page's header row is gone.
	if len(pages[0]) != 1 || pages[0][0][2] != "Operating Systems" {
		t.Errorf("header row not dropped: %v", pages[0])
	}
	// Later pages keep all rows.
	if len(pages[1]) != 1 || pages[1][0][2] != "Linear Algebra" {
		t.Errorf("second page wrong: %v", pages[1])
	}
}

func TestExtractCourses_EndToEnd(t *testing.T) {
	catalogPath := writeTestWorkbook(t, map[string][][]string{
		"Catalog": {
			{"No.", "Code", "Course Name"},
			{"1", "CS101", "Operating Systems"},
			{"2", "CS102", "Distributed Systems (H1)"},
		},
	}, []string{"Catalog"})

	schedulePath := writeTestWorkbook(t, map[string][][]string{
		"MonWed": {
			{"Monday", "Operating Systems", "", "", "LUNCH", "1", "Distributed Systems", "", ""},
			{"Tuesday", "", "", "", "LUNCH", "1", "", "", ""},
			{"Wednesday", "", "Operating Systems", "", "LUNCH", "1", "", "", ""},
		},
		"ThuSat": {
			{"Thursday", "", "", "", "LUNCH", "1", "", "", ""},
			{"Friday", "", "", "Distributed Systems", "LUNCH", "1", "", "", ""},
			{"Saturday", "", "", "", "LUNCH", "1", "", "", ""},
		},
	}, []string{"MonWed", "ThuSat"})

	courses := ExtractCourses(catalogPath, schedulePath, zap.NewNop())

	if len(courses) != 2 {
		t.Fatalf("expected 2 courses, got %+v", courses)
	}
	// Sorted by name: Distributed Systems, Operating Systems.
	ds, opsys := courses[0], courses[1]
	if ds.Name != "Distributed Systems" || opsys.Name != "Operating Systems" {
		t.Fatalf("unexpected names: %q, %q", ds.Name, opsys.Name)
	}
	if ds.Half != model.HalfFirst {
		t.Errorf("catalog half marker lost: %v", ds.Half)
	}
	if len(ds.Sessions) != 2 || len(opsys.Sessions) != 2 {
		t.Errorf("sessions wrong: ds=%v os=%v", ds.Sessions, opsys.Sessions)
	}
}

func TestExtractCourses_MissingCatalog(t *testing.T) {
	courses := ExtractCourses(
		filepath.Join(t.TempDir(), "nope.xlsx"),
		filepath.Join(t.TempDir(), "nope2.xlsx"),
		zap.NewNop(),
	)
	if len(courses) != 0 {
		t.Errorf("missing catalog must yield no courses, got %+v", courses)
	}
}

func TestExtractCourses_MissingScheduleKeepsRegistry(t *testing.T) {
	catalogPath := writeTestWorkbook(t, map[string][][]string{
		"Catalog": {
			{"No.", "Code", "Course Name"},
			{"1", "CS101", "Operating Systems"},
		},
	}, []string{"Catalog"})

	courses := ExtractCourses(catalogPath, filepath.Join(t.TempDir(), "nope.xlsx"), zap.NewNop())

	if len(courses) != 1 {
		t.Fatalf("registry courses must survive a missing schedule, got %+v", courses)
	}
	if len(courses[0].Sessions) != 0 {
		t.Errorf("expected empty sessions, got %v", courses[0].Sessions)
	}
}
