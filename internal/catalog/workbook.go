package catalog

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ── Workbook ingestion ──────────────────────────────────────
//
// The registry builder and scanner only care about ordered row-cell-string
// arrays; how the tables were extracted from the source documents is this
// file's problem. The deployment converts each document to an .xlsx workbook
// (one sheet per source page) ahead of time.
// ─────────────────────────────────────────────────────────────

// catalogMaxPages limits how many catalog sheets are read; the course table
// occupies the first seven pages of the source document.
const catalogMaxPages = 7

// catalogNameColumn is the course-name cell index in catalog rows.
const catalogNameColumn = 2

// ReadWorkbookPages opens an .xlsx workbook and returns each sheet's rows in
// sheet order, capped at maxPages (0 means all sheets).
func ReadWorkbookPages(path string, maxPages int) ([][][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if maxPages > 0 && len(sheets) > maxPages {
		sheets = sheets[:maxPages]
	}

	pages := make([][][]string, 0, len(sheets))
	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		pages = append(pages, padRows(rows))
	}
	return pages, nil
}

// padRows squares a sheet's rows off to its widest row. GetRows trims
// trailing empty cells, but the downstream consumers index fixed columns: a
// weekday row whose afternoon slots are all empty must keep its shape or the
// scanner would mistake it for a malformed row.
func padRows(rows [][]string) [][]string {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	for i, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row
	}
	return rows
}

// CatalogPages reads the catalog workbook and returns its data rows per page.
// The first page's header row is dropped; pages whose rows are narrower than
// three columns carry no course table and are skipped.
func CatalogPages(path string) ([][][]string, error) {
	pages, err := ReadWorkbookPages(path, catalogMaxPages)
	if err != nil {
		return nil, err
	}

	out := make([][][]string, 0, len(pages))
	for i, rows := range pages {
		if len(rows) == 0 || len(rows[0]) < 3 {
			continue
		}
		if i == 0 {
			rows = rows[1:]
		}
		out = append(out, rows)
	}
	return out, nil
}

// SchedulePages reads the timetable workbook: sheet 0 holds Mon-Wed, sheet 1
// holds Thu-Sat.
func SchedulePages(path string) ([][][]string, error) {
	return ReadWorkbookPages(path, len(pageDays))
}
