// Package report renders a learner's lesson progress as an Excel workbook.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/p-n-ai/pai-academy/internal/curriculum"
	"github.com/p-n-ai/pai-academy/internal/progress"
)

// SheetName is the worksheet holding the progress table.
const SheetName = "Progress"

const timeLayout = "2006-01-02 15:04"

var header = []any{"레슨", "모듈", "완료", "완료 시각"}

// Row is one lesson line in the report.
type Row struct {
	LessonID    string
	LessonTitle string
	ModuleTitle string
	Completed   bool
	CompletedAt time.Time
}

// Rows lists every catalog lesson in order, marking the ones found in
// completions. Completions for lessons no longer in the catalog are ignored.
func Rows(catalog *curriculum.Catalog, completions []progress.Completion) []Row {
	done := make(map[string]time.Time, len(completions))
	for _, c := range completions {
		done[c.LessonID] = c.CompletedAt
	}

	lessons := catalog.Lessons()
	rows := make([]Row, 0, len(lessons))
	for _, l := range lessons {
		row := Row{LessonID: l.ID, LessonTitle: l.Title}
		if m, ok := catalog.Module(l.ModuleID); ok {
			row.ModuleTitle = m.Title
		}
		if at, ok := done[l.ID]; ok {
			row.Completed = true
			row.CompletedAt = at
		}
		rows = append(rows, row)
	}
	return rows
}

// Workbook builds the progress workbook for userID. The caller closes the
// returned file.
func Workbook(userID string, rows []Row) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	if err := fill(f, userID, rows); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func fill(f *excelize.File, userID string, rows []Row) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	if err := f.SetCellValue(SheetName, "A1", "학습자"); err != nil {
		return err
	}
	if err := f.SetCellValue(SheetName, "B1", userID); err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, "A3", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A3", "D3", bold); err != nil {
		return err
	}

	completed := 0
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+4)
		if err != nil {
			return err
		}
		mark, at := "", ""
		if r.Completed {
			completed++
			mark = "✔"
			at = r.CompletedAt.UTC().Format(timeLayout)
		}
		line := []any{r.LessonTitle, r.ModuleTitle, mark, at}
		if err := f.SetSheetRow(SheetName, cell, &line); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}

	summaryCell, err := excelize.CoordinatesToCellName(1, len(rows)+5)
	if err != nil {
		return err
	}
	summary := []any{"합계", "", fmt.Sprintf("%d/%d", completed, len(rows))}
	if err := f.SetSheetRow(SheetName, summaryCell, &summary); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	endCell, _ := excelize.CoordinatesToCellName(4, len(rows)+5)
	if err := f.SetCellStyle(SheetName, summaryCell, endCell, bold); err != nil {
		return err
	}

	if err := f.SetColWidth(SheetName, "A", "B", 28); err != nil {
		return err
	}
	return f.SetColWidth(SheetName, "D", "D", 18)
}

// Write renders the workbook for userID to w.
func Write(w io.Writer, userID string, rows []Row) error {
	f, err := Workbook(userID, rows)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
