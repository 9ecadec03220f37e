package report_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/p-n-ai/pai-academy/internal/curriculum"
	"github.com/p-n-ai/pai-academy/internal/progress"
	"github.com/p-n-ai/pai-academy/internal/report"
)

func TestRows(t *testing.T) {
	catalog, err := curriculum.Default()
	if err != nil {
		t.Fatal(err)
	}
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	rows := report.Rows(catalog, []progress.Completion{
		{UserID: "u1", LessonID: "lesson-context", CompletedAt: at},
		{UserID: "u1", LessonID: "lesson-removed", CompletedAt: at},
	})

	if len(rows) != catalog.TotalLessons() {
		t.Fatalf("len(rows) = %d, want %d", len(rows), catalog.TotalLessons())
	}
	if rows[0].LessonID != "lesson-role" || rows[0].Completed {
		t.Errorf("rows[0] = %+v, want incomplete lesson-role", rows[0])
	}
	if !rows[1].Completed || !rows[1].CompletedAt.Equal(at) {
		t.Errorf("rows[1] = %+v, want completed at %v", rows[1], at)
	}
	if rows[1].ModuleTitle == "" {
		t.Error("ModuleTitle should be resolved from the catalog")
	}
}

func TestWrite(t *testing.T) {
	rows := []report.Row{
		{LessonID: "a", LessonTitle: "역할", ModuleTitle: "기초", Completed: true,
			CompletedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)},
		{LessonID: "b", LessonTitle: "맥락", ModuleTitle: "기초"},
	}

	var buf bytes.Buffer
	if err := report.Write(&buf, "u1", rows); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	got, err := f.GetRows(report.SheetName)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if got[0][1] != "u1" {
		t.Errorf("user cell = %q, want u1", got[0][1])
	}
	if got[3][0] != "역할" || got[3][3] != "2026-03-01 09:30" {
		t.Errorf("first lesson row = %v", got[3])
	}
	if len(got[4]) > 2 && got[4][2] != "" {
		t.Errorf("incomplete lesson marked: %v", got[4])
	}
	summary := got[len(got)-1]
	if summary[0] != "합계" || summary[2] != "1/2" {
		t.Errorf("summary row = %v, want 합계 1/2", summary)
	}
}
