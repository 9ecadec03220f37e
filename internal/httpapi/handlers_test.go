package httpapi

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/p-n-ai/pai-academy/internal/curriculum"
	"github.com/p-n-ai/pai-academy/internal/progress"
)

// brokenWriter accepts headers but fails every body write.
type brokenWriter struct {
	header http.Header
	status int
}

func (w *brokenWriter) Header() http.Header { return w.header }
func (w *brokenWriter) WriteHeader(code int) { w.status = code }
func (w *brokenWriter) Write([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestHandleReport_LogsWriteFailure(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	c, err := curriculum.Default()
	if err != nil {
		t.Fatal(err)
	}
	s := New(Config{Catalog: c, Progress: progress.NewService(c, progress.NewMemoryStore())})

	r := httptest.NewRequest(http.MethodGet, "/api/user/u1/report.xlsx", nil)
	r.SetPathValue("id", "u1")
	w := &brokenWriter{header: http.Header{}}
	s.handleReport(w, r)

	if w.status != http.StatusOK {
		t.Errorf("status = %d, want 200", w.status)
	}
	out := logs.String()
	if !strings.Contains(out, "failed to write response") || !strings.Contains(out, "connection reset") {
		t.Errorf("write failure not logged: %q", out)
	}
}
