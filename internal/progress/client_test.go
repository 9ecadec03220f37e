package progress_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/p-n-ai/pai-academy/internal/progress"
)

func TestClient_SubmitAnswer(t *testing.T) {
	var got progress.Submission
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/lessons/lesson-role/validate" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(progress.ValidateResponse{Success: true, Passed: true, Feedback: "good"})
	}))
	defer srv.Close()

	c := progress.NewClient(progress.WithBaseURL(srv.URL + "/"))
	v, err := c.SubmitAnswer(context.Background(), "lesson-role", progress.Submission{Role: "r", TokenCount: 42, Command: "/ask"})
	if err != nil {
		t.Fatalf("SubmitAnswer() error = %v", err)
	}
	if !v.Passed || v.Feedback != "good" {
		t.Errorf("Verdict = %+v", v)
	}
	if got.TokenCount != 42 || got.Command != "/ask" {
		t.Errorf("server received %+v", got)
	}
}

func TestClient_CompleteLesson(t *testing.T) {
	var got progress.CompleteRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/user/u1/complete-lesson" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(progress.CompleteResponse{Success: true})
	}))
	defer srv.Close()

	c := progress.NewClient(progress.WithBaseURL(srv.URL), progress.WithHTTPClient(srv.Client()))
	if err := c.CompleteLesson(context.Background(), "u1", "lesson-role"); err != nil {
		t.Fatalf("CompleteLesson() error = %v", err)
	}
	if got.LessonID != "lesson-role" {
		t.Errorf("lessonId = %q", got.LessonID)
	}
}

func TestClient_ProgressDecodesStringPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"user":{"progress":"{\"completed\":2,\"total\":5}"}}`))
	}))
	defer srv.Close()

	c := progress.NewClient(progress.WithBaseURL(srv.URL))
	sum, err := c.Progress(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Progress() error = %v", err)
	}
	if sum != (progress.Summary{Completed: 2, Total: 5}) {
		t.Errorf("Progress() = %+v", sum)
	}
}

func TestClient_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-200", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		}},
		{"success false", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success":false,"error":"nope"}`))
		}},
		{"bad progress string", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success":true,"user":{"progress":"not json"}}`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := progress.NewClient(progress.WithBaseURL(srv.URL))
			if _, err := c.Progress(context.Background(), "u1"); err == nil {
				t.Error("Progress() error = nil")
			}
		})
	}
}

func TestClient_UnreachableThroughCoordinator(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := progress.NewCoordinator(progress.NewClient(progress.WithBaseURL(url)))
	out := c.Submit(context.Background(), "u1", "lesson-role", progress.Submission{})
	if !out.Failed || out.Message != progress.FailureMessage {
		t.Errorf("Outcome = %+v, want fixed failure", out)
	}
}

func TestEncodeSummary(t *testing.T) {
	if got := progress.EncodeSummary(progress.Summary{Completed: 1, Total: 3}); got != `{"completed":1,"total":3}` {
		t.Errorf("EncodeSummary() = %s", got)
	}
}
