package httpapi

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/p-n-ai/pai-academy/internal/analytics"
	"github.com/p-n-ai/pai-academy/internal/assessment"
	"github.com/p-n-ai/pai-academy/internal/coach"
	"github.com/p-n-ai/pai-academy/internal/curriculum"
	"github.com/p-n-ai/pai-academy/internal/progress"
	"github.com/p-n-ai/pai-academy/internal/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type gradeInfo struct {
	Grade   curriculum.Grade `json:"grade"`
	Label   string           `json:"label"`
	Modules int              `json:"modules"`
}

func (s *Server) handleGrades(w http.ResponseWriter, _ *http.Request) {
	grades := s.catalog.Grades()
	out := make([]gradeInfo, 0, len(grades))
	for _, g := range grades {
		modules, _ := s.catalog.Modules(g)
		out = append(out, gradeInfo{Grade: g, Label: g.Label(), Modules: len(modules)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "grades": out})
}

func (s *Server) handleCurriculum(w http.ResponseWriter, r *http.Request) {
	requested := curriculum.Grade(r.PathValue("grade"))
	grade, modules := s.catalog.Bucket(requested)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"grade":    grade,
		"fallback": grade != requested,
		"modules":  modules,
	})
}

func (s *Server) handleLessons(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "lessons": s.catalog.Lessons()})
}

// publicQuestion is a quiz question without its answer.
type publicQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	set, ok := s.catalog.Quiz(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}
	questions := make([]publicQuestion, len(set.Questions))
	for i, q := range set.Questions {
		questions[i] = publicQuestion{Question: q.Question, Options: q.Options}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"id":        set.ID,
		"lessonId":  set.LessonID,
		"title":     set.Title,
		"questions": questions,
	})
}

type recommendRequest struct {
	UserID string `json:"userId"`
	assessment.Profile
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if !decode(w, r, &req) {
		return
	}
	profile := req.Profile.Normalize()
	if !profile.Complete() || !knownAnswers(profile) {
		writeError(w, http.StatusBadRequest, msgIncomplete)
		return
	}

	rec := s.recommender.Recommend(profile)
	s.metrics.AssessmentSubmitted()
	if req.UserID != "" {
		analytics.Log(r.Context(), s.events, req.UserID, analytics.AssessmentSubmitted, map[string]any{
			"grade":    string(profile.Grade),
			"fallback": rec.Fallback,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "recommendation": rec})
}

// knownAnswers checks the enum fields. The grade is left to the catalog,
// which routes unknown grades to the default bucket.
func knownAnswers(p assessment.Profile) bool {
	_, e := assessment.ParseExperience(string(p.Experience))
	_, l := assessment.ParseLearningStyle(string(p.LearningStyle))
	_, g := assessment.ParseGoal(string(p.Goal))
	return e && l && g
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var sub progress.Submission
	if !decode(w, r, &sub) {
		return
	}
	v, err := s.progress.SubmitAnswer(r.Context(), r.PathValue("id"), sub)
	if err != nil {
		s.progressError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress.ValidateResponse{Success: true, Passed: v.Passed, Feedback: v.Feedback})
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	var req progress.CompleteRequest
	if !decode(w, r, &req) {
		return
	}
	if err := s.progress.CompleteLesson(r.Context(), r.PathValue("id"), req.LessonID); err != nil {
		s.progressError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress.CompleteResponse{Success: true})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	sum, err := s.progress.Progress(r.Context(), r.PathValue("id"))
	if err != nil {
		s.progressError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress.ProgressResponse{
		Success: true,
		User:    progress.ProgressUser{Progress: progress.EncodeSummary(sum)},
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	done, err := s.progress.Completed(r.Context(), userID)
	if err != nil {
		s.progressError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := report.Write(&buf, userID, report.Rows(s.catalog, done)); err != nil {
		slog.Error("report rendering failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, progress.FailureMessage)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="progress.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("failed to write response", "user_id", userID, "error", err)
	}
}

// progressError maps tracker errors to responses without leaking details.
func (s *Server) progressError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, progress.ErrLessonNotFound):
		writeError(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, progress.ErrUserRequired):
		writeError(w, http.StatusBadRequest, msgUserRequired)
	default:
		slog.Error("progress request failed", "error", err)
		writeError(w, http.StatusInternalServerError, progress.FailureMessage)
	}
}

type promptRequest struct {
	UserID string `json:"userId"`
	Prompt string `json:"prompt"`
}

func decodePrompt(w http.ResponseWriter, r *http.Request) (promptRequest, bool) {
	var req promptRequest
	if !decode(w, r, &req) {
		return req, false
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, msgUserRequired)
		return req, false
	}
	return req, true
}

// coachError writes the response for a coach failure and reports whether
// err was nil.
func coachError(w http.ResponseWriter, userID string, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, coach.ErrEmptyPrompt), errors.Is(err, coach.ErrPromptTooLong):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, coach.ErrBudgetExceeded):
		writeError(w, http.StatusTooManyRequests, msgBudget)
	default:
		slog.Error("prompt coaching failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, coach.FallbackFeedback)
	}
	return false
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePrompt(w, r)
	if !ok {
		return
	}
	a, err := s.coach.Analyze(r.Context(), req.UserID, req.Prompt)
	if !coachError(w, req.UserID, err) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "analysis": a})
}

func (s *Server) handleRewrite(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePrompt(w, r)
	if !ok {
		return
	}
	rw, err := s.coach.Rewrite(r.Context(), req.UserID, req.Prompt)
	if !coachError(w, req.UserID, err) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "rewrite": rw})
}
