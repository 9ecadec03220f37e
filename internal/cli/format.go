package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/p-n-ai/pai-academy/internal/progress"
	"github.com/p-n-ai/pai-academy/internal/quiz"
	"github.com/p-n-ai/pai-academy/internal/recommend"
)

var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	styleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	styleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	styleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	styleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	styleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	styleBox    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ColorDim).Padding(0, 1)
)

const barWidth = 20

func formatRecommendation(rec recommend.Recommendation) string {
	var b strings.Builder
	b.WriteString(styleHeader.Render("추천 학습 계획") + "\n")
	grade := rec.Grade.Label()
	if rec.Fallback {
		grade += styleDim.Render(" (기본 과정)")
	}
	fmt.Fprintf(&b, "과정: %s\n\n", grade)

	b.WriteString(styleHeader.Render("커리큘럼") + "\n")
	for i, m := range rec.Modules {
		fmt.Fprintf(&b, "  %d. %s %s\n", i+1, m.Title, styleDim.Render(m.Duration))
	}

	b.WriteString("\n" + styleHeader.Render("추천 AI 도구") + "\n")
	for _, t := range rec.Tools {
		fmt.Fprintf(&b, "  • %s\n", t)
	}

	b.WriteString("\n" + styleHeader.Render("로드맵") + "\n")
	for i, step := range rec.Roadmap {
		title := step.ModuleTitle
		if title == "" {
			title = styleDim.Render("-")
		}
		fmt.Fprintf(&b, "  %d) %s: %s\n", i+1, step.Label, title)
	}
	return b.String()
}

func formatQuizResult(res quiz.Completed, review []quiz.ReviewItem) string {
	var b strings.Builder
	verdict := styleRed.Render("불합격")
	if res.Passed {
		verdict = styleGreen.Render("합격")
	}
	fmt.Fprintf(&b, "%s  %d/%d (%d%%)\n\n", verdict, res.Score, res.Total, res.Percentage)

	for i, item := range review {
		mark := styleGreen.Render("O")
		if !item.Correct {
			mark = styleRed.Render("X")
		}
		fmt.Fprintf(&b, "%s %d. %s\n", mark, i+1, item.Question)
		if !item.Correct && item.CorrectText != "" {
			fmt.Fprintf(&b, "     %s %s\n", styleDim.Render("정답:"), item.CorrectText)
		}
	}
	return b.String()
}

func formatOutcome(out progress.Outcome) string {
	switch {
	case out.Failed:
		return styleRed.Render(out.Message) + "\n"
	case out.Completed:
		text := "레슨을 완료했습니다!"
		if out.Feedback != "" {
			text = out.Feedback + "\n" + text
		}
		return styleGreen.Render(text) + "\n"
	default:
		return styleYellow.Render(out.Feedback) + "\n"
	}
}

func formatProgress(userID string, s progress.Summary) string {
	filled := 0
	if s.Total > 0 {
		filled = s.Completed * barWidth / s.Total
	}
	bar := styleGreen.Render(strings.Repeat("█", filled)) + styleDim.Render(strings.Repeat("░", barWidth-filled))
	body := fmt.Sprintf("%s\n%s %d/%d 레슨 완료", styleHeader.Render(userID), bar, s.Completed, s.Total)
	return styleBox.Render(body) + "\n"
}
