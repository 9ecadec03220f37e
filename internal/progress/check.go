package progress

import (
	"fmt"
	"strings"

	"github.com/p-n-ai/pai-academy/internal/curriculum"
	"github.com/p-n-ai/pai-academy/internal/tokens"
)

// PassFeedback is returned when a submission meets every rule.
const PassFeedback = "훌륭해요! 역할, 맥락, 행동이 모두 잘 갖춰진 프롬프트입니다."

// Check validates a submission against an exercise. Issues are reported in
// a fixed order: role, context, action, token count, command, role keyword.
func Check(ex curriculum.Exercise, sub Submission) Verdict {
	role := tokens.Normalize(sub.Role)
	var issues []string

	if role == "" {
		issues = append(issues, "역할(Role)을 입력해 주세요.")
	}
	if tokens.IsBlank(sub.Context) {
		issues = append(issues, "맥락(Context)을 입력해 주세요.")
	}
	if tokens.IsBlank(sub.Action) {
		issues = append(issues, "행동(Action)을 입력해 주세요.")
	}

	if ex.MinTokens > 0 && sub.TokenCount < ex.MinTokens {
		issues = append(issues, fmt.Sprintf("프롬프트가 너무 짧아요. 최소 %d 토큰이 필요합니다 (현재 %d).", ex.MinTokens, sub.TokenCount))
	}
	if ex.MaxTokens > 0 && sub.TokenCount > ex.MaxTokens {
		issues = append(issues, fmt.Sprintf("프롬프트가 너무 길어요. 최대 %d 토큰까지 가능합니다 (현재 %d).", ex.MaxTokens, sub.TokenCount))
	}

	if ex.Command != "" && !sameCommand(ex.Command, sub.Command) {
		issues = append(issues, fmt.Sprintf("%s 명령어를 사용해 주세요.", ex.Command))
	}

	if role != "" && len(ex.RoleKeywords) > 0 && !containsAny(role, ex.RoleKeywords) {
		issues = append(issues, fmt.Sprintf("역할에 %s 중 하나를 포함해 보세요.", strings.Join(ex.RoleKeywords, ", ")))
	}

	if len(issues) > 0 {
		return Verdict{Passed: false, Feedback: strings.Join(issues, "\n")}
	}
	return Verdict{Passed: true, Feedback: PassFeedback}
}

func sameCommand(want, got string) bool {
	trim := func(s string) string {
		return strings.TrimPrefix(strings.TrimSpace(s), "/")
	}
	return strings.EqualFold(trim(want), trim(got))
}

func containsAny(s string, keywords []string) bool {
	lower := strings.ToLower(s)
	for _, k := range keywords {
		if strings.Contains(lower, strings.ToLower(tokens.Normalize(k))) {
			return true
		}
	}
	return false
}
