package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p-n-ai/pai-academy/internal/assessment"
	"github.com/p-n-ai/pai-academy/internal/curriculum"
	"github.com/p-n-ai/pai-academy/internal/progress"
)

var errScriptDone = errors.New("script exhausted")

// scriptedPrompter answers prompts from queues, in order.
type scriptedPrompter struct {
	selects  []string
	multis   [][]string
	inputs   []string
	confirms []bool
	titles   []string
}

func (p *scriptedPrompter) Select(title string, _ []assessment.Option) (string, error) {
	p.titles = append(p.titles, title)
	if len(p.selects) == 0 {
		return "", errScriptDone
	}
	v := p.selects[0]
	p.selects = p.selects[1:]
	return v, nil
}

func (p *scriptedPrompter) MultiSelect(title string, _ []assessment.Option) ([]string, error) {
	p.titles = append(p.titles, title)
	if len(p.multis) == 0 {
		return nil, errScriptDone
	}
	v := p.multis[0]
	p.multis = p.multis[1:]
	return v, nil
}

func (p *scriptedPrompter) Input(title, _ string) (string, error) {
	p.titles = append(p.titles, title)
	if len(p.inputs) == 0 {
		return "", errScriptDone
	}
	v := p.inputs[0]
	p.inputs = p.inputs[1:]
	return v, nil
}

func (p *scriptedPrompter) Confirm(title string) (bool, error) {
	p.titles = append(p.titles, title)
	if len(p.confirms) == 0 {
		return false, errScriptDone
	}
	v := p.confirms[0]
	p.confirms = p.confirms[1:]
	return v, nil
}

// testApp wires an App over the built-in catalog and an in-memory tracker.
func testApp(t *testing.T, prompt *scriptedPrompter) (*App, *progress.Service) {
	t.Helper()
	catalog, err := curriculum.Default()
	require.NoError(t, err)
	svc := progress.NewService(catalog, progress.NewMemoryStore())
	return &App{
		Catalog:       catalog,
		Tracker:       svc,
		Prompt:        prompt,
		IsInteractive: func() bool { return true },
	}, svc
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestAssessCmd_PrintsRecommendation(t *testing.T) {
	prompt := &scriptedPrompter{
		selects: []string{"high", "beginner", "hands-on", "career"},
		multis:  [][]string{{"art", "coding"}},
	}
	app, _ := testApp(t, prompt)

	out, err := executeCmd(t, app, "assess")
	require.NoError(t, err)

	assert.Contains(t, out, "추천 학습 계획")
	assert.Contains(t, out, "고등학생")
	assert.Contains(t, out, "GitHub Copilot")
	assert.Contains(t, out, "기초 다지기")
	assert.NotContains(t, out, "기본 과정")
	assert.Equal(t, "[1/5] 학년을 선택해 주세요", prompt.titles[0])
	assert.Len(t, prompt.titles, 5)
}

func TestAssessCmd_RepromptsRejectedAnswer(t *testing.T) {
	prompt := &scriptedPrompter{
		selects: []string{"graduate", "middle", "none", "visual", "fun"},
		multis:  [][]string{{"game"}},
	}
	app, _ := testApp(t, prompt)

	out, err := executeCmd(t, app, "assess")
	require.NoError(t, err)
	assert.Contains(t, out, "중학생")
	assert.Equal(t, prompt.titles[0], prompt.titles[1], "rejected grade should ask step 1 again")
}

func TestInteractiveCmds_RequireTerminal(t *testing.T) {
	app, _ := testApp(t, &scriptedPrompter{})
	app.IsInteractive = func() bool { return false }

	for _, args := range [][]string{{"assess"}, {"quiz", "quiz-role"}, {"lesson", "lesson-role"}} {
		_, err := executeCmd(t, app, args...)
		assert.ErrorIs(t, err, errNotInteractive, strings.Join(args, " "))
	}
}

func TestQuizCmd_PassCompletesLesson(t *testing.T) {
	prompt := &scriptedPrompter{
		selects:  []string{"0", "1", "1"},
		confirms: []bool{true},
	}
	app, svc := testApp(t, prompt)

	out, err := executeCmd(t, app, "--user", "u1", "quiz", "quiz-role")
	require.NoError(t, err)
	assert.Contains(t, out, "합격")
	assert.Contains(t, out, "3/3 (100%)")
	assert.Contains(t, out, "레슨을 완료했습니다")

	sum, err := svc.Progress(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Completed)
}

func TestQuizCmd_FailRetryPass(t *testing.T) {
	prompt := &scriptedPrompter{
		selects:  []string{"1", "0", "0", "0", "1", "1"},
		confirms: []bool{true, true},
	}
	app, svc := testApp(t, prompt)

	out, err := executeCmd(t, app, "--user", "u1", "quiz", "quiz-role")
	require.NoError(t, err)
	assert.Contains(t, out, "불합격  0/3 (0%)")
	assert.Contains(t, out, "정답:")
	assert.Contains(t, out, "3/3 (100%)")

	sum, err := svc.Progress(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Completed)
}

func TestQuizCmd_StopAfterFail(t *testing.T) {
	prompt := &scriptedPrompter{
		selects:  []string{"1", "0", "0"},
		confirms: []bool{false},
	}
	app, svc := testApp(t, prompt)

	_, err := executeCmd(t, app, "--user", "u1", "quiz", "quiz-role")
	require.NoError(t, err)

	sum, err := svc.Progress(context.Background(), "u1")
	require.NoError(t, err)
	assert.Zero(t, sum.Completed)
}

func TestQuizCmd_UnknownQuiz(t *testing.T) {
	app, _ := testApp(t, &scriptedPrompter{})
	_, err := executeCmd(t, app, "quiz", "quiz-missing")
	assert.ErrorContains(t, err, "not found")
}

func TestLessonCmd(t *testing.T) {
	longAction := strings.Repeat("반복문을 예시와 함께 차근차근 설명해 줘. ", 3)

	tests := []struct {
		name      string
		inputs    []string
		want      string
		completed int
	}{
		{
			name:      "passing submission",
			inputs:    []string{"너는 친절한 코딩 선생님이야", "파이썬을 처음 배우는 중학생이야", longAction, "/ask"},
			want:      "레슨을 완료했습니다",
			completed: 1,
		},
		{
			name:   "wrong command",
			inputs: []string{"너는 친절한 코딩 선생님이야", "파이썬을 처음 배우는 중학생이야", longAction, "/draw"},
			want:   "/ask 명령어를 사용해 주세요.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, svc := testApp(t, &scriptedPrompter{inputs: tt.inputs})

			out, err := executeCmd(t, app, "--user", "u1", "lesson", "lesson-role")
			require.NoError(t, err)
			assert.Contains(t, out, "역할(Role) 지정하기")
			assert.Contains(t, out, tt.want)

			sum, err := svc.Progress(context.Background(), "u1")
			require.NoError(t, err)
			assert.Equal(t, tt.completed, sum.Completed)
		})
	}
}

type downTracker struct{}

func (downTracker) SubmitAnswer(context.Context, string, progress.Submission) (progress.Verdict, error) {
	return progress.Verdict{}, errors.New("connection refused")
}

func (downTracker) CompleteLesson(context.Context, string, string) error {
	return errors.New("connection refused")
}

func (downTracker) Progress(context.Context, string) (progress.Summary, error) {
	return progress.Summary{}, errors.New("connection refused")
}

func TestLessonCmd_TrackerDown(t *testing.T) {
	app, _ := testApp(t, &scriptedPrompter{inputs: []string{"r", "c", "a", "/ask"}})
	app.Tracker = downTracker{}

	out, err := executeCmd(t, app, "--user", "u1", "lesson", "lesson-role")
	require.NoError(t, err)
	assert.Contains(t, out, progress.FailureMessage)
}

func TestProgressCmd(t *testing.T) {
	app, svc := testApp(t, &scriptedPrompter{})
	require.NoError(t, svc.CompleteLesson(context.Background(), "u1", "lesson-role"))

	out, err := executeCmd(t, app, "progress", "u1")
	require.NoError(t, err)
	assert.Contains(t, out, "1/5 레슨 완료")

	_, err = executeCmd(t, app, "--user", "", "progress")
	assert.ErrorContains(t, err, "user id is required")

	app.Tracker = downTracker{}
	_, err = executeCmd(t, app, "progress", "u1")
	assert.ErrorContains(t, err, "loading progress")
}
