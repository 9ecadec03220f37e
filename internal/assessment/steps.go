package assessment

import "github.com/p-n-ai/pai-academy/internal/curriculum"

// Option is one selectable answer of a step.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Step describes a questionnaire step for rendering.
type Step struct {
	Number int      `json:"number"`
	Field  Field    `json:"field"`
	Title  string   `json:"title"`
	Multi  bool     `json:"multi"`
	Opts   []Option `json:"options"`
}

// Steps lists the questionnaire in order. Both the terminal client and the
// web client render from this table.
var Steps = []Step{
	{
		Number: 1,
		Field:  FieldGrade,
		Title:  "학년을 선택해 주세요",
		Opts:   gradeOptions(),
	},
	{
		Number: 2,
		Field:  FieldExperience,
		Title:  "AI를 사용해 본 경험이 있나요?",
		Opts: []Option{
			{string(ExperienceNone), "처음이에요"},
			{string(ExperienceBeginner), "몇 번 써 봤어요"},
			{string(ExperienceIntermediate), "자주 사용해요"},
			{string(ExperienceAdvanced), "능숙하게 활용해요"},
		},
	},
	{
		Number: 3,
		Field:  FieldInterests,
		Title:  "관심 있는 분야를 모두 골라 주세요",
		Multi:  true,
		Opts: []Option{
			{string(InterestCoding), "코딩"},
			{string(InterestArt), "미술"},
			{string(InterestWriting), "글쓰기"},
			{string(InterestScience), "과학"},
			{string(InterestLanguage), "외국어"},
			{string(InterestGame), "게임"},
			{string(InterestRobot), "로봇"},
			{string(InterestOther), "기타"},
		},
	},
	{
		Number: 4,
		Field:  FieldLearningStyle,
		Title:  "어떤 방식으로 배우는 게 좋나요?",
		Opts: []Option{
			{string(StyleVisual), "보면서 배우기"},
			{string(StyleHandsOn), "직접 해 보기"},
			{string(StyleReading), "읽으면서 배우기"},
			{string(StyleGame), "게임처럼 배우기"},
		},
	},
	{
		Number: 5,
		Field:  FieldGoal,
		Title:  "AI로 무엇을 하고 싶나요?",
		Opts: []Option{
			{string(GoalHomework), "숙제와 공부"},
			{string(GoalCreative), "창작 활동"},
			{string(GoalCareer), "진로 준비"},
			{string(GoalFun), "재미"},
		},
	},
}

// StepInfo returns the descriptor of step n.
func StepInfo(n int) (Step, bool) {
	if n < FirstStep || n > LastStep {
		return Step{}, false
	}
	return Steps[n-1], true
}

func gradeOptions() []Option {
	out := make([]Option, 0, len(curriculum.Grades))
	for _, g := range curriculum.Grades {
		out = append(out, Option{Value: string(g), Label: g.Label()})
	}
	return out
}
