package curriculum

import "github.com/p-n-ai/pai-academy/internal/quiz"

// Grade identifies a learner's school level and selects a curriculum bucket.
type Grade string

const (
	GradeUnknown    Grade = ""
	GradePreschool  Grade = "preschool"
	GradeElementary Grade = "elementary"
	GradeMiddle     Grade = "middle"
	GradeHigh       Grade = "high"
	GradeCollege    Grade = "college"
)

// DefaultGrade is the bucket used when a grade is unset or not in the catalog.
const DefaultGrade = GradeMiddle

// Grades lists the known grades from youngest to oldest.
var Grades = []Grade{GradePreschool, GradeElementary, GradeMiddle, GradeHigh, GradeCollege}

// ParseGrade maps text to a known grade.
func ParseGrade(s string) (Grade, bool) {
	for _, g := range Grades {
		if string(g) == s {
			return g, true
		}
	}
	return GradeUnknown, false
}

// Label returns the Korean display name of the grade.
func (g Grade) Label() string {
	switch g {
	case GradePreschool:
		return "유아"
	case GradeElementary:
		return "초등학생"
	case GradeMiddle:
		return "중학생"
	case GradeHigh:
		return "고등학생"
	case GradeCollege:
		return "대학생 이상"
	default:
		return "기타"
	}
}

// Module is one unit of a grade's curriculum.
type Module struct {
	ID         string   `yaml:"id" json:"id"`
	Title      string   `yaml:"title" json:"title"`
	Difficulty string   `yaml:"difficulty" json:"difficulty"`
	Duration   string   `yaml:"duration" json:"duration"`
	Topics     []string `yaml:"topics" json:"topics"`
}

// Lesson is a prompt-engineering lesson with a structured exercise.
type Lesson struct {
	ID       string   `yaml:"id" json:"id"`
	ModuleID string   `yaml:"module_id" json:"moduleId"`
	Title    string   `yaml:"title" json:"title"`
	Order    int      `yaml:"order" json:"order"`
	Exercise Exercise `yaml:"exercise" json:"-"`
}

// Exercise describes what a passing submission for a lesson looks like.
// Zero values disable the corresponding check.
type Exercise struct {
	Command      string   `yaml:"command"`
	MinTokens    int      `yaml:"min_tokens"`
	MaxTokens    int      `yaml:"max_tokens"`
	RoleKeywords []string `yaml:"role_keywords"`
}

// QuizSet is a quiz attached to a lesson.
type QuizSet struct {
	ID        string          `yaml:"id" json:"id"`
	LessonID  string          `yaml:"lesson_id" json:"lessonId"`
	Title     string          `yaml:"title" json:"title"`
	Questions []quiz.Question `yaml:"questions" json:"questions"`
}

type gradesDoc struct {
	Grades map[string][]Module `yaml:"grades"`
}

type lessonsDoc struct {
	Lessons []Lesson `yaml:"lessons"`
}
