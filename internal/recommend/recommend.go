// Package recommend turns a finished assessment profile into a learning
// plan. It is pure: no I/O, and the same profile always yields the same
// recommendation.
package recommend

import (
	"github.com/p-n-ai/pai-academy/internal/assessment"
	"github.com/p-n-ai/pai-academy/internal/curriculum"
)

// MaxTools caps the tool list.
const MaxTools = 4

// RoadmapLabels are the fixed phase names, in order.
var RoadmapLabels = [3]string{"기초 다지기", "실력 키우기", "프로젝트 완성"}

// toolsByInterest maps each interest tag to suggested AI tools.
var toolsByInterest = map[assessment.Interest][]string{
	assessment.InterestCoding:   {"GitHub Copilot", "ChatGPT Code Interpreter", "Replit AI", "Cursor"},
	assessment.InterestArt:      {"Midjourney", "DALL·E 3", "Canva AI"},
	assessment.InterestWriting:  {"ChatGPT", "Claude", "Notion AI"},
	assessment.InterestScience:  {"Wolfram Alpha", "Perplexity", "ChatGPT"},
	assessment.InterestLanguage: {"DeepL", "Papago", "ChatGPT"},
	assessment.InterestGame:     {"Scratch AI", "Roblox Assistant"},
	assessment.InterestRobot:    {"Teachable Machine", "micro:bit AI"},
	assessment.InterestOther:    {"ChatGPT", "Perplexity"},
}

// RoadmapStep pairs a phase label with the module taught in that phase.
// ModuleTitle is empty when the bucket has fewer modules than phases.
type RoadmapStep struct {
	Label       string `json:"step"`
	ModuleTitle string `json:"title"`
}

type Recommendation struct {
	Grade    curriculum.Grade    `json:"grade"`
	Fallback bool                `json:"fallback"`
	Modules  []curriculum.Module `json:"curriculum"`
	Tools    []string            `json:"tools"`
	Roadmap  []RoadmapStep       `json:"roadmap"`
}

// Engine builds recommendations from a read-only catalog.
type Engine struct {
	catalog *curriculum.Catalog
}

// NewEngine creates an engine over catalog.
func NewEngine(catalog *curriculum.Catalog) *Engine {
	return &Engine{catalog: catalog}
}

// Recommend builds the plan for p. Grades without a bucket get the
// default bucket and Fallback is set.
func (e *Engine) Recommend(p assessment.Profile) Recommendation {
	grade, modules := e.catalog.Bucket(p.Grade)
	return Recommendation{
		Grade:    grade,
		Fallback: grade != p.Grade,
		Modules:  modules,
		Tools:    Tools(p.Interests),
		Roadmap:  Roadmap(modules),
	}
}

// Tools returns up to MaxTools unique tool names for the given interests.
// Tags are visited in canonical order regardless of the input order.
func Tools(interests []assessment.Interest) []string {
	selected := make(map[assessment.Interest]bool, len(interests))
	for _, t := range interests {
		selected[t] = true
	}

	seen := make(map[string]bool)
	out := make([]string, 0, MaxTools)
	for _, tag := range assessment.Interests {
		if !selected[tag] {
			continue
		}
		for _, tool := range toolsByInterest[tag] {
			if seen[tool] {
				continue
			}
			seen[tool] = true
			out = append(out, tool)
			if len(out) == MaxTools {
				return out
			}
		}
	}
	return out
}

// Roadmap pairs the fixed phase labels with the first three modules.
func Roadmap(modules []curriculum.Module) []RoadmapStep {
	steps := make([]RoadmapStep, len(RoadmapLabels))
	for i, label := range RoadmapLabels {
		steps[i].Label = label
		if i < len(modules) {
			steps[i].ModuleTitle = modules[i].Title
		}
	}
	return steps
}
