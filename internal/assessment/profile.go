// Package assessment implements the five-step learner questionnaire that
// builds a Profile for the recommendation engine.
package assessment

import "github.com/p-n-ai/pai-academy/internal/curriculum"

type Experience string

const (
	ExperienceNone         Experience = "none"
	ExperienceBeginner     Experience = "beginner"
	ExperienceIntermediate Experience = "intermediate"
	ExperienceAdvanced     Experience = "advanced"
)

type Interest string

const (
	InterestCoding   Interest = "coding"
	InterestArt      Interest = "art"
	InterestWriting  Interest = "writing"
	InterestScience  Interest = "science"
	InterestLanguage Interest = "language"
	InterestGame     Interest = "game"
	InterestRobot    Interest = "robot"
	InterestOther    Interest = "other"
)

// Interests is the canonical tag order. Profiles keep their interests in
// this order so output derived from them does not depend on click order.
var Interests = []Interest{
	InterestCoding, InterestArt, InterestWriting, InterestScience,
	InterestLanguage, InterestGame, InterestRobot, InterestOther,
}

type LearningStyle string

const (
	StyleVisual  LearningStyle = "visual"
	StyleHandsOn LearningStyle = "hands-on"
	StyleReading LearningStyle = "reading"
	StyleGame    LearningStyle = "game"
)

type Goal string

const (
	GoalHomework Goal = "homework"
	GoalCreative Goal = "creative"
	GoalCareer   Goal = "career"
	GoalFun      Goal = "fun"
)

// Profile is what the learner told us about themselves.
type Profile struct {
	Grade         curriculum.Grade `json:"grade"`
	Experience    Experience       `json:"experience"`
	Interests     []Interest       `json:"interests"`
	LearningStyle LearningStyle    `json:"learningStyle"`
	Goal          Goal             `json:"goals"`
}

// Complete reports whether every field is filled in.
func (p Profile) Complete() bool {
	return p.Grade != curriculum.GradeUnknown &&
		p.Experience != "" &&
		len(p.Interests) > 0 &&
		p.LearningStyle != "" &&
		p.Goal != ""
}

// HasInterest reports whether tag is selected.
func (p Profile) HasInterest(tag Interest) bool {
	for _, t := range p.Interests {
		if t == tag {
			return true
		}
	}
	return false
}

// Normalize returns a copy of p with unknown interests dropped, duplicates
// removed and the rest in canonical order. Profiles decoded from clients go
// through here before use.
func (p Profile) Normalize() Profile {
	seen := make(map[Interest]bool, len(p.Interests))
	for _, t := range p.Interests {
		seen[t] = true
	}
	p.Interests = nil
	for _, t := range Interests {
		if seen[t] {
			p.Interests = append(p.Interests, t)
		}
	}
	return p
}

func (p Profile) clone() Profile {
	p.Interests = append([]Interest(nil), p.Interests...)
	return p
}

// ParseExperience parses an experience level.
func ParseExperience(s string) (Experience, bool) {
	switch e := Experience(s); e {
	case ExperienceNone, ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced:
		return e, true
	}
	return "", false
}

// ParseInterest parses an interest tag.
func ParseInterest(s string) (Interest, bool) {
	for _, t := range Interests {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

func ParseLearningStyle(s string) (LearningStyle, bool) {
	switch l := LearningStyle(s); l {
	case StyleVisual, StyleHandsOn, StyleReading, StyleGame:
		return l, true
	}
	return "", false
}

func ParseGoal(s string) (Goal, bool) {
	switch g := Goal(s); g {
	case GoalHomework, GoalCreative, GoalCareer, GoalFun:
		return g, true
	}
	return "", false
}
