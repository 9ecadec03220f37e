package assessment

import "github.com/p-n-ai/pai-academy/internal/curriculum"

const (
	FirstStep = 1
	LastStep  = 5
)

// Field names a profile field that SetField can write.
type Field string

const (
	FieldGrade         Field = "grade"
	FieldExperience    Field = "experience"
	FieldInterests     Field = "interests"
	FieldLearningStyle Field = "learningStyle"
	FieldGoal          Field = "goals"
)

// StepField returns the field a step asks for.
func StepField(step int) Field {
	switch step {
	case 1:
		return FieldGrade
	case 2:
		return FieldExperience
	case 3:
		return FieldInterests
	case 4:
		return FieldLearningStyle
	case 5:
		return FieldGoal
	}
	return ""
}

// State is an assessment in progress. Transitions return a new State and a
// flag telling whether the transition was accepted; a rejected transition
// returns the receiver unchanged.
type State struct {
	Step      int     `json:"step"`
	Profile   Profile `json:"profile"`
	Submitted bool    `json:"submitted"`
}

// Submitted is emitted once, when the learner submits the last step.
type Submitted struct {
	Profile Profile `json:"profile"`
}

// New starts an assessment at step 1 with an empty profile.
func New() State {
	return State{Step: FirstStep}
}

// SetField writes a single-valued field. Interests are toggled with
// ToggleInterest instead; setting them here selects exactly one tag.
func (s State) SetField(field Field, value string) (State, bool) {
	if s.Submitted {
		return s, false
	}
	next := s.clone()
	switch field {
	case FieldGrade:
		g, ok := curriculum.ParseGrade(value)
		if !ok {
			return s, false
		}
		next.Profile.Grade = g
	case FieldExperience:
		e, ok := ParseExperience(value)
		if !ok {
			return s, false
		}
		next.Profile.Experience = e
	case FieldInterests:
		tag, ok := ParseInterest(value)
		if !ok {
			return s, false
		}
		next.Profile.Interests = []Interest{tag}
	case FieldLearningStyle:
		l, ok := ParseLearningStyle(value)
		if !ok {
			return s, false
		}
		next.Profile.LearningStyle = l
	case FieldGoal:
		g, ok := ParseGoal(value)
		if !ok {
			return s, false
		}
		next.Profile.Goal = g
	default:
		return s, false
	}
	return next, true
}

// ToggleInterest adds tag when absent and removes it when present.
func (s State) ToggleInterest(tag Interest) (State, bool) {
	if s.Submitted {
		return s, false
	}
	if _, ok := ParseInterest(string(tag)); !ok {
		return s, false
	}

	next := s.clone()
	if next.Profile.HasInterest(tag) {
		kept := next.Profile.Interests[:0]
		for _, t := range next.Profile.Interests {
			if t != tag {
				kept = append(kept, t)
			}
		}
		next.Profile.Interests = kept
	} else {
		next.Profile.Interests = append(next.Profile.Interests, tag)
	}
	next.Profile = next.Profile.Normalize()
	return next, true
}

// CanAdvance reports whether the current step's field is filled in. UIs use
// it to enable the next/submit control.
func (s State) CanAdvance() bool {
	if s.Submitted {
		return false
	}
	p := s.Profile
	switch StepField(s.Step) {
	case FieldGrade:
		return p.Grade != curriculum.GradeUnknown
	case FieldExperience:
		return p.Experience != ""
	case FieldInterests:
		return len(p.Interests) > 0
	case FieldLearningStyle:
		return p.LearningStyle != ""
	case FieldGoal:
		return p.Goal != ""
	}
	return false
}

// Next moves to the following step when the current one is complete.
func (s State) Next() (State, bool) {
	if s.Step >= LastStep || !s.CanAdvance() {
		return s, false
	}
	next := s.clone()
	next.Step++
	return next, true
}

// Back moves to the previous step. Entered data is kept.
func (s State) Back() (State, bool) {
	if s.Submitted || s.Step <= FirstStep {
		return s, false
	}
	next := s.clone()
	next.Step--
	return next, true
}

// Submit finalizes the assessment from the last step and hands the profile
// out by value.
func (s State) Submit() (State, Submitted, bool) {
	if s.Step != LastStep || !s.CanAdvance() || !s.Profile.Complete() {
		return s, Submitted{}, false
	}
	next := s.clone()
	next.Submitted = true
	return next, Submitted{Profile: next.Profile.clone()}, true
}

func (s State) clone() State {
	s.Profile = s.Profile.clone()
	return s
}
