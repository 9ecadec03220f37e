package quiz

// ReviewItem describes how one question was answered.
type ReviewItem struct {
	Question    string `json:"question"`
	Selected    int    `json:"selected"` // -1 when unanswered
	Correct     bool   `json:"correct"`
	CorrectText string `json:"correctText,omitempty"`
}

// Review materializes per-question results for post-completion display.
// CorrectText is filled only for questions answered wrongly.
func (s Session) Review() []ReviewItem {
	items := make([]ReviewItem, len(s.Questions))
	for i, q := range s.Questions {
		selected, ok := s.Answers[i]
		if !ok {
			selected = -1
		}
		item := ReviewItem{
			Question: q.Question,
			Selected: selected,
			Correct:  ok && selected == q.Correct,
		}
		if !item.Correct && q.Correct >= 0 && q.Correct < len(q.Options) {
			item.CorrectText = q.Options[q.Correct]
		}
		items[i] = item
	}
	return items
}
