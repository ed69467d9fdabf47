package session

import (
	"time"

	"github.com/yourusername/exam-prep-api/internal/domain/entity"
)

// Score подсчитывает итог по пулу и ответам.
// Total всегда равен длине пула; вопросы без правильного ответа не засчитываются никогда.
func Score(pool []entity.Question, answers map[string]string, auto bool, at time.Time) entity.Result {
	result := entity.Result{
		Total:         len(pool),
		AutoSubmitted: auto,
		SubmittedAt:   at,
	}
	for i := range pool {
		q := &pool[i]
		if !q.IsGraded() {
			result.Ungraded++
			continue
		}
		selected, ok := answers[q.ID]
		if ok && q.Evaluate(selected) == entity.OutcomeCorrect {
			result.Score++
		}
	}
	return result
}

// Review строит разбор экзамена по каждому вопросу пула
func Review(pool []entity.Question, answers map[string]string, flags map[string]bool) []entity.ReviewItem {
	items := make([]entity.ReviewItem, 0, len(pool))
	for i := range pool {
		q := &pool[i]
		selected := answers[q.ID]

		var status entity.ReviewStatus
		switch {
		case !q.IsGraded():
			status = entity.ReviewUngraded
		case selected == "":
			status = entity.ReviewUnanswered
		case q.Evaluate(selected) == entity.OutcomeCorrect:
			status = entity.ReviewCorrect
		default:
			status = entity.ReviewWrong
		}

		items = append(items, entity.ReviewItem{
			Index:         i,
			QuestionID:    q.ID,
			Topic:         q.Topic,
			Selected:      selected,
			CorrectOption: q.CorrectOption,
			Status:        status,
			Flagged:       flags[q.ID],
			Explanation:   q.Explanation,
		})
	}
	return items
}
