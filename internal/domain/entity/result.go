package entity

import "time"

// Outcome - итог проверки одного ответа
type Outcome string

const (
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
	OutcomeUngraded  Outcome = "ungraded"
)

// Result - итог завершённого экзамена. Создаётся один раз и не меняется.
type Result struct {
	Score         int       `json:"score"`
	Total         int       `json:"total"`
	Ungraded      int       `json:"ungraded"`
	AutoSubmitted bool      `json:"auto_submitted"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// Percent возвращает долю правильных ответов в процентах
func (r Result) Percent() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Score) * 100 / float64(r.Total)
}

// ReviewStatus - статус вопроса в разборе экзамена
type ReviewStatus string

const (
	ReviewCorrect    ReviewStatus = "correct"
	ReviewWrong      ReviewStatus = "wrong"
	ReviewUnanswered ReviewStatus = "unanswered"
	ReviewUngraded   ReviewStatus = "ungraded"
)

// ReviewItem - строка разбора экзамена для одного вопроса
type ReviewItem struct {
	Index         int          `json:"index"`
	QuestionID    string       `json:"question_id"`
	Topic         string       `json:"topic"`
	Selected      string       `json:"selected,omitempty"`
	CorrectOption string       `json:"correct_option,omitempty"`
	Status        ReviewStatus `json:"status"`
	Flagged       bool         `json:"flagged"`
	Explanation   string       `json:"explanation,omitempty"`
}
