package session

import (
	"fmt"
	"time"

	"github.com/yourusername/exam-prep-api/internal/domain/entity"
)

// NavigatorItem - ячейка навигатора экзамена
type NavigatorItem struct {
	Index      int    `json:"index"`
	QuestionID string `json:"question_id"`
	Answered   bool   `json:"answered"`
	Flagged    bool   `json:"flagged"`
	Current    bool   `json:"current"`
}

// ExamSnapshot - копия состояния экзамена только для чтения
type ExamSnapshot struct {
	ID           string
	Status       entity.ExamStatus
	CurrentIndex int
	Total        int
	Current      *entity.Question
	Selected     string
	Answered     int
	Flagged      []string
	Navigator    []NavigatorItem
	StartedAt    time.Time
	DeadlineAt   time.Time
	Remaining    time.Duration
	Elapsed      time.Duration
	Result       *entity.Result
}

// PracticeSnapshot - копия состояния практики только для чтения
type PracticeSnapshot struct {
	Status       entity.PracticeStatus
	Topic        string
	Size         int
	CurrentIndex int
	Total        int
	Current      *entity.Question
	Selected     string
	Submitted    bool
	Outcome      entity.Outcome
	Answered     int
	Correct      int
}

// SubmitOutcome - итог отправки ответа в практике
type SubmitOutcome struct {
	QuestionID    string
	Selected      string
	Outcome       entity.Outcome
	CorrectOption string
	Explanation   string
	ExplanationBN string
}

// FormatClock форматирует длительность как mm:ss, отрицательные значения дают 00:00
func FormatClock(d time.Duration) string {
	sec := int(d / time.Second)
	if sec < 0 {
		sec = 0
	}
	return fmt.Sprintf("%02d:%02d", sec/60, sec%60)
}

func copyQuestion(q *entity.Question) *entity.Question {
	if q == nil {
		return nil
	}
	cp := *q
	cp.Options = append(entity.OptionList(nil), q.Options...)
	return &cp
}
