package entity

import (
	"fmt"
	"time"
)

// Статусы экзаменационной сессии
const (
	ExamStatusNotStarted ExamStatus = "not_started"
	ExamStatusRunning    ExamStatus = "running"
	ExamStatusSubmitted  ExamStatus = "submitted"
)

// ExamStatus - состояние экзамена
type ExamStatus string

// ExamState - сохраняемое состояние пробного экзамена.
// Срок хранится как абсолютное время DeadlineAt, оставшееся время всегда вычисляется.
type ExamState struct {
	ID           string            `json:"id"`
	Status       ExamStatus        `json:"status"`
	Pool         []Question        `json:"pool"`
	CurrentIndex int               `json:"current_index"`
	Answers      map[string]string `json:"answers"`
	Flags        map[string]bool   `json:"flags"`
	StartedAt    time.Time         `json:"started_at"`
	DeadlineAt   time.Time         `json:"deadline_at"`
	DurationSec  int               `json:"duration_sec"`
	Result       *Result           `json:"result,omitempty"`
}

// IsRunning проверяет, идёт ли экзамен
func (s *ExamState) IsRunning() bool {
	return s.Status == ExamStatusRunning
}

// IsSubmitted проверяет, сдан ли экзамен
func (s *ExamState) IsSubmitted() bool {
	return s.Status == ExamStatusSubmitted
}

// Remaining возвращает оставшееся время, не меньше нуля
func (s *ExamState) Remaining(now time.Time) time.Duration {
	left := s.DeadlineAt.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// Elapsed возвращает прошедшее время, ограниченное длительностью экзамена
func (s *ExamState) Elapsed(now time.Time) time.Duration {
	elapsed := now.Sub(s.StartedAt)
	limit := time.Duration(s.DurationSec) * time.Second
	if elapsed > limit {
		elapsed = limit
	}
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// IndexOf возвращает позицию вопроса в пуле или -1
func (s *ExamState) IndexOf(questionID string) int {
	for i := range s.Pool {
		if s.Pool[i].ID == questionID {
			return i
		}
	}
	return -1
}

// FlaggedIDs возвращает отмеченные вопросы в порядке пула
func (s *ExamState) FlaggedIDs() []string {
	ids := make([]string, 0, len(s.Flags))
	for _, q := range s.Pool {
		if s.Flags[q.ID] {
			ids = append(ids, q.ID)
		}
	}
	return ids
}

// Validate проверяет согласованность загруженного состояния.
// Состояние, не прошедшее проверку, считается повреждённым.
func (s *ExamState) Validate() error {
	switch s.Status {
	case ExamStatusRunning, ExamStatusSubmitted:
	default:
		return fmt.Errorf("unexpected exam status %q", s.Status)
	}
	if len(s.Pool) == 0 {
		return fmt.Errorf("exam pool is empty")
	}
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Pool) {
		return fmt.Errorf("current index %d is out of range", s.CurrentIndex)
	}
	if s.DeadlineAt.IsZero() || !s.DeadlineAt.After(s.StartedAt) {
		return fmt.Errorf("invalid exam timing")
	}
	for qid, oid := range s.Answers {
		idx := s.IndexOf(qid)
		if idx < 0 {
			return fmt.Errorf("answer for unknown question %q", qid)
		}
		if !s.Pool[idx].HasOption(oid) {
			return fmt.Errorf("answer %q is not an option of question %q", oid, qid)
		}
	}
	for qid := range s.Flags {
		if s.IndexOf(qid) < 0 {
			return fmt.Errorf("flag for unknown question %q", qid)
		}
	}
	if s.IsSubmitted() && s.Result == nil {
		return fmt.Errorf("submitted exam has no result")
	}
	return nil
}
