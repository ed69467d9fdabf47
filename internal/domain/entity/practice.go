package entity

import "fmt"

// Статусы практической сессии
const (
	PracticeStatusIdle       PracticeStatus = "idle"
	PracticeStatusInProgress PracticeStatus = "in_progress"
	PracticeStatusAnswered   PracticeStatus = "answered"
	PracticeStatusCompleted  PracticeStatus = "completed"
	PracticeStatusEmpty      PracticeStatus = "empty"
)

// PracticeStatus - состояние практической сессии
type PracticeStatus string

// PracticeState - сохраняемое состояние практики.
// Selected хранит предварительный выбор, в Answers ответ попадает только после отправки.
type PracticeState struct {
	Topic        string            `json:"topic"`
	Size         int               `json:"size"`
	Pool         []Question        `json:"pool"`
	CurrentIndex int               `json:"current_index"`
	Selected     string            `json:"selected,omitempty"`
	Submitted    bool              `json:"submitted"`
	LastOutcome  Outcome           `json:"last_outcome,omitempty"`
	Answers      map[string]string `json:"answers"`
	Completed    bool              `json:"completed"`
	Configured   bool              `json:"configured"`
}

// Status вычисляет текущий статус
func (s *PracticeState) Status() PracticeStatus {
	switch {
	case !s.Configured:
		return PracticeStatusIdle
	case len(s.Pool) == 0:
		return PracticeStatusEmpty
	case s.Completed:
		return PracticeStatusCompleted
	case s.Submitted:
		return PracticeStatusAnswered
	default:
		return PracticeStatusInProgress
	}
}

// Current возвращает текущий вопрос или nil для пустого пула
func (s *PracticeState) Current() *Question {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Pool) {
		return nil
	}
	return &s.Pool[s.CurrentIndex]
}

// IsLast проверяет, является ли текущий вопрос последним в пуле
func (s *PracticeState) IsLast() bool {
	return s.CurrentIndex == len(s.Pool)-1
}

// Validate проверяет согласованность загруженного состояния
func (s *PracticeState) Validate() error {
	if !s.Configured {
		return nil
	}
	if s.Size <= 0 {
		return fmt.Errorf("invalid practice size %d", s.Size)
	}
	if len(s.Pool) == 0 {
		if s.CurrentIndex != 0 || s.Submitted || s.Selected != "" {
			return fmt.Errorf("empty practice pool with progress")
		}
		return nil
	}
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Pool) {
		return fmt.Errorf("current index %d is out of range", s.CurrentIndex)
	}
	if s.Selected != "" && !s.Pool[s.CurrentIndex].HasOption(s.Selected) {
		return fmt.Errorf("selected option %q does not belong to the current question", s.Selected)
	}
	return nil
}
