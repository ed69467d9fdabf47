package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// TopicAll - зарезервированное значение темы, означающее "без фильтра"
const TopicAll = "ALL"

// Option - вариант ответа на вопрос
type Option struct {
	ID     string `json:"id"`
	Text   string `json:"fi"`
	TextBN string `json:"bn,omitempty"`
}

// OptionList - пользовательский тип для хранения вариантов ответа в JSONB
type OptionList []Option

// Scan реализует интерфейс sql.Scanner для OptionList
// Используется GORM для чтения JSONB данных из базы
func (o *OptionList) Scan(value interface{}) error {
	if value == nil {
		*o = OptionList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to unmarshal JSONB value: expected []byte or string")
	}

	if len(bytes) == 0 {
		*o = OptionList{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для OptionList
func (o OptionList) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil // Пустой JSON массив вместо null
	}
	return json.Marshal(o)
}

// Question представляет вопрос экзамена.
// Пустой CorrectOption означает вопрос без оценки (ungraded).
type Question struct {
	ID            string     `gorm:"primaryKey;size:64" json:"id"`
	Topic         string     `gorm:"size:128;not null;index" json:"topic"`
	Text          string     `gorm:"type:text;not null" json:"question_fi"`
	TextBN        string     `gorm:"type:text" json:"question_bn,omitempty"`
	Options       OptionList `gorm:"type:jsonb;not null" json:"options"`
	CorrectOption string     `gorm:"size:64" json:"answer,omitempty"`
	Explanation   string     `gorm:"type:text" json:"explain_fi,omitempty"`
	ExplanationBN string     `gorm:"type:text" json:"explain_bn,omitempty"`
	CreatedAt     time.Time  `json:"-"`
	UpdatedAt     time.Time  `json:"-"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// IsGraded сообщает, задан ли у вопроса правильный ответ
func (q *Question) IsGraded() bool {
	return q.CorrectOption != ""
}

// HasOption проверяет, есть ли у вопроса вариант с указанным ID
func (q *Question) HasOption(optionID string) bool {
	_, ok := q.FindOption(optionID)
	return ok
}

// FindOption возвращает вариант ответа по ID
func (q *Question) FindOption(optionID string) (Option, bool) {
	for _, opt := range q.Options {
		if opt.ID == optionID {
			return opt, true
		}
	}
	return Option{}, false
}

// Evaluate оценивает выбранный вариант.
// Для вопроса без правильного ответа результат всегда OutcomeUngraded.
func (q *Question) Evaluate(optionID string) Outcome {
	if !q.IsGraded() {
		return OutcomeUngraded
	}
	if optionID == q.CorrectOption {
		return OutcomeCorrect
	}
	return OutcomeIncorrect
}

// Validate проверяет целостность вопроса
func (q *Question) Validate() error {
	if q.ID == "" {
		return errors.New("question id is empty")
	}
	if len(q.Options) == 0 {
		return fmt.Errorf("question %s has no options", q.ID)
	}
	seen := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		if opt.ID == "" {
			return fmt.Errorf("question %s has an option without id", q.ID)
		}
		if _, dup := seen[opt.ID]; dup {
			return fmt.Errorf("question %s has duplicate option id %q", q.ID, opt.ID)
		}
		seen[opt.ID] = struct{}{}
	}
	if q.IsGraded() && !q.HasOption(q.CorrectOption) {
		return fmt.Errorf("question %s: answer %q is not one of its options", q.ID, q.CorrectOption)
	}
	return nil
}

// MatchesTopic проверяет соответствие вопроса фильтру темы
func (q *Question) MatchesTopic(topic string) bool {
	return topic == TopicAll || q.Topic == topic
}
