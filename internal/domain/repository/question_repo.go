package repository

import (
	"github.com/yourusername/exam-prep-api/internal/domain/entity"
)

// QuestionRepository определяет методы чтения банка вопросов.
// Банк загружается один раз при старте и дальше не меняется.
type QuestionRepository interface {
	GetAll() ([]entity.Question, error)
	GetByID(id string) (*entity.Question, error)
	GetByIDs(ids []string) ([]entity.Question, error)
	GetTopics() ([]string, error)
	Count() (int, error)
}
