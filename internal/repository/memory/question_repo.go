package memory

import (
	"github.com/yourusername/exam-prep-api/internal/domain/entity"
	apperrors "github.com/yourusername/exam-prep-api/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository над заранее загруженным банком.
// Наружу отдаются копии, поэтому банк остаётся неизменным.
type QuestionRepo struct {
	questions []entity.Question
	byID      map[string]int
	topics    []string
}

// NewQuestionRepo создает репозиторий из загруженного банка
func NewQuestionRepo(bank *entity.QuestionBank) *QuestionRepo {
	questions := make([]entity.Question, len(bank.Questions))
	copy(questions, bank.Questions)

	byID := make(map[string]int, len(questions))
	for i := range questions {
		byID[questions[i].ID] = i
	}

	return &QuestionRepo{
		questions: questions,
		byID:      byID,
		topics:    bank.TopicList(),
	}
}

// GetAll возвращает все вопросы в исходном порядке
func (r *QuestionRepo) GetAll() ([]entity.Question, error) {
	out := make([]entity.Question, len(r.questions))
	copy(out, r.questions)
	return out, nil
}

// GetByID возвращает вопрос по ID
func (r *QuestionRepo) GetByID(id string) (*entity.Question, error) {
	idx, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	q := r.questions[idx]
	return &q, nil
}

// GetByIDs возвращает найденные вопросы в порядке переданных ID, неизвестные ID пропускаются
func (r *QuestionRepo) GetByIDs(ids []string) ([]entity.Question, error) {
	out := make([]entity.Question, 0, len(ids))
	for _, id := range ids {
		if idx, ok := r.byID[id]; ok {
			out = append(out, r.questions[idx])
		}
	}
	return out, nil
}

// GetTopics возвращает список тем, "ALL" первым
func (r *QuestionRepo) GetTopics() ([]string, error) {
	out := make([]string, len(r.topics))
	copy(out, r.topics)
	return out, nil
}

// Count возвращает количество вопросов
func (r *QuestionRepo) Count() (int, error) {
	return len(r.questions), nil
}
