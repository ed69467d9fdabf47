package service

import (
	"fmt"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/exam-prep-api/internal/domain/entity"
	"github.com/yourusername/exam-prep-api/internal/repository/memory"
	"github.com/yourusername/exam-prep-api/internal/service/session"
)

// ============================================================================
// Моки
// ============================================================================

// MockQuestionRepository реализует repository.QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) GetAll() ([]entity.Question, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByID(id string) (*entity.Question, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByIDs(ids []string) ([]entity.Question, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetTopics() ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockQuestionRepository) Count() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

// MockBroadcaster реализует EventBroadcaster
type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) BroadcastEvent(eventType string, data interface{}) error {
	args := m.Called(eventType, data)
	return args.Error(0)
}

// ============================================================================
// Вспомогательные функции
// ============================================================================

func testQuestions(n int, topic string) []entity.Question {
	questions := make([]entity.Question, n)
	for i := range questions {
		questions[i] = entity.Question{
			ID:            fmt.Sprintf("%s-%d", topic, i+1),
			Topic:         topic,
			Text:          fmt.Sprintf("Kysymys %d", i+1),
			Options:       entity.OptionList{{ID: "a", Text: "A"}, {ID: "b", Text: "B"}},
			CorrectOption: "a",
		}
	}
	return questions
}

func newMemoryStore() *session.Store {
	return session.NewStore(memory.NewStateRepo())
}

func newBankRepo(questions ...entity.Question) *memory.QuestionRepo {
	return memory.NewQuestionRepo(&entity.QuestionBank{Questions: questions})
}
