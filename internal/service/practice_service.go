package service

import (
	"fmt"

	"github.com/yourusername/exam-prep-api/internal/domain/repository"
	"github.com/yourusername/exam-prep-api/internal/service/session"
)

// PracticeService связывает практическую сессию с банком вопросов
type PracticeService struct {
	practice     *session.Practice
	questionRepo repository.QuestionRepository
	config       *session.Config
}

// NewPracticeService создает сервис практики
func NewPracticeService(practice *session.Practice, questionRepo repository.QuestionRepository, config *session.Config) *PracticeService {
	if config == nil {
		config = session.DefaultConfig()
	}
	return &PracticeService{
		practice:     practice,
		questionRepo: questionRepo,
		config:       config,
	}
}

// Topics возвращает список тем, "ALL" первым
func (s *PracticeService) Topics() ([]string, error) {
	return s.questionRepo.GetTopics()
}

// Sizes возвращает допустимые размеры набора
func (s *PracticeService) Sizes() []int {
	return append([]int(nil), s.config.PracticeSizes...)
}

// Resume восстанавливает практику после перезапуска
func (s *PracticeService) Resume() session.PracticeSnapshot {
	return s.practice.Resume()
}

// Configure выбирает тему и размер набора
func (s *PracticeService) Configure(topic string, size int) (session.PracticeSnapshot, error) {
	if size == 0 {
		size = s.config.DefaultPracticeSize
	}
	questions, err := s.questionRepo.GetAll()
	if err != nil {
		return session.PracticeSnapshot{}, fmt.Errorf("failed to load questions: %w", err)
	}
	return s.practice.Configure(questions, topic, size)
}

// NewSet собирает новый набор с текущими настройками
func (s *PracticeService) NewSet() (session.PracticeSnapshot, error) {
	questions, err := s.questionRepo.GetAll()
	if err != nil {
		return session.PracticeSnapshot{}, fmt.Errorf("failed to load questions: %w", err)
	}
	return s.practice.NewSet(questions)
}

// Select запоминает выбранный вариант
func (s *PracticeService) Select(optionID string) (session.PracticeSnapshot, error) {
	return s.practice.SelectOption(optionID)
}

// Submit отправляет выбранный ответ
func (s *PracticeService) Submit() (session.SubmitOutcome, session.PracticeSnapshot, error) {
	outcome, err := s.practice.SubmitCurrent()
	if err != nil {
		return session.SubmitOutcome{}, session.PracticeSnapshot{}, err
	}
	return outcome, s.practice.Snapshot(), nil
}

// Advance переходит к следующему вопросу
func (s *PracticeService) Advance() (session.PracticeSnapshot, error) {
	return s.practice.Advance()
}

// Snapshot возвращает текущее состояние практики
func (s *PracticeService) Snapshot() session.PracticeSnapshot {
	return s.practice.Snapshot()
}
