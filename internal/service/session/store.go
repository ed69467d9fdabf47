package session

import (
	"errors"
	"log"

	"github.com/yourusername/exam-prep-api/internal/domain/entity"
	"github.com/yourusername/exam-prep-api/internal/domain/repository"
	apperrors "github.com/yourusername/exam-prep-api/internal/pkg/errors"
)

// Store - типизированная обёртка над хранилищем состояния.
// Отсутствующий ключ, нечитаемое или несогласованное значение дают значение по умолчанию:
// повреждённое сохранённое состояние никогда не ломает сессию.
type Store struct {
	repo repository.StateRepository
}

// NewStore создает типизированное хранилище
func NewStore(repo repository.StateRepository) *Store {
	return &Store{repo: repo}
}

// loadJSON читает ключ в dest. Возвращает false, если значения нет или оно не читается.
func (s *Store) loadJSON(key string, dest interface{}) bool {
	err := s.repo.GetJSON(key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		log.Printf("[SessionStore] Значение '%s' не прочитано, используется значение по умолчанию: %v", key, err)
	}
	return false
}

// LoadExam возвращает сохранённый экзамен или nil
func (s *Store) LoadExam() *entity.ExamState {
	var state entity.ExamState
	if !s.loadJSON(StateKeyExam, &state) {
		return nil
	}
	if err := state.Validate(); err != nil {
		log.Printf("[SessionStore] Сохранённый экзамен повреждён и будет проигнорирован: %v", err)
		return nil
	}
	if state.Answers == nil {
		state.Answers = map[string]string{}
	}
	if state.Flags == nil {
		state.Flags = map[string]bool{}
	}
	return &state
}

// SaveExam сохраняет экзамен
func (s *Store) SaveExam(state *entity.ExamState) error {
	return s.repo.SetJSON(StateKeyExam, state)
}

// ClearExam удаляет сохранённый экзамен
func (s *Store) ClearExam() error {
	return s.repo.Delete(StateKeyExam)
}

// LoadPractice возвращает сохранённую практику или nil
func (s *Store) LoadPractice() *entity.PracticeState {
	var state entity.PracticeState
	if !s.loadJSON(StateKeyPractice, &state) {
		return nil
	}
	if err := state.Validate(); err != nil {
		log.Printf("[SessionStore] Сохранённая практика повреждена и будет проигнорирована: %v", err)
		return nil
	}
	if state.Answers == nil {
		state.Answers = map[string]string{}
	}
	return &state
}

// SavePractice сохраняет практику
func (s *Store) SavePractice(state *entity.PracticeState) error {
	return s.repo.SetJSON(StateKeyPractice, state)
}

// LoadProgress возвращает сохранённый прогресс или пустой прогресс
func (s *Store) LoadProgress() *entity.ProgressRecord {
	progress := entity.NewProgressRecord()
	if !s.loadJSON(StateKeyProgress, progress) {
		return entity.NewProgressRecord()
	}
	progress.Normalize()
	return progress
}

// SaveProgress сохраняет прогресс
func (s *Store) SaveProgress(progress *entity.ProgressRecord) error {
	return s.repo.SetJSON(StateKeyProgress, progress)
}
