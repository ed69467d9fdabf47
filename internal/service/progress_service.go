package service

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/yourusername/exam-prep-api/internal/domain/entity"
	"github.com/yourusername/exam-prep-api/internal/domain/repository"
	apperrors "github.com/yourusername/exam-prep-api/internal/pkg/errors"
	"github.com/yourusername/exam-prep-api/internal/service/session"
)

// ProgressService хранит накопленный прогресс: счётчик практики, список ошибок,
// закладки и историю пробных экзаменов. Реализует session.ProgressRecorder.
type ProgressService struct {
	store        *session.Store
	questionRepo repository.QuestionRepository
	historyLimit int

	mu sync.Mutex
}

// NewProgressService создает сервис прогресса
func NewProgressService(store *session.Store, questionRepo repository.QuestionRepository, historyLimit int) *ProgressService {
	if historyLimit <= 0 {
		historyLimit = entity.DefaultHistoryLimit
	}
	return &ProgressService{
		store:        store,
		questionRepo: questionRepo,
		historyLimit: historyLimit,
	}
}

var _ session.ProgressRecorder = (*ProgressService)(nil)

// GetProgress возвращает копию текущего прогресса
func (s *ProgressService) GetProgress() *entity.ProgressRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.LoadProgress()
}

// IncrementAttempt засчитывает решённый практический вопрос
func (s *ProgressService) IncrementAttempt() error {
	return s.update(func(p *entity.ProgressRecord) bool {
		p.IncrementAttempt()
		return true
	})
}

// RecordMistake добавляет вопрос в список ошибок
func (s *ProgressService) RecordMistake(questionID string) error {
	return s.update(func(p *entity.ProgressRecord) bool {
		return p.AddMistake(questionID)
	})
}

// ClearMistake убирает вопрос из списка ошибок
func (s *ProgressService) ClearMistake(questionID string) error {
	return s.update(func(p *entity.ProgressRecord) bool {
		return p.RemoveMistake(questionID)
	})
}

// AppendHistory добавляет результат пробного экзамена в начало истории
func (s *ProgressService) AppendHistory(entry entity.HistoryEntry) error {
	err := s.update(func(p *entity.ProgressRecord) bool {
		p.PrependHistory(entry, s.historyLimit)
		return true
	})
	if err == nil {
		log.Printf("[ProgressService] История экзаменов пополнена: %d/%d (auto=%t)", entry.Score, entry.Total, entry.AutoSubmitted)
	}
	return err
}

// ToggleMistake вручную переключает вопрос в списке ошибок
func (s *ProgressService) ToggleMistake(questionID string) (bool, error) {
	if _, err := s.questionRepo.GetByID(questionID); err != nil {
		return false, fmt.Errorf("question %s: %w", questionID, err)
	}

	var marked bool
	err := s.update(func(p *entity.ProgressRecord) bool {
		marked = p.ToggleMistake(questionID)
		return true
	})
	return marked, err
}

// ClearMistakes очищает список ошибок
func (s *ProgressService) ClearMistakes() error {
	return s.update(func(p *entity.ProgressRecord) bool {
		if len(p.Mistakes) == 0 {
			return false
		}
		p.ClearMistakes()
		return true
	})
}

// ToggleBookmark переключает закладку главы
func (s *ProgressService) ToggleBookmark(chapterID string) (bool, error) {
	chapterID = strings.TrimSpace(chapterID)
	if chapterID == "" {
		return false, fmt.Errorf("%w: chapter id is required", apperrors.ErrValidation)
	}

	var marked bool
	err := s.update(func(p *entity.ProgressRecord) bool {
		marked = p.ToggleBookmark(chapterID)
		return true
	})
	return marked, err
}

// MistakeQuestions возвращает вопросы из списка ошибок.
// Вопросы, которых больше нет в банке, пропускаются.
func (s *ProgressService) MistakeQuestions() ([]entity.Question, error) {
	progress := s.GetProgress()
	if len(progress.Mistakes) == 0 {
		return []entity.Question{}, nil
	}
	return s.questionRepo.GetByIDs(progress.Mistakes)
}

// History возвращает историю пробных экзаменов, самые свежие первыми
func (s *ProgressService) History() []entity.HistoryEntry {
	return s.GetProgress().MockHistory
}

// update применяет fn к прогрессу и сохраняет его, если fn сообщила об изменении
func (s *ProgressService) update(fn func(p *entity.ProgressRecord) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	progress := s.store.LoadProgress()
	if !fn(progress) {
		return nil
	}
	if err := s.store.SaveProgress(progress); err != nil {
		log.Printf("[ProgressService] Ошибка сохранения прогресса: %v", err)
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}
