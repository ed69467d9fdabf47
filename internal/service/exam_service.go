package service

import (
	"fmt"
	"log"
	"time"

	"go.uber.org/atomic"

	"github.com/yourusername/exam-prep-api/internal/domain/entity"
	"github.com/yourusername/exam-prep-api/internal/domain/repository"
	"github.com/yourusername/exam-prep-api/internal/service/session"
	"github.com/yourusername/exam-prep-api/internal/websocket"
)

// EventBroadcaster рассылает события подключенным клиентам
type EventBroadcaster interface {
	BroadcastEvent(eventType string, data interface{}) error
}

// ExamTickEvent - данные события exam:tick
type ExamTickEvent struct {
	ExamID       string    `json:"exam_id"`
	RemainingSec int       `json:"remaining_sec"`
	Clock        string    `json:"clock"`
	DeadlineAt   time.Time `json:"deadline_at"`
}

// ExamSubmittedEvent - данные события exam:submitted
type ExamSubmittedEvent struct {
	ExamID        string  `json:"exam_id"`
	Score         int     `json:"score"`
	Total         int     `json:"total"`
	Ungraded      int     `json:"ungraded"`
	Percent       float64 `json:"percent"`
	AutoSubmitted bool    `json:"auto_submitted"`
	ElapsedSec    int     `json:"elapsed_sec"`
}

// ExamStartedEvent - данные события exam:started
type ExamStartedEvent struct {
	ExamID     string    `json:"exam_id"`
	Total      int       `json:"total"`
	DeadlineAt time.Time `json:"deadline_at"`
}

// ExamService связывает сессию экзамена с банком вопросов и рассылкой событий
type ExamService struct {
	exam         *session.Exam
	questionRepo repository.QuestionRepository
	broadcaster  EventBroadcaster

	lastTickSec *atomic.Int64
}

// NewExamService создает сервис экзамена и подписывает его на события сессии.
// broadcaster может быть nil, тогда события не рассылаются.
func NewExamService(exam *session.Exam, questionRepo repository.QuestionRepository, broadcaster EventBroadcaster) *ExamService {
	s := &ExamService{
		exam:         exam,
		questionRepo: questionRepo,
		broadcaster:  broadcaster,
		lastTickSec:  atomic.NewInt64(-1),
	}
	exam.Subscribe(s)
	return s
}

// Start начинает новый экзамен по всему банку вопросов
func (s *ExamService) Start() (session.ExamSnapshot, error) {
	questions, err := s.questionRepo.GetAll()
	if err != nil {
		return session.ExamSnapshot{}, fmt.Errorf("failed to load questions: %w", err)
	}

	snap, err := s.exam.Start(questions)
	if err != nil {
		return session.ExamSnapshot{}, err
	}

	s.lastTickSec.Store(-1)
	s.broadcast(websocket.EXAM_STARTED, ExamStartedEvent{
		ExamID:     snap.ID,
		Total:      snap.Total,
		DeadlineAt: snap.DeadlineAt,
	})
	return snap, nil
}

// Resume восстанавливает экзамен после перезапуска
func (s *ExamService) Resume() session.ExamSnapshot {
	return s.exam.Resume()
}

// Answer записывает ответ на вопрос
func (s *ExamService) Answer(questionID, optionID string) (session.ExamSnapshot, error) {
	return s.exam.RecordAnswer(questionID, optionID)
}

// ToggleFlag переключает отметку вопроса
func (s *ExamService) ToggleFlag(questionID string) (bool, error) {
	return s.exam.ToggleFlag(questionID)
}

// JumpTo переходит к вопросу по индексу
func (s *ExamService) JumpTo(index int) (session.ExamSnapshot, error) {
	return s.exam.JumpTo(index)
}

// Next переходит к следующему вопросу
func (s *ExamService) Next() (session.ExamSnapshot, error) {
	return s.exam.Next()
}

// Prev переходит к предыдущему вопросу
func (s *ExamService) Prev() (session.ExamSnapshot, error) {
	return s.exam.Prev()
}

// Submit сдаёт экзамен вручную
func (s *ExamService) Submit() (session.ExamSnapshot, error) {
	if _, err := s.exam.Submit(false); err != nil {
		return session.ExamSnapshot{}, err
	}
	return s.exam.Snapshot(), nil
}

// Reset сбрасывает экзамен
func (s *ExamService) Reset() error {
	return s.exam.Reset()
}

// Snapshot возвращает текущее состояние экзамена
func (s *ExamService) Snapshot() session.ExamSnapshot {
	return s.exam.Snapshot()
}

// Review возвращает разбор сданного экзамена
func (s *ExamService) Review() ([]entity.ReviewItem, error) {
	return s.exam.Review()
}

// ExamTick рассылает оставшееся время не чаще раза в секунду
func (s *ExamService) ExamTick(examID string, remaining time.Duration, deadline time.Time) {
	sec := int64(remaining / time.Second)
	if s.lastTickSec.Swap(sec) == sec {
		return
	}
	s.broadcast(websocket.EXAM_TICK, ExamTickEvent{
		ExamID:       examID,
		RemainingSec: int(sec),
		Clock:        session.FormatClock(remaining),
		DeadlineAt:   deadline,
	})
}

// ExamSubmitted рассылает итог экзамена
func (s *ExamService) ExamSubmitted(snap session.ExamSnapshot) {
	if snap.Result == nil {
		return
	}
	s.broadcast(websocket.EXAM_SUBMITTED, ExamSubmittedEvent{
		ExamID:        snap.ID,
		Score:         snap.Result.Score,
		Total:         snap.Result.Total,
		Ungraded:      snap.Result.Ungraded,
		Percent:       snap.Result.Percent(),
		AutoSubmitted: snap.Result.AutoSubmitted,
		ElapsedSec:    int(snap.Elapsed / time.Second),
	})
}

func (s *ExamService) broadcast(eventType string, data interface{}) {
	if s.broadcaster == nil {
		return
	}
	if err := s.broadcaster.BroadcastEvent(eventType, data); err != nil {
		log.Printf("[ExamService] Ошибка рассылки события %s: %v", eventType, err)
	}
}
