package session

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/exam-prep-api/internal/domain/entity"
	"github.com/yourusername/exam-prep-api/internal/repository/memory"
)

// ============================================================================
// Моки и вспомогательные типы
// ============================================================================

// MockProgressRecorder реализует ProgressRecorder
type MockProgressRecorder struct {
	mock.Mock
}

func (m *MockProgressRecorder) IncrementAttempt() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockProgressRecorder) RecordMistake(questionID string) error {
	args := m.Called(questionID)
	return args.Error(0)
}

func (m *MockProgressRecorder) ClearMistake(questionID string) error {
	args := m.Called(questionID)
	return args.Error(0)
}

func (m *MockProgressRecorder) AppendHistory(entry entity.HistoryEntry) error {
	args := m.Called(entry)
	return args.Error(0)
}

// fakeClock - управляемый источник времени
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// recordingListener запоминает события экзамена
type recordingListener struct {
	mu        sync.Mutex
	ticks     int
	submitted []ExamSnapshot
}

func (l *recordingListener) ExamTick(string, time.Duration, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ticks++
}

func (l *recordingListener) ExamSubmitted(snap ExamSnapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.submitted = append(l.submitted, snap)
}

func (l *recordingListener) Ticks() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ticks
}

func (l *recordingListener) Submitted() []ExamSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]ExamSnapshot(nil), l.submitted...)
}

// makeQuestions создает n оцениваемых вопросов с вариантами a/b/c и правильным "a"
func makeQuestions(n int, topic string) []entity.Question {
	questions := make([]entity.Question, n)
	for i := range questions {
		questions[i] = entity.Question{
			ID:            fmt.Sprintf("%s-%d", topic, i+1),
			Topic:         topic,
			Text:          fmt.Sprintf("Kysymys %d", i+1),
			Options:       entity.OptionList{{ID: "a", Text: "A"}, {ID: "b", Text: "B"}, {ID: "c", Text: "C"}},
			CorrectOption: "a",
		}
	}
	return questions
}

func newTestStore() (*Store, *memory.StateRepo) {
	repo := memory.NewStateRepo()
	return NewStore(repo), repo
}

func seededBuilder(seed int64) *PoolBuilder {
	return NewPoolBuilder(rand.NewSource(seed))
}
