package session

import (
	"time"

	"github.com/yourusername/exam-prep-api/internal/domain/entity"
)

// Ключи хранилища состояния
const (
	StateKeyProgress = "progress"
	StateKeyExam     = "exam_state"
	StateKeyPractice = "practice_state"
)

// Значения по умолчанию
const (
	DefaultExamQuestionCount   = 50
	DefaultExamDuration        = 50 * time.Minute
	DefaultTickInterval        = 500 * time.Millisecond
	DefaultPracticeSize        = 10
	DefaultPracticeHistorySize = entity.DefaultHistoryLimit
)

// Config содержит настройки практики и экзамена
type Config struct {
	// Экзамен
	ExamQuestionCount int           // Количество вопросов в экзамене (ограничено размером банка)
	ExamDuration      time.Duration // Длительность экзамена
	TickInterval      time.Duration // Период тика таймера

	// История пробных экзаменов
	HistoryLimit int

	// Практика
	PracticeSizes       []int // Допустимые размеры набора
	DefaultPracticeSize int
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		ExamQuestionCount:   DefaultExamQuestionCount,
		ExamDuration:        DefaultExamDuration,
		TickInterval:        DefaultTickInterval,
		HistoryLimit:        DefaultPracticeHistorySize,
		PracticeSizes:       []int{10, 20, 30, 50},
		DefaultPracticeSize: DefaultPracticeSize,
	}
}

// IsAllowedPracticeSize проверяет размер набора практики
func (c *Config) IsAllowedPracticeSize(size int) bool {
	if size <= 0 {
		return false
	}
	if len(c.PracticeSizes) == 0 {
		return true
	}
	for _, s := range c.PracticeSizes {
		if s == size {
			return true
		}
	}
	return false
}

// ProgressRecorder принимает итоги практики и экзаменов.
// Сессии только пишут в него и никогда не читают агрегированные значения.
type ProgressRecorder interface {
	IncrementAttempt() error
	RecordMistake(questionID string) error
	ClearMistake(questionID string) error
	AppendHistory(entry entity.HistoryEntry) error
}

// ExamListener получает события таймера и сдачи экзамена.
// Вызывается вне мьютекса сессии.
type ExamListener interface {
	ExamTick(examID string, remaining time.Duration, deadline time.Time)
	ExamSubmitted(snapshot ExamSnapshot)
}

// Dependencies содержит зависимости сессий
type Dependencies struct {
	Builder  *PoolBuilder
	Store    *Store
	Progress ProgressRecorder
	Now      func() time.Time // Источник времени, по умолчанию time.Now
	NewID    func() string    // Генератор ID экзамена, по умолчанию uuid
}
