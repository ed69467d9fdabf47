package session

import (
	"fmt"
	"log"
	"sync"

	"github.com/yourusername/exam-prep-api/internal/domain/entity"
	apperrors "github.com/yourusername/exam-prep-api/internal/pkg/errors"
)

// Practice - линейная практическая сессия: выбрать вариант, отправить, перейти дальше.
// Ответы хранятся только для текущего пула и не переносятся в новый.
type Practice struct {
	cfg      *Config
	builder  *PoolBuilder
	store    *Store
	progress ProgressRecorder

	mu    sync.Mutex
	state *entity.PracticeState
}

// NewPractice создает практическую сессию в состоянии idle. deps.Store обязателен.
func NewPractice(cfg *Config, deps Dependencies) *Practice {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	builder := deps.Builder
	if builder == nil {
		builder = NewPoolBuilder(nil)
	}
	return &Practice{
		cfg:      cfg,
		builder:  builder,
		store:    deps.Store,
		progress: deps.Progress,
		state:    &entity.PracticeState{Topic: entity.TopicAll, Size: cfg.DefaultPracticeSize},
	}
}

// Resume восстанавливает практику из хранилища
func (p *Practice) Resume() PracticeSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	if stored := p.store.LoadPractice(); stored != nil {
		p.state = stored
		log.Printf("[PracticeSession] Практика восстановлена: тема %s, вопрос %d/%d", stored.Topic, stored.CurrentIndex+1, len(stored.Pool))
	}
	return p.snapshotLocked()
}

// Configure меняет тему и размер набора и пересобирает пул.
// Прежние ответы отбрасываются. Пустой пул даёт состояние empty и ErrEmptyPool.
func (p *Practice) Configure(questions []entity.Question, topic string, size int) (PracticeSnapshot, error) {
	if topic == "" {
		topic = entity.TopicAll
	}
	if !p.cfg.IsAllowedPracticeSize(size) {
		return PracticeSnapshot{}, fmt.Errorf("%w: unsupported practice size %d", apperrors.ErrValidation, size)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.rebuildLocked(questions, topic, size)
}

// NewSet собирает новый набор с текущими темой и размером
func (p *Practice) NewSet(questions []entity.Question) (PracticeSnapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	topic, size := p.state.Topic, p.state.Size
	if topic == "" {
		topic = entity.TopicAll
	}
	if !p.cfg.IsAllowedPracticeSize(size) {
		size = p.cfg.DefaultPracticeSize
	}
	return p.rebuildLocked(questions, topic, size)
}

// SelectOption запоминает предварительный выбор для текущего вопроса
func (p *Practice) SelectOption(optionID string) (PracticeSnapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	current := p.state.Current()
	if current == nil {
		return PracticeSnapshot{}, apperrors.ErrEmptyPool
	}
	if p.state.Submitted {
		return PracticeSnapshot{}, apperrors.ErrAlreadySubmitted
	}
	if !current.HasOption(optionID) {
		return PracticeSnapshot{}, apperrors.ErrUnknownOption
	}

	p.state.Selected = optionID
	p.persistLocked()
	return p.snapshotLocked(), nil
}

// SubmitCurrent фиксирует выбранный ответ и оценивает его.
// Без выбора возвращает ErrNoSelection и ничего не меняет.
func (p *Practice) SubmitCurrent() (SubmitOutcome, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	current := p.state.Current()
	if current == nil {
		return SubmitOutcome{}, apperrors.ErrEmptyPool
	}
	if p.state.Submitted {
		return SubmitOutcome{}, apperrors.ErrAlreadySubmitted
	}
	if p.state.Selected == "" {
		return SubmitOutcome{}, apperrors.ErrNoSelection
	}

	outcome := current.Evaluate(p.state.Selected)
	p.state.Answers[current.ID] = p.state.Selected
	p.state.Submitted = true
	p.state.LastOutcome = outcome
	p.persistLocked()

	p.recordProgressLocked(current.ID, outcome)

	res := SubmitOutcome{
		QuestionID:    current.ID,
		Selected:      p.state.Selected,
		Outcome:       outcome,
		CorrectOption: current.CorrectOption,
		Explanation:   current.Explanation,
		ExplanationBN: current.ExplanationBN,
	}
	return res, nil
}

// Advance переходит к следующему вопросу после отправки ответа.
// На последнем вопросе сессия помечается завершённой.
func (p *Practice) Advance() (PracticeSnapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state.Current() == nil {
		return PracticeSnapshot{}, apperrors.ErrEmptyPool
	}
	if p.state.Completed {
		return p.snapshotLocked(), nil
	}
	if !p.state.Submitted {
		return PracticeSnapshot{}, apperrors.ErrNotSubmitted
	}

	if p.state.IsLast() {
		p.state.Completed = true
		log.Printf("[PracticeSession] Набор пройден: %d вопросов", len(p.state.Pool))
	} else {
		p.state.CurrentIndex++
		p.state.Selected = ""
		p.state.Submitted = false
		p.state.LastOutcome = ""
	}
	p.persistLocked()
	return p.snapshotLocked(), nil
}

// Snapshot возвращает текущее состояние для отображения
func (p *Practice) Snapshot() PracticeSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Practice) rebuildLocked(questions []entity.Question, topic string, size int) (PracticeSnapshot, error) {
	pool := p.builder.Build(questions, topic, size)
	p.state = &entity.PracticeState{
		Topic:      topic,
		Size:       size,
		Pool:       pool,
		Answers:    map[string]string{},
		Configured: true,
	}
	p.persistLocked()

	if len(pool) == 0 {
		log.Printf("[PracticeSession] Для темы '%s' нет вопросов", topic)
		return p.snapshotLocked(), apperrors.ErrEmptyPool
	}
	return p.snapshotLocked(), nil
}

// recordProgressLocked обновляет прогресс: попытка засчитывается всегда,
// список ошибок меняется только для оцениваемых вопросов.
func (p *Practice) recordProgressLocked(questionID string, outcome entity.Outcome) {
	if p.progress == nil {
		return
	}
	if err := p.progress.IncrementAttempt(); err != nil {
		log.Printf("[PracticeSession] Ошибка обновления счётчика попыток: %v", err)
	}

	var err error
	switch outcome {
	case entity.OutcomeIncorrect:
		err = p.progress.RecordMistake(questionID)
	case entity.OutcomeCorrect:
		err = p.progress.ClearMistake(questionID)
	}
	if err != nil {
		log.Printf("[PracticeSession] Ошибка обновления списка ошибок для %s: %v", questionID, err)
	}
}

func (p *Practice) persistLocked() {
	if err := p.store.SavePractice(p.state); err != nil {
		log.Printf("[PracticeSession] Ошибка сохранения практики: %v", err)
	}
}

func (p *Practice) snapshotLocked() PracticeSnapshot {
	s := p.state
	snap := PracticeSnapshot{
		Status:       s.Status(),
		Topic:        s.Topic,
		Size:         s.Size,
		CurrentIndex: s.CurrentIndex,
		Total:        len(s.Pool),
		Current:      copyQuestion(s.Current()),
		Selected:     s.Selected,
		Submitted:    s.Submitted,
		Outcome:      s.LastOutcome,
		Answered:     len(s.Answers),
	}
	for i := range s.Pool {
		if selected, ok := s.Answers[s.Pool[i].ID]; ok && s.Pool[i].Evaluate(selected) == entity.OutcomeCorrect {
			snap.Correct++
		}
	}
	return snap
}
