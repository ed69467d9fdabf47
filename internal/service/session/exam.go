package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/exam-prep-api/internal/domain/entity"
	apperrors "github.com/yourusername/exam-prep-api/internal/pkg/errors"
)

// Exam - сессия пробного экзамена с таймером.
// Все переходы, включая автосдачу по таймеру, выполняются под одним мьютексом,
// поэтому проверка и установка признака сдачи атомарны.
type Exam struct {
	ctx      context.Context
	cfg      *Config
	builder  *PoolBuilder
	store    *Store
	progress ProgressRecorder
	timer    *TimerController
	now      func() time.Time
	newID    func() string

	mu    sync.Mutex
	state *entity.ExamState

	listenersMu sync.RWMutex
	listeners   []ExamListener
}

// NewExam создает сессию экзамена. ctx ограничивает время жизни горутины таймера.
// deps.Store обязателен.
func NewExam(ctx context.Context, cfg *Config, deps Dependencies) *Exam {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	newID := deps.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	builder := deps.Builder
	if builder == nil {
		builder = NewPoolBuilder(nil)
	}
	return &Exam{
		ctx:      ctx,
		cfg:      cfg,
		builder:  builder,
		store:    deps.Store,
		progress: deps.Progress,
		timer:    NewTimerController(cfg.TickInterval, now),
		now:      now,
		newID:    newID,
	}
}

// Subscribe добавляет получателя событий экзамена
func (e *Exam) Subscribe(l ExamListener) {
	e.listenersMu.Lock()
	defer e.listenersMu.Unlock()
	e.listeners = append(e.listeners, l)
}

// Start начинает новый экзамен: пул фиксированного размера, срок now+длительность.
// Предыдущий сданный экзамен отбрасывается; идущий экзамен даёт ErrExamInProgress.
func (e *Exam) Start(questions []entity.Question) (ExamSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != nil && e.state.IsRunning() {
		return ExamSnapshot{}, apperrors.ErrExamInProgress
	}

	pool := e.builder.Build(questions, entity.TopicAll, e.cfg.ExamQuestionCount)
	if len(pool) == 0 {
		return ExamSnapshot{}, apperrors.ErrEmptyPool
	}

	now := e.now()
	e.timer.Stop()
	e.state = &entity.ExamState{
		ID:          e.newID(),
		Status:      entity.ExamStatusRunning,
		Pool:        pool,
		Answers:     map[string]string{},
		Flags:       map[string]bool{},
		StartedAt:   now,
		DeadlineAt:  now.Add(e.cfg.ExamDuration),
		DurationSec: int(e.cfg.ExamDuration / time.Second),
	}
	e.persistLocked()
	e.startTimerLocked()

	log.Printf("[ExamSession] Экзамен %s начат: %d вопросов, срок %s", e.state.ID, len(pool), e.state.DeadlineAt.Format(time.RFC3339))
	return e.snapshotLocked(now), nil
}

// RecordAnswer записывает (или перезаписывает) ответ на любой вопрос пула
func (e *Exam) RecordAnswer(questionID, optionID string) (ExamSnapshot, error) {
	now, err := e.acquireRunning()
	if err != nil {
		return ExamSnapshot{}, err
	}
	defer e.mu.Unlock()

	idx := e.state.IndexOf(questionID)
	if idx < 0 {
		return ExamSnapshot{}, apperrors.ErrUnknownQuestion
	}
	if !e.state.Pool[idx].HasOption(optionID) {
		return ExamSnapshot{}, apperrors.ErrUnknownOption
	}

	e.state.Answers[questionID] = optionID
	e.persistLocked()
	return e.snapshotLocked(now), nil
}

// ToggleFlag ставит или снимает отметку вопроса. На подсчёт баллов не влияет.
func (e *Exam) ToggleFlag(questionID string) (bool, error) {
	if _, err := e.acquireRunning(); err != nil {
		return false, err
	}
	defer e.mu.Unlock()

	if e.state.IndexOf(questionID) < 0 {
		return false, apperrors.ErrUnknownQuestion
	}

	flagged := !e.state.Flags[questionID]
	if flagged {
		e.state.Flags[questionID] = true
	} else {
		delete(e.state.Flags, questionID)
	}
	e.persistLocked()
	return flagged, nil
}

// JumpTo переходит к вопросу; индекс ограничивается диапазоном [0, len-1]
func (e *Exam) JumpTo(index int) (ExamSnapshot, error) {
	now, err := e.acquireRunning()
	if err != nil {
		return ExamSnapshot{}, err
	}
	defer e.mu.Unlock()

	e.moveLocked(index)
	return e.snapshotLocked(now), nil
}

// Next переходит к следующему вопросу (на последнем остаётся на месте)
func (e *Exam) Next() (ExamSnapshot, error) {
	return e.step(1)
}

// Prev переходит к предыдущему вопросу (на первом остаётся на месте)
func (e *Exam) Prev() (ExamSnapshot, error) {
	return e.step(-1)
}

func (e *Exam) step(delta int) (ExamSnapshot, error) {
	now, err := e.acquireRunning()
	if err != nil {
		return ExamSnapshot{}, err
	}
	defer e.mu.Unlock()

	e.moveLocked(e.state.CurrentIndex + delta)
	return e.snapshotLocked(now), nil
}

// Submit сдаёт экзамен. Повторная сдача возвращает ErrAlreadySubmitted и ничего не меняет.
func (e *Exam) Submit(auto bool) (entity.Result, error) {
	return e.submitSession("", auto)
}

// Resume восстанавливает экзамен из хранилища.
// Идущий экзамен с прошедшим сроком сдаётся автоматически, а не возобновляется.
func (e *Exam) Resume() ExamSnapshot {
	e.mu.Lock()

	e.timer.Stop()
	e.state = e.store.LoadExam()
	now := e.now()

	if e.state == nil {
		snap := e.snapshotLocked(now)
		e.mu.Unlock()
		return snap
	}

	if e.state.IsRunning() {
		if e.state.Remaining(now) == 0 {
			log.Printf("[ExamSession] Срок экзамена %s истёк до восстановления, выполняется автосдача", e.state.ID)
			_, finish := e.submitLocked(true, now)
			snap := e.snapshotLocked(now)
			e.mu.Unlock()
			finish()
			return snap
		}
		e.startTimerLocked()
		log.Printf("[ExamSession] Экзамен %s восстановлен, осталось %s", e.state.ID, FormatClock(e.state.Remaining(now)))
	}

	snap := e.snapshotLocked(now)
	e.mu.Unlock()
	return snap
}

// Reset завершает сессию: останавливает таймер и удаляет состояние
func (e *Exam) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.timer.Stop()
	e.state = nil
	if err := e.store.ClearExam(); err != nil {
		return err
	}
	log.Println("[ExamSession] Экзамен сброшен")
	return nil
}

// Snapshot возвращает текущее состояние для отображения
func (e *Exam) Snapshot() ExamSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked(e.now())
}

// Review возвращает разбор сданного экзамена
func (e *Exam) Review() ([]entity.ReviewItem, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == nil || !e.state.IsSubmitted() {
		return nil, apperrors.ErrNotSubmitted
	}
	return Review(e.state.Pool, e.state.Answers, e.state.Flags), nil
}

// Close останавливает таймер при завершении приложения
func (e *Exam) Close() {
	e.timer.Stop()
}

// acquireRunning захватывает мьютекс для изменения идущего экзамена.
// При ошибке мьютекс уже освобождён. Экзамен с истёкшим сроком сдаётся автоматически.
func (e *Exam) acquireRunning() (time.Time, error) {
	e.mu.Lock()
	if e.state == nil || !e.state.IsRunning() {
		e.mu.Unlock()
		return time.Time{}, apperrors.ErrExamNotRunning
	}
	now := e.now()
	if e.state.Remaining(now) == 0 {
		_, finish := e.submitLocked(true, now)
		e.mu.Unlock()
		finish()
		return time.Time{}, apperrors.ErrExamNotRunning
	}
	return now, nil
}

// submitSession сдаёт экзамен; непустой sessionID защищает от устаревшего таймера прошлой сессии
func (e *Exam) submitSession(sessionID string, auto bool) (entity.Result, error) {
	e.mu.Lock()
	if e.state == nil || (sessionID != "" && e.state.ID != sessionID) {
		e.mu.Unlock()
		return entity.Result{}, apperrors.ErrExamNotRunning
	}
	if e.state.IsSubmitted() {
		e.mu.Unlock()
		return entity.Result{}, apperrors.ErrAlreadySubmitted
	}

	result, finish := e.submitLocked(auto, e.now())
	e.mu.Unlock()
	finish()
	return result, nil
}

// submitLocked выполняет переход в сданное состояние.
// Возвращает функцию побочных эффектов, которую нужно вызвать после освобождения мьютекса.
func (e *Exam) submitLocked(auto bool, now time.Time) (entity.Result, func()) {
	e.timer.Stop()

	result := Score(e.state.Pool, e.state.Answers, auto, now)
	e.state.Status = entity.ExamStatusSubmitted
	e.state.Result = &result
	e.persistLocked()

	entry := entity.HistoryEntry{
		Date:          now,
		Score:         result.Score,
		Total:         result.Total,
		TimeSec:       int(e.state.Elapsed(now) / time.Second),
		AutoSubmitted: auto,
	}
	snap := e.snapshotLocked(now)

	log.Printf("[ExamSession] Экзамен %s сдан (auto=%t): %d/%d", e.state.ID, auto, result.Score, result.Total)

	return result, func() {
		if e.progress != nil {
			if err := e.progress.AppendHistory(entry); err != nil {
				log.Printf("[ExamSession] Ошибка записи истории экзамена %s: %v", snap.ID, err)
			}
		}
		e.notifySubmitted(snap)
	}
}

func (e *Exam) startTimerLocked() {
	id := e.state.ID
	deadline := e.state.DeadlineAt
	e.timer.Start(e.ctx, deadline,
		func(remaining time.Duration) {
			e.notifyTick(id, remaining, deadline)
		},
		func() {
			if _, err := e.submitSession(id, true); err != nil && !errors.Is(err, apperrors.ErrAlreadySubmitted) {
				log.Printf("[ExamSession] Автосдача экзамена %s пропущена: %v", id, err)
			}
		},
	)
}

func (e *Exam) moveLocked(index int) {
	if index < 0 {
		index = 0
	}
	if last := len(e.state.Pool) - 1; index > last {
		index = last
	}
	if index == e.state.CurrentIndex {
		return
	}
	e.state.CurrentIndex = index
	e.persistLocked()
}

// persistLocked сохраняет состояние. Хранилище служит только для восстановления,
// поэтому ошибка записи логируется и не прерывает операцию.
func (e *Exam) persistLocked() {
	if e.state == nil {
		return
	}
	if err := e.store.SaveExam(e.state); err != nil {
		log.Printf("[ExamSession] Ошибка сохранения экзамена %s: %v", e.state.ID, err)
	}
}

func (e *Exam) snapshotLocked(now time.Time) ExamSnapshot {
	if e.state == nil {
		return ExamSnapshot{Status: entity.ExamStatusNotStarted}
	}
	s := e.state

	snap := ExamSnapshot{
		ID:           s.ID,
		Status:       s.Status,
		CurrentIndex: s.CurrentIndex,
		Total:        len(s.Pool),
		Current:      copyQuestion(&s.Pool[s.CurrentIndex]),
		Selected:     s.Answers[s.Pool[s.CurrentIndex].ID],
		Answered:     len(s.Answers),
		Flagged:      s.FlaggedIDs(),
		Navigator:    make([]NavigatorItem, len(s.Pool)),
		StartedAt:    s.StartedAt,
		DeadlineAt:   s.DeadlineAt,
		Elapsed:      s.Elapsed(now),
	}
	for i := range s.Pool {
		qid := s.Pool[i].ID
		_, answered := s.Answers[qid]
		snap.Navigator[i] = NavigatorItem{
			Index:      i,
			QuestionID: qid,
			Answered:   answered,
			Flagged:    s.Flags[qid],
			Current:    i == s.CurrentIndex,
		}
	}
	if s.IsRunning() {
		snap.Remaining = s.Remaining(now)
	}
	if s.Result != nil {
		result := *s.Result
		snap.Result = &result
		snap.Elapsed = s.Elapsed(result.SubmittedAt)
	}
	return snap
}

func (e *Exam) notifyTick(id string, remaining time.Duration, deadline time.Time) {
	e.listenersMu.RLock()
	defer e.listenersMu.RUnlock()
	for _, l := range e.listeners {
		l.ExamTick(id, remaining, deadline)
	}
}

func (e *Exam) notifySubmitted(snap ExamSnapshot) {
	e.listenersMu.RLock()
	defer e.listenersMu.RUnlock()
	for _, l := range e.listeners {
		l.ExamSubmitted(snap)
	}
}
