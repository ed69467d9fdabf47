package dto

import (
	"time"

	"github.com/yourusername/exam-prep-api/internal/domain/entity"
	"github.com/yourusername/exam-prep-api/internal/handler/helper"
	"github.com/yourusername/exam-prep-api/internal/service/session"
)

// --- Запросы ---

// PracticeConfigRequest - выбор темы и размера набора
type PracticeConfigRequest struct {
	Topic string `json:"topic"`
	Size  int    `json:"size"`
}

// SelectOptionRequest - выбор варианта в практике
type SelectOptionRequest struct {
	OptionID string `json:"option_id" binding:"required"`
}

// ExamAnswerRequest - ответ на вопрос экзамена
type ExamAnswerRequest struct {
	QuestionID string `json:"question_id" binding:"required"`
	OptionID   string `json:"option_id" binding:"required"`
}

// --- Ответы ---

// QuestionResponse представляет вопрос для клиента.
// Правильный ответ и объяснение раскрываются только после ответа.
type QuestionResponse struct {
	ID            string                  `json:"id"`
	Topic         string                  `json:"topic"`
	Text          string                  `json:"text"`
	TextBN        string                  `json:"text_bn,omitempty"`
	Options       []helper.QuestionOption `json:"options"`
	Graded        bool                    `json:"graded"`
	CorrectOption string                  `json:"correct_option,omitempty"`
	Explanation   string                  `json:"explanation,omitempty"`
	ExplanationBN string                  `json:"explanation_bn,omitempty"`
}

// NewQuestionResponse создает DTO вопроса; reveal раскрывает правильный ответ
func NewQuestionResponse(q *entity.Question, reveal bool) *QuestionResponse {
	if q == nil {
		return nil
	}
	resp := &QuestionResponse{
		ID:      q.ID,
		Topic:   q.Topic,
		Text:    q.Text,
		TextBN:  q.TextBN,
		Options: helper.ConvertOptions(q.Options),
		Graded:  q.IsGraded(),
	}
	if reveal {
		resp.CorrectOption = q.CorrectOption
		resp.Explanation = q.Explanation
		resp.ExplanationBN = q.ExplanationBN
	}
	return resp
}

// ResultResponse - итог экзамена
type ResultResponse struct {
	Score         int       `json:"score"`
	Total         int       `json:"total"`
	Ungraded      int       `json:"ungraded"`
	Percent       float64   `json:"percent"`
	AutoSubmitted bool      `json:"auto_submitted"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// NewResultResponse создает DTO результата
func NewResultResponse(r *entity.Result) *ResultResponse {
	if r == nil {
		return nil
	}
	return &ResultResponse{
		Score:         r.Score,
		Total:         r.Total,
		Ungraded:      r.Ungraded,
		Percent:       r.Percent(),
		AutoSubmitted: r.AutoSubmitted,
		SubmittedAt:   r.SubmittedAt,
	}
}

// ExamResponse - состояние экзамена
type ExamResponse struct {
	ID              string                  `json:"id,omitempty"`
	Status          entity.ExamStatus       `json:"status"`
	CurrentIndex    int                     `json:"current_index"`
	Total           int                     `json:"total"`
	Question        *QuestionResponse       `json:"question,omitempty"`
	Selected        string                  `json:"selected,omitempty"`
	Answered        int                     `json:"answered"`
	Flagged         []string                `json:"flagged"`
	Navigator       []session.NavigatorItem `json:"navigator"`
	StartedAt       *time.Time              `json:"started_at,omitempty"`
	DeadlineAt      *time.Time              `json:"deadline_at,omitempty"`
	RemainingSec    int                     `json:"remaining_sec"`
	RemainingClock  string                  `json:"remaining_clock"`
	ElapsedSec      int                     `json:"elapsed_sec"`
	Result          *ResultResponse         `json:"result,omitempty"`
}

// NewExamResponse создает DTO экзамена из снимка
func NewExamResponse(s session.ExamSnapshot) *ExamResponse {
	resp := &ExamResponse{
		ID:             s.ID,
		Status:         s.Status,
		CurrentIndex:   s.CurrentIndex,
		Total:          s.Total,
		Question:       NewQuestionResponse(s.Current, s.Status == entity.ExamStatusSubmitted),
		Selected:       s.Selected,
		Answered:       s.Answered,
		Flagged:        s.Flagged,
		Navigator:      s.Navigator,
		RemainingSec:   int(s.Remaining / time.Second),
		RemainingClock: session.FormatClock(s.Remaining),
		ElapsedSec:     int(s.Elapsed / time.Second),
		Result:         NewResultResponse(s.Result),
	}
	if resp.Flagged == nil {
		resp.Flagged = []string{}
	}
	if resp.Navigator == nil {
		resp.Navigator = []session.NavigatorItem{}
	}
	if !s.StartedAt.IsZero() {
		started, deadline := s.StartedAt, s.DeadlineAt
		resp.StartedAt = &started
		resp.DeadlineAt = &deadline
	}
	return resp
}

// ReviewItemResponse - строка разбора экзамена
type ReviewItemResponse struct {
	Index         int                 `json:"index"`
	QuestionID    string              `json:"question_id"`
	Topic         string              `json:"topic"`
	Selected      string              `json:"selected,omitempty"`
	CorrectOption string              `json:"correct_option,omitempty"`
	Status        entity.ReviewStatus `json:"status"`
	Flagged       bool                `json:"flagged"`
	Explanation   string              `json:"explanation,omitempty"`
}

// NewReviewResponse создает DTO разбора
func NewReviewResponse(items []entity.ReviewItem) []ReviewItemResponse {
	out := make([]ReviewItemResponse, len(items))
	for i, it := range items {
		out[i] = ReviewItemResponse{
			Index:         it.Index,
			QuestionID:    it.QuestionID,
			Topic:         it.Topic,
			Selected:      it.Selected,
			CorrectOption: it.CorrectOption,
			Status:        it.Status,
			Flagged:       it.Flagged,
			Explanation:   it.Explanation,
		}
	}
	return out
}

// PracticeResponse - состояние практики
type PracticeResponse struct {
	Status       entity.PracticeStatus `json:"status"`
	Topic        string                `json:"topic"`
	Size         int                   `json:"size"`
	CurrentIndex int                   `json:"current_index"`
	Total        int                   `json:"total"`
	Question     *QuestionResponse     `json:"question,omitempty"`
	Selected     string                `json:"selected,omitempty"`
	Submitted    bool                  `json:"submitted"`
	Outcome      entity.Outcome        `json:"outcome,omitempty"`
	Answered     int                   `json:"answered"`
	Correct      int                   `json:"correct"`
}

// NewPracticeResponse создает DTO практики из снимка
func NewPracticeResponse(s session.PracticeSnapshot) *PracticeResponse {
	return &PracticeResponse{
		Status:       s.Status,
		Topic:        s.Topic,
		Size:         s.Size,
		CurrentIndex: s.CurrentIndex,
		Total:        s.Total,
		Question:     NewQuestionResponse(s.Current, s.Submitted),
		Selected:     s.Selected,
		Submitted:    s.Submitted,
		Outcome:      s.Outcome,
		Answered:     s.Answered,
		Correct:      s.Correct,
	}
}

// PracticeSubmitResponse - итог отправки ответа в практике
type PracticeSubmitResponse struct {
	QuestionID    string            `json:"question_id"`
	Selected      string            `json:"selected"`
	Outcome       entity.Outcome    `json:"outcome"`
	CorrectOption string            `json:"correct_option,omitempty"`
	Explanation   string            `json:"explanation,omitempty"`
	ExplanationBN string            `json:"explanation_bn,omitempty"`
	State         *PracticeResponse `json:"state"`
}

// NewPracticeSubmitResponse создает DTO итога отправки
func NewPracticeSubmitResponse(o session.SubmitOutcome, s session.PracticeSnapshot) *PracticeSubmitResponse {
	return &PracticeSubmitResponse{
		QuestionID:    o.QuestionID,
		Selected:      o.Selected,
		Outcome:       o.Outcome,
		CorrectOption: o.CorrectOption,
		Explanation:   o.Explanation,
		ExplanationBN: o.ExplanationBN,
		State:         NewPracticeResponse(s),
	}
}

// ProgressResponse - сводка прогресса
type ProgressResponse struct {
	PracticeDone  int                   `json:"practice_done"`
	MistakeCount  int                   `json:"mistake_count"`
	Mistakes      []string              `json:"mistakes"`
	Bookmarks     []string              `json:"bookmarks"`
	LastMock      *entity.HistoryEntry  `json:"last_mock,omitempty"`
	MockHistory   []entity.HistoryEntry `json:"mock_history"`
}

// NewProgressResponse создает DTO прогресса
func NewProgressResponse(p *entity.ProgressRecord) *ProgressResponse {
	return &ProgressResponse{
		PracticeDone: p.PracticeDone,
		MistakeCount: len(p.Mistakes),
		Mistakes:     p.Mistakes,
		Bookmarks:    p.Bookmarks.Chapters,
		LastMock:     p.LastMock(),
		MockHistory:  p.MockHistory,
	}
}

// NewQuestionListResponse создает список DTO вопросов с раскрытыми ответами
func NewQuestionListResponse(questions []entity.Question) []*QuestionResponse {
	out := make([]*QuestionResponse, len(questions))
	for i := range questions {
		out[i] = NewQuestionResponse(&questions[i], true)
	}
	return out
}
