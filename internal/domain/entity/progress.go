package entity

import "time"

// DefaultHistoryLimit - сколько последних пробных экзаменов хранится в истории
const DefaultHistoryLimit = 20

// HistoryEntry - запись истории пробных экзаменов
type HistoryEntry struct {
	Date          time.Time `json:"dateISO"`
	Score         int       `json:"score"`
	Total         int       `json:"total"`
	TimeSec       int       `json:"timeSec"`
	AutoSubmitted bool      `json:"autoSubmitted"`
}

// Bookmarks - закладки учебных материалов
type Bookmarks struct {
	Chapters []string `json:"chapters"`
}

// ProgressRecord - накопленный прогресс учащегося
type ProgressRecord struct {
	PracticeDone int            `json:"practiceDone"`
	Bookmarks    Bookmarks      `json:"bookmarks"`
	Mistakes     []string       `json:"mistakes"`
	MockHistory  []HistoryEntry `json:"mockHistory"`
}

// NewProgressRecord возвращает пустой прогресс
func NewProgressRecord() *ProgressRecord {
	return &ProgressRecord{
		Bookmarks:   Bookmarks{Chapters: []string{}},
		Mistakes:    []string{},
		MockHistory: []HistoryEntry{},
	}
}

// Normalize заменяет nil-срезы пустыми и убирает повторы в списке ошибок
func (p *ProgressRecord) Normalize() {
	if p.Bookmarks.Chapters == nil {
		p.Bookmarks.Chapters = []string{}
	}
	if p.MockHistory == nil {
		p.MockHistory = []HistoryEntry{}
	}
	if p.PracticeDone < 0 {
		p.PracticeDone = 0
	}
	p.Mistakes = uniqueStrings(p.Mistakes)
}

// IncrementAttempt увеличивает счётчик решённых практических вопросов
func (p *ProgressRecord) IncrementAttempt() {
	p.PracticeDone++
}

// HasMistake проверяет, есть ли вопрос в списке ошибок
func (p *ProgressRecord) HasMistake(questionID string) bool {
	return containsString(p.Mistakes, questionID)
}

// AddMistake добавляет вопрос в список ошибок. Повторное добавление ничего не меняет.
func (p *ProgressRecord) AddMistake(questionID string) bool {
	if p.HasMistake(questionID) {
		return false
	}
	p.Mistakes = append(p.Mistakes, questionID)
	return true
}

// RemoveMistake убирает вопрос из списка ошибок
func (p *ProgressRecord) RemoveMistake(questionID string) bool {
	var removed bool
	p.Mistakes, removed = removeString(p.Mistakes, questionID)
	return removed
}

// ToggleMistake переключает наличие вопроса в списке ошибок и возвращает новое состояние
func (p *ProgressRecord) ToggleMistake(questionID string) bool {
	if p.RemoveMistake(questionID) {
		return false
	}
	p.Mistakes = append(p.Mistakes, questionID)
	return true
}

// ClearMistakes очищает список ошибок
func (p *ProgressRecord) ClearMistakes() {
	p.Mistakes = []string{}
}

// ToggleBookmark переключает закладку главы и возвращает новое состояние
func (p *ProgressRecord) ToggleBookmark(chapterID string) bool {
	var removed bool
	p.Bookmarks.Chapters, removed = removeString(p.Bookmarks.Chapters, chapterID)
	if removed {
		return false
	}
	p.Bookmarks.Chapters = append(p.Bookmarks.Chapters, chapterID)
	return true
}

// PrependHistory добавляет запись в начало истории и обрезает её до limit
func (p *ProgressRecord) PrependHistory(entry HistoryEntry, limit int) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	history := make([]HistoryEntry, 0, len(p.MockHistory)+1)
	history = append(history, entry)
	history = append(history, p.MockHistory...)
	if len(history) > limit {
		history = history[:limit]
	}
	p.MockHistory = history
}

// LastMock возвращает последний пробный экзамен или nil
func (p *ProgressRecord) LastMock() *HistoryEntry {
	if len(p.MockHistory) == 0 {
		return nil
	}
	last := p.MockHistory[0]
	return &last
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func removeString(list []string, s string) ([]string, bool) {
	out := list[:0]
	removed := false
	for _, v := range list {
		if v == s {
			removed = true
			continue
		}
		out = append(out, v)
	}
	return out, removed
}

func uniqueStrings(list []string) []string {
	out := make([]string, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for _, v := range list {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
