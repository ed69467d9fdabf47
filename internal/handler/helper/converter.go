package helper

import (
	"github.com/yourusername/exam-prep-api/internal/domain/entity"
)

// QuestionOption представляет вариант ответа для фронтенда
type QuestionOption struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	TextBN string `json:"text_bn,omitempty"`
}

// ConvertOptions преобразует варианты вопроса в объекты для ответа клиенту
func ConvertOptions(options entity.OptionList) []QuestionOption {
	converted := make([]QuestionOption, len(options))
	for i, opt := range options {
		text := opt.Text
		if text == "" {
			text = "(пустой вариант)"
		}
		converted[i] = QuestionOption{ID: opt.ID, Text: text, TextBN: opt.TextBN}
	}
	return converted
}

// SanitizeForExcel экранирует значение ячейки от formula injection в Excel/CSV
func SanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}

// YesNo возвращает "Да" или "Нет"
func YesNo(v bool) string {
	if v {
		return "Да"
	}
	return "Нет"
}
