package jsonfile

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/yourusername/exam-prep-api/internal/domain/entity"
	apperrors "github.com/yourusername/exam-prep-api/internal/pkg/errors"
)

// LoadBank читает банк вопросов из JSON файла вида {topics, questions}.
// Любая проблема (нет файла, битый JSON, некорректные вопросы) возвращается как *apperrors.LoadError.
func LoadBank(path string) (*entity.QuestionBank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewLoadError(path, err)
	}
	defer f.Close()

	bank, err := ParseBank(f)
	if err != nil {
		return nil, apperrors.NewLoadError(path, err)
	}

	log.Printf("[QuestionLoader] Загружено %d вопросов (%d тем) из %s", len(bank.Questions), len(bank.TopicList())-1, path)
	return bank, nil
}

// ParseBank разбирает и проверяет документ банка вопросов
func ParseBank(r io.Reader) (*entity.QuestionBank, error) {
	var bank entity.QuestionBank
	dec := json.NewDecoder(r)
	if err := dec.Decode(&bank); err != nil {
		return nil, fmt.Errorf("malformed question bank: %w", err)
	}
	if bank.Questions == nil {
		return nil, fmt.Errorf("question bank has no questions field")
	}
	if err := bank.Validate(); err != nil {
		return nil, err
	}
	return &bank, nil
}
