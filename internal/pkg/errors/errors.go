package errors

import (
	"errors"
	"fmt"
)

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния (например, повторная сдача экзамена).
	ErrConflict = errors.New("resource state conflict")
)

// Ошибки сессий практики и экзамена.
// Каждая оборачивает одну из общих ошибок, чтобы обработчики могли сопоставить её с HTTP статусом через errors.Is.
var (
	// ErrNoSelection - попытка отправить ответ без выбранного варианта.
	ErrNoSelection = fmt.Errorf("%w: no option selected", ErrValidation)

	// ErrAlreadySubmitted - повторная отправка уже отправленного ответа или экзамена.
	ErrAlreadySubmitted = fmt.Errorf("%w: already submitted", ErrConflict)

	// ErrNotSubmitted - действие требует отправленного ответа (переход дальше, разбор экзамена).
	ErrNotSubmitted = fmt.Errorf("%w: not submitted yet", ErrConflict)

	// ErrEmptyPool - фильтр не дал ни одного вопроса. Это отдельное "пустое" состояние, а не сбой.
	ErrEmptyPool = fmt.Errorf("%w: no questions match the filter", ErrNotFound)

	// ErrExamInProgress - попытка начать новый экзамен, пока текущий идёт.
	ErrExamInProgress = fmt.Errorf("%w: exam is already running", ErrConflict)

	// ErrExamNotRunning - действие доступно только во время экзамена.
	ErrExamNotRunning = fmt.Errorf("%w: exam is not running", ErrConflict)

	// ErrUnknownQuestion - вопрос не входит в текущий пул.
	ErrUnknownQuestion = fmt.Errorf("%w: question is not in the current pool", ErrValidation)

	// ErrUnknownOption - у вопроса нет такого варианта ответа.
	ErrUnknownOption = fmt.Errorf("%w: option does not belong to the question", ErrValidation)
)

// LoadError описывает фатальную ошибку загрузки банка вопросов.
type LoadError struct {
	Source string
	Err    error
}

// NewLoadError создает LoadError для указанного источника
func NewLoadError(source string, err error) *LoadError {
	return &LoadError{Source: source, Err: err}
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load question bank from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsLoadError проверяет, является ли ошибка ошибкой загрузки банка вопросов
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}
