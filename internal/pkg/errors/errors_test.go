package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionErrors_WrapGenericSentinels(t *testing.T) {
	assert.ErrorIs(t, ErrNoSelection, ErrValidation)
	assert.ErrorIs(t, ErrUnknownOption, ErrValidation)
	assert.ErrorIs(t, ErrUnknownQuestion, ErrValidation)
	assert.ErrorIs(t, ErrAlreadySubmitted, ErrConflict)
	assert.ErrorIs(t, ErrNotSubmitted, ErrConflict)
	assert.ErrorIs(t, ErrExamInProgress, ErrConflict)
	assert.ErrorIs(t, ErrExamNotRunning, ErrConflict)
	assert.ErrorIs(t, ErrEmptyPool, ErrNotFound)

	assert.False(t, errors.Is(ErrNoSelection, ErrConflict))
}

func TestLoadError(t *testing.T) {
	// Arrange
	cause := errors.New("unexpected end of JSON input")

	// Act
	err := fmt.Errorf("startup: %w", NewLoadError("data/questions.json", cause))

	// Assert
	assert.True(t, IsLoadError(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "data/questions.json")
	assert.False(t, IsLoadError(cause))
}
