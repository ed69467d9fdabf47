package jsonfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yourusername/exam-prep-api/internal/pkg/errors"
)

const validBank = `{
  "topics": ["Merkit", "Ensiapu"],
  "questions": [
    {"id": "m1", "topic": "Merkit", "question_fi": "Mitä merkki tarkoittaa?", "question_bn": "চিহ্নটির অর্থ কী?",
     "options": [{"id": "a", "fi": "Stop", "bn": "থামুন"}, {"id": "b", "fi": "Väistä"}], "answer": "a",
     "explain_fi": "Pakollinen pysäyttäminen."},
    {"id": "e1", "topic": "Ensiapu", "question_fi": "Hätänumero?",
     "options": [{"id": "a", "fi": "112"}, {"id": "b", "fi": "911"}]}
  ]
}`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questions.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadBank_Valid(t *testing.T) {
	// Arrange
	path := writeFile(t, validBank)

	// Act
	bank, err := LoadBank(path)

	// Assert
	require.NoError(t, err)
	require.Len(t, bank.Questions, 2)
	assert.Equal(t, "a", bank.Questions[0].CorrectOption)
	assert.Equal(t, "থামুন", bank.Questions[0].Options[0].TextBN)
	assert.False(t, bank.Questions[1].IsGraded(), "вопрос без answer должен быть без оценки")
	assert.Equal(t, []string{"ALL", "Merkit", "Ensiapu"}, bank.TopicList())
}

func TestLoadBank_Errors(t *testing.T) {
	cases := map[string]string{
		"malformed":         `{"questions": [`,
		"no questions":      `{"topics": []}`,
		"bad answer":        `{"questions": [{"id": "x", "options": [{"id": "a"}], "answer": "z"}]}`,
		"duplicate ids":     `{"questions": [{"id": "x", "options": [{"id": "a"}]}, {"id": "x", "options": [{"id": "a"}]}]}`,
		"option without id": `{"questions": [{"id": "x", "options": [{"fi": "?"}]}]}`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadBank(writeFile(t, content))
			require.Error(t, err)
			assert.True(t, apperrors.IsLoadError(err))
		})
	}
}

func TestLoadBank_MissingFile(t *testing.T) {
	_, err := LoadBank(filepath.Join(t.TempDir(), "absent.json"))

	require.Error(t, err)
	assert.True(t, apperrors.IsLoadError(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseBank_EmptyQuestionsIsValid(t *testing.T) {
	bank, err := ParseBank(strings.NewReader(`{"topics": [], "questions": []}`))

	require.NoError(t, err)
	assert.Empty(t, bank.Questions)
}
