package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/exam-prep-api/internal/domain/entity"
	apperrors "github.com/yourusername/exam-prep-api/internal/pkg/errors"
)

func testBank() *entity.QuestionBank {
	return &entity.QuestionBank{
		Topics: []string{"Merkit"},
		Questions: []entity.Question{
			{ID: "q1", Topic: "Merkit", Options: entity.OptionList{{ID: "a"}}, CorrectOption: "a"},
			{ID: "q2", Topic: "Ensiapu", Options: entity.OptionList{{ID: "a"}, {ID: "b"}}},
			{ID: "q3", Topic: "Merkit", Options: entity.OptionList{{ID: "a"}}},
		},
	}
}

func TestQuestionRepo_Reads(t *testing.T) {
	// Arrange
	repo := NewQuestionRepo(testBank())

	// Act & Assert
	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 3)

	q, err := repo.GetByID("q2")
	require.NoError(t, err)
	assert.Equal(t, "Ensiapu", q.Topic)

	_, err = repo.GetByID("zz")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	byIDs, err := repo.GetByIDs([]string{"q3", "missing", "q1"})
	require.NoError(t, err)
	require.Len(t, byIDs, 2)
	assert.Equal(t, "q3", byIDs[0].ID)
	assert.Equal(t, "q1", byIDs[1].ID)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	topics, err := repo.GetTopics()
	require.NoError(t, err)
	assert.Equal(t, []string{"ALL", "Merkit"}, topics)
}

func TestQuestionRepo_ReturnsCopies(t *testing.T) {
	repo := NewQuestionRepo(testBank())

	all, _ := repo.GetAll()
	all[0].ID = "mutated"

	q, err := repo.GetByID("q1")
	require.NoError(t, err)
	assert.Equal(t, "q1", q.ID)
}
